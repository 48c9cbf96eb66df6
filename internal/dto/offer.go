package dto

// ── 班次转让模块 DTO ──

// CreateOfferRequest 发起班次转让
type CreateOfferRequest struct {
	ShiftAssignmentID string  `json:"shift_assignment_id" binding:"required,uuid"`
	VisibilityScope   string  `json:"visibility_scope"    binding:"omitempty,oneof=ALL_ELIGIBLE TARGET_USER"`
	TargetUserID      *string `json:"target_user_id"      binding:"omitempty,uuid"`
	Note              *string `json:"note"                binding:"omitempty,max=500"`
}

// OfferListRequest 可领取转让列表查询参数
type OfferListRequest struct {
	StartDate    string `form:"start_date"     binding:"omitempty,datetime=2006-01-02"`
	EndDate      string `form:"end_date"       binding:"omitempty,datetime=2006-01-02"`
	DivisionID   string `form:"division_id"    binding:"omitempty,uuid"`
	DepartmentID string `form:"department_id"  binding:"omitempty,uuid"`
	ShiftTypeID  string `form:"shift_type_id"  binding:"omitempty,uuid"`
	PaginationRequest
}

// ── 响应 ──

// OfferResponse 转让单响应
type OfferResponse struct {
	ID                string              `json:"id"`
	ShiftAssignmentID string              `json:"shift_assignment_id"`
	OfferedByUserID   string              `json:"offered_by_user_id"`
	OfferedAt         string              `json:"offered_at"`
	Status            string              `json:"status"`
	VisibilityScope   string              `json:"visibility_scope"`
	TargetUserID      *string             `json:"target_user_id,omitempty"`
	Note              *string             `json:"note,omitempty"`
	TakenByUserID     *string             `json:"taken_by_user_id,omitempty"`
	Assignment        *AssignmentResponse `json:"assignment,omitempty"`
}

// [自证通过] internal/dto/offer.go
