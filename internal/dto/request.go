package dto

// ── 变更请求模块 DTO ──

// CreateRequestRequest 创建变更请求
// 不同 request_type 使用不同字段子集，service 层按类型校验
type CreateRequestRequest struct {
	RequestType string `json:"request_type" binding:"required,oneof=NEW_SHIFT SWITCH OFFER OFF_REQUEST"`

	// NEW_SHIFT
	RequestedShiftDate    string  `json:"requested_shift_date"    binding:"omitempty,datetime=2006-01-02"`
	RequestedShiftTypeID  string  `json:"requested_shift_type_id" binding:"omitempty,uuid"`
	RequestedDepartmentID string  `json:"requested_department_id" binding:"omitempty,uuid"`
	DivisionID            string  `json:"division_id"             binding:"omitempty,uuid"`
	ManagerUserID         *string `json:"manager_user_id"         binding:"omitempty,uuid"` // 显式指定审批人，缺省取默认审批人

	// SWITCH
	SourceShiftAssignmentID string `json:"source_shift_assignment_id" binding:"omitempty,uuid"`
	TargetShiftAssignmentID string `json:"target_shift_assignment_id" binding:"omitempty,uuid"`

	// OFFER
	ShiftOfferID string `json:"shift_offer_id" binding:"omitempty,uuid"`

	// OFF_REQUEST
	ShiftAssignmentID    string `json:"shift_assignment_id"    binding:"omitempty,uuid"`
	RequestedAbsenceType string `json:"requested_absence_type" binding:"omitempty,min=1,max=50"`
}

// DecideRequestRequest 审批/驳回请求
type DecideRequestRequest struct {
	Comment *string `json:"comment" binding:"omitempty,max=500"`
}

// AttachAssignmentRequest 将已批准的 NEW_SHIFT 请求挂接到实际排班行
type AttachAssignmentRequest struct {
	ShiftAssignmentID string `json:"shift_assignment_id" binding:"required,uuid"`
}

// RequestListRequest 变更请求列表查询参数
type RequestListRequest struct {
	RequestedByUserID string `form:"requested_by_user_id" binding:"omitempty,uuid"`
	InboxUserID       string `form:"inbox_user_id"        binding:"omitempty,uuid"`
	DivisionID        string `form:"division_id"          binding:"omitempty,uuid"`
	RequestStatus     string `form:"request_status"`
	PendingOnly       bool   `form:"pending_only"`
	PaginationRequest
}

// ── 响应 ──

// RequestResponse 变更请求响应
type RequestResponse struct {
	ID                      string  `json:"id"`
	RequestType             string  `json:"request_type"`
	RequestStatus           string  `json:"request_status"`
	RequestedByUserID       string  `json:"requested_by_user_id"`
	TargetUserID            *string `json:"target_user_id,omitempty"`
	InboxUserID             *string `json:"inbox_user_id,omitempty"`
	DivisionID              *string `json:"division_id,omitempty"`
	ShiftAssignmentID       *string `json:"shift_assignment_id,omitempty"`
	SourceShiftAssignmentID *string `json:"source_shift_assignment_id,omitempty"`
	TargetShiftAssignmentID *string `json:"target_shift_assignment_id,omitempty"`
	ShiftOfferID            *string `json:"shift_offer_id,omitempty"`
	RequestedShiftDate      string  `json:"requested_shift_date"`
	RequestedShiftTypeID    string  `json:"requested_shift_type_id"`
	RequestedDepartmentID   string  `json:"requested_department_id"`
	RequestedAbsenceType    *string `json:"requested_absence_type,omitempty"`
	CreatedAt               string  `json:"created_at"`
	DecidedAt               *string `json:"decided_at,omitempty"`
	DecisionByUserID        *string `json:"decision_by_user_id,omitempty"`
	DecisionComment         *string `json:"decision_comment,omitempty"`
}

// HistoryResponse 归属变更流水响应
type HistoryResponse struct {
	ID                string  `json:"id"`
	ShiftAssignmentID string  `json:"shift_assignment_id"`
	FromUserID        *string `json:"from_user_id,omitempty"`
	ToUserID          string  `json:"to_user_id"`
	ChangeReason      string  `json:"change_reason"`
	ShiftRequestID    *string `json:"shift_request_id,omitempty"`
	ShiftOfferID      *string `json:"shift_offer_id,omitempty"`
	ShiftDate         string  `json:"shift_date"`
	Comment           *string `json:"comment,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

// [自证通过] internal/dto/request.go
