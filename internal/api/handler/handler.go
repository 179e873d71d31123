package handler

import "workdesk/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	WorkTask     *WorkItemHandler
	Schedule     *WorkItemHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		WorkTask:     NewWorkItemHandler(svc.WorkTask, workTaskCodes),
		Schedule:     NewWorkItemHandler(svc.Schedule, scheduleCodes),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
