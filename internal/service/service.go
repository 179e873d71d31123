package service

import (
	"go.uber.org/zap"

	"workdesk/config"
	"workdesk/internal/policy"
	"workdesk/internal/repository"
	"workdesk/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	WorkTask     WorkItemService
	Schedule     WorkItemService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	pol *policy.Policy,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	dispatcher := NewNotificationDispatcher(repo, pol, logger)
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, blacklist, logger),
		WorkTask:     NewWorkItemService(WorkTaskKind, repo, pol, dispatcher, cfg.Pagination, logger),
		Schedule:     NewWorkItemService(ScheduleKind, repo, pol, dispatcher, cfg.Pagination, logger),
		Notification: NewNotificationService(repo, cfg.Pagination, logger),
		Export:       NewExportService(repo, pol, logger),
	}
}
