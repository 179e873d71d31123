package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workdesk/config"
	"workdesk/internal/dto"
	"workdesk/internal/model"
	"workdesk/internal/repository"
	pkgerrors "workdesk/pkg/errors"
	"workdesk/pkg/logger"
)

// NotificationService 通知读取与状态维护，所有操作限定在当前用户名下
type NotificationService interface {
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, userID string, req *dto.MarkReadRequest) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repo    *repository.Repository
	pageCfg config.PaginationConfig
	logger  *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, pageCfg config.PaginationConfig, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, pageCfg: pageCfg, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, error) {
	offset, limit := req.OffsetLimit(s.pageCfg.DefaultPageSize, s.pageCfg.MaxPageSize)

	list, err := s.repo.Notification.List(ctx, repository.NotificationFilter{
		UserID: userID,
		IsRead: req.IsRead,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		logger.From(ctx, s.logger).Error("查询通知列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	out := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toNotificationResponse(&list[i]))
	}
	return out, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	n, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		logger.From(ctx, s.logger).Error("统计未读通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: n}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, req *dto.MarkReadRequest) error {
	ids := req.AllIDs()
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.ErrBadRequest, "请指定要标记的通知")
	}

	if _, err := s.repo.Notification.MarkRead(ctx, userID, ids); err != nil {
		logger.From(ctx, s.logger).Error("标记通知已读失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := s.repo.Notification.MarkAllRead(ctx, userID); err != nil {
		logger.From(ctx, s.logger).Error("全部标记已读失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.Notification.GetOwned(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.ErrNotFound, "通知不存在")
		}
		logger.From(ctx, s.logger).Error("查询通知失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Notification.SoftDelete(ctx, userID, id); err != nil {
		logger.From(ctx, s.logger).Error("删除通知失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.NotificationID,
		Module:    n.Module,
		Type:      n.Type,
		Title:     n.Title,
		Content:   n.Content,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(timeLayout),
	}
}
