package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workdesk/internal/model"
	"workdesk/internal/policy"
	"workdesk/internal/repository"
	"workdesk/pkg/logger"
)

// DispatchEvent 一次通知派发的输入
type DispatchEvent struct {
	ItemID          string
	CreatorID       string
	AssignedUserIDs []string
	Op              Operation
	// OperatorID 执行更新或回复的用户，create 时忽略
	OperatorID string
}

// NotificationDispatcher 为工作项相关用户生成通知
//
// 派发在业务事务提交之后执行，失败只记录日志。
// 任一查询失败即放弃整次派发，不会出现只通知一部分人的情况。
type NotificationDispatcher struct {
	repo   *repository.Repository
	policy *policy.Policy
	logger *zap.Logger
}

// NewNotificationDispatcher 创建通知派发器
func NewNotificationDispatcher(repo *repository.Repository, pol *policy.Policy, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{repo: repo, policy: pol, logger: logger}
}

// Dispatch 派发通知，错误不向调用方返回
func (d *NotificationDispatcher) Dispatch(ctx context.Context, kind ItemKind, ev DispatchEvent) {
	n, err := d.dispatch(ctx, kind, ev)
	lg := logger.From(ctx, d.logger)
	if err != nil {
		lg.Warn("派发通知失败",
			zap.String("module", kind.Module),
			zap.String("item_id", ev.ItemID),
			zap.String("op", string(ev.Op)),
			zap.Error(err),
		)
		return
	}
	lg.Debug("派发通知完成",
		zap.String("module", kind.Module),
		zap.String("item_id", ev.ItemID),
		zap.String("op", string(ev.Op)),
		zap.Int("count", n),
	)
}

// dispatch 返回写入的通知条数
func (d *NotificationDispatcher) dispatch(ctx context.Context, kind ItemKind, ev DispatchEvent) (int, error) {
	tpl, ok := kind.Templates[ev.Op]
	if !ok {
		return 0, nil
	}

	item, err := d.repo.WorkItem.GetByID(ctx, kind.Module, ev.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	candidates := recipients(ev)
	if len(candidates) == 0 {
		return 0, nil
	}

	roles, err := d.repo.User.RoleNamesByIDs(ctx, candidates)
	if err != nil {
		return 0, err
	}

	title, content := tpl.Render(item.Title)
	relatedID := item.ItemID
	rows := make([]model.Notification, 0, len(candidates))
	for _, uid := range candidates {
		role, known := roles[uid]
		if !known || d.policy.IsTopAdminRole(role) {
			continue
		}
		rows = append(rows, model.Notification{
			UserID:    uid,
			Module:    kind.Module,
			Type:      tpl.Type,
			Title:     title,
			Content:   content,
			RelatedID: &relatedID,
			IsRead:    0,
		})
	}

	if err := d.repo.Notification.BatchCreate(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// recipients 计算候选接收人，保持负责人顺序并去重
//
//   - create: 负责人中排除创建人
//   - update: 负责人中排除操作人，另加创建人（非负责人且非操作人时）
//   - comment: 负责人中排除回复人
func recipients(ev DispatchEvent) []string {
	excluded := ev.OperatorID
	if ev.Op == OpCreate {
		excluded = ev.CreatorID
	}

	seen := make(map[string]struct{}, len(ev.AssignedUserIDs)+1)
	out := make([]string, 0, len(ev.AssignedUserIDs)+1)
	add := func(uid string) {
		if uid == "" || uid == excluded {
			return
		}
		if _, ok := seen[uid]; ok {
			return
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}

	for _, uid := range ev.AssignedUserIDs {
		add(uid)
	}
	if ev.Op == OpUpdate && ev.CreatorID != ev.OperatorID {
		add(ev.CreatorID)
	}
	return out
}
