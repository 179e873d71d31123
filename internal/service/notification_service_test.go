package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"workdesk/internal/dto"
	"workdesk/internal/model"
	pkgerrors "workdesk/pkg/errors"
)

func setupTestNotificationService() (NotificationService, *mockRepos) {
	m := newMockRepos()
	return NewNotificationService(m.repo, testPageCfg, zap.NewNop()), m
}

func seedNotifications(t *testing.T, m *mockRepos, userID string, n int) {
	t.Helper()
	rows := make([]model.Notification, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, model.Notification{
			UserID:  userID,
			Module:  model.KindWork,
			Type:    model.NotificationAssigned,
			Title:   "新的工作任务",
			Content: "您有新的工作任务",
		})
	}
	if err := m.notifications.BatchCreate(context.Background(), rows); err != nil {
		t.Fatalf("创建测试通知失败: %v", err)
	}
}

func TestNotificationService_ListAndUnread(t *testing.T) {
	svc, m := setupTestNotificationService()
	ctx := context.Background()
	seedNotifications(t, m, "u1", 3)
	seedNotifications(t, m, "u2", 1)

	list, err := svc.List(ctx, "u1", &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("期望 3 条，实际=%d", len(list))
	}
	if list[0].CreatedAt < list[2].CreatedAt {
		t.Error("通知应按创建时间倒序")
	}

	count, _ := svc.UnreadCount(ctx, "u1")
	if count.Count != 3 {
		t.Errorf("未读数期望 3，实际=%d", count.Count)
	}

	if err := svc.MarkRead(ctx, "u1", &dto.MarkReadRequest{ID: list[0].ID}); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}

	unread := 0
	read, err := svc.List(ctx, "u1", &dto.NotificationListRequest{IsRead: &unread})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(read) != 2 {
		t.Errorf("未读过滤期望 2 条，实际=%d", len(read))
	}
}

func TestNotificationService_MarkRead_RequiresIDs(t *testing.T) {
	svc, _ := setupTestNotificationService()
	err := svc.MarkRead(context.Background(), "u1", &dto.MarkReadRequest{})
	if !errors.Is(err, pkgerrors.ErrBadRequest) {
		t.Errorf("期望 ErrBadRequest，实际: %v", err)
	}
}

func TestNotificationService_MarkRead_OwnOnly(t *testing.T) {
	svc, m := setupTestNotificationService()
	ctx := context.Background()
	seedNotifications(t, m, "u2", 1)
	other := m.notifications.rows[0].NotificationID

	// 他人的通知不报错，但也不会被修改
	if err := svc.MarkRead(ctx, "u1", &dto.MarkReadRequest{IDs: []string{other}}); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}
	if m.notifications.rows[0].IsRead != 0 {
		t.Error("不应修改他人的通知")
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, m := setupTestNotificationService()
	ctx := context.Background()
	seedNotifications(t, m, "u1", 2)
	seedNotifications(t, m, "u2", 1)

	if err := svc.MarkAllRead(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllRead 失败: %v", err)
	}
	c1, _ := svc.UnreadCount(ctx, "u1")
	c2, _ := svc.UnreadCount(ctx, "u2")
	if c1.Count != 0 || c2.Count != 1 {
		t.Errorf("未读数错误: u1=%d u2=%d", c1.Count, c2.Count)
	}
}

func TestNotificationService_Delete(t *testing.T) {
	svc, m := setupTestNotificationService()
	ctx := context.Background()
	seedNotifications(t, m, "u1", 1)
	id := m.notifications.rows[0].NotificationID

	if err := svc.Delete(ctx, "u2", id); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("他人删除期望 ErrNotFound，实际: %v", err)
	}
	if err := svc.Delete(ctx, "u1", id); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if err := svc.Delete(ctx, "u1", id); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("重复删除期望 ErrNotFound，实际: %v", err)
	}
	list, _ := svc.List(ctx, "u1", &dto.NotificationListRequest{})
	if len(list) != 0 {
		t.Errorf("删除后列表应为空，实际=%d", len(list))
	}
}
