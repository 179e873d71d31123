package repository

import (
	"context"

	"gorm.io/gorm"

	"workdesk/internal/model"
)

// NotificationFilter 通知列表查询条件
type NotificationFilter struct {
	UserID string
	IsRead *int
	Offset int
	Limit  int // <= 0 表示不分页
}

// NotificationRepository 通知数据访问接口
// 除 BatchCreate 与 SoftDeleteByRelated 外，所有操作都限定在 userID 名下
type NotificationRepository interface {
	BatchCreate(ctx context.Context, notifications []model.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	GetOwned(ctx context.Context, userID, id string) (*model.Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	SoftDelete(ctx context.Context, userID, id string) error
	// SoftDeleteByRelated 软删除关联到某条工作项的通知
	SoftDeleteByRelated(ctx context.Context, module, relatedID string) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepo) List(ctx context.Context, f NotificationFilter) ([]model.Notification, error) {
	db := r.db.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.IsRead != nil {
		db = db.Where("is_read = ?", *f.IsRead)
	}

	var list []model.Notification
	err := offsetLimit(db, f.Offset, f.Limit).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Count(&n).Error
	return n, err
}

func (r *notificationRepo) GetOwned(ctx context.Context, userID, id string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", id, userID).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND notification_id IN ?", userID, ids).
		Update("is_read", 1)
	return result.RowsAffected, result.Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Update("is_read", 1)
	return result.RowsAffected, result.Error
}

func (r *notificationRepo) SoftDelete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{}).Error
}

func (r *notificationRepo) SoftDeleteByRelated(ctx context.Context, module, relatedID string) error {
	return r.db.WithContext(ctx).
		Where("related_id = ? AND module = ?", relatedID, module).
		Delete(&model.Notification{}).Error
}
