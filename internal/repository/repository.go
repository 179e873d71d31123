package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Role         RoleRepository
	User         UserRepository
	WorkItem     WorkItemRepository
	Comment      CommentRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Role:         NewRoleRepo(db),
		User:         NewUserRepo(db),
		WorkItem:     NewWorkItemRepo(db),
		Comment:      NewCommentRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在同一事务内执行 fn，fn 返回错误时整体回滚
// 已处于事务中时再次调用会创建 SAVEPOINT，内层失败只回滚到保存点。
// db 为空（单元测试中手工组装的聚合）时直接以自身执行 fn。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// offsetLimit 追加分页条件，limit <= 0 表示不分页
func offsetLimit(db *gorm.DB, offset, limit int) *gorm.DB {
	if limit <= 0 {
		return db
	}
	if offset > 0 {
		db = db.Offset(offset)
	}
	return db.Limit(limit)
}
