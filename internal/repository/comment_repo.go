package repository

import (
	"context"

	"gorm.io/gorm"

	"workdesk/internal/model"
)

// CommentRepository 工作项回复数据访问接口
type CommentRepository interface {
	Create(ctx context.Context, comment *model.WorkItemComment) error
	// GetByID 查询未删除回复，所属工作项须为指定类别且未删除
	GetByID(ctx context.Context, kind, id string) (*model.WorkItemComment, error)
	SoftDelete(ctx context.Context, id string) error
	SoftDeleteByItem(ctx context.Context, itemID string) error
}

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepo 创建 CommentRepository 实例
func NewCommentRepo(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, comment *model.WorkItemComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepo) GetByID(ctx context.Context, kind, id string) (*model.WorkItemComment, error) {
	var comment model.WorkItemComment
	err := r.db.WithContext(ctx).
		Joins("JOIN work_items ON work_items.item_id = work_item_comments.item_id").
		Where("work_item_comments.comment_id = ?", id).
		Where("work_items.kind = ? AND work_items.deleted_at IS NULL", kind).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ?", id).
		Delete(&model.WorkItemComment{}).Error
}

func (r *commentRepo) SoftDeleteByItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&model.WorkItemComment{}).Error
}
