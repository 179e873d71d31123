package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workdesk/internal/model"
)

// WorkItemFilter 工作项列表查询条件
type WorkItemFilter struct {
	Kind string
	// VisibleTo 非空时只返回该用户创建或负责的记录
	VisibleTo string
	Status    string
	Keyword   string
	Offset    int
	Limit     int // <= 0 表示不分页
}

// WorkItemRepository 工作项数据访问接口
type WorkItemRepository interface {
	// Create 写入工作项及其负责人行
	Create(ctx context.Context, item *model.WorkItem) error
	// GetByID 查询指定类别的未删除工作项（含负责人）
	GetByID(ctx context.Context, kind, id string) (*model.WorkItem, error)
	// GetDetail 在 GetByID 基础上加载未删除回复及回复人角色
	GetDetail(ctx context.Context, kind, id string) (*model.WorkItem, error)
	List(ctx context.Context, filter WorkItemFilter) ([]model.WorkItem, error)
	// CountByStatus 按状态统计可见记录数
	CountByStatus(ctx context.Context, kind, visibleTo string) (map[string]int64, error)
	// UpdateFields 局部更新，自动刷新 updated_at
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// ReplaceAssignees 以新的有序列表整体替换负责人
	ReplaceAssignees(ctx context.Context, id string, userIDs []string) error
	SoftDelete(ctx context.Context, id, deletedBy string) error
}

type workItemRepo struct {
	db *gorm.DB
}

// NewWorkItemRepo 创建 WorkItemRepository 实例
func NewWorkItemRepo(db *gorm.DB) WorkItemRepository {
	return &workItemRepo{db: db}
}

func (r *workItemRepo) Create(ctx context.Context, item *model.WorkItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		if len(item.Assignees) == 0 {
			return nil
		}
		for i := range item.Assignees {
			item.Assignees[i].ItemID = item.ItemID
		}
		return tx.Create(&item.Assignees).Error
	})
}

func preloadAssignees(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *workItemRepo) GetByID(ctx context.Context, kind, id string) (*model.WorkItem, error) {
	var item model.WorkItem
	err := r.db.WithContext(ctx).
		Preload("Assignees", preloadAssignees).
		Where("item_id = ? AND kind = ?", id, kind).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *workItemRepo) GetDetail(ctx context.Context, kind, id string) (*model.WorkItem, error) {
	var item model.WorkItem
	err := r.db.WithContext(ctx).
		Preload("Assignees", preloadAssignees).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.User").
		Preload("Comments.User.Role").
		Where("item_id = ? AND kind = ?", id, kind).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// scoped 组合类别、可见性、状态与关键字条件
// 可见性与关键字各自分组，组间为 AND
func (r *workItemRepo) scoped(db *gorm.DB, kind, visibleTo, status, keyword string) *gorm.DB {
	db = db.Where("kind = ?", kind)

	if visibleTo != "" {
		assigned := r.db.Model(&model.WorkItemAssignee{}).Select("item_id").Where("user_id = ?", visibleTo)
		db = db.Where(
			r.db.Where("creator_id = ?", visibleTo).Or("item_id IN (?)", assigned),
		)
	}

	if status != "" {
		db = db.Where("status = ?", status)
	}

	if kw := strings.TrimSpace(keyword); kw != "" {
		pattern := "%" + escapeLike(kw) + "%"
		db = db.Where(
			r.db.Where(`title LIKE ? ESCAPE '\'`, pattern).Or(`description LIKE ? ESCAPE '\'`, pattern),
		)
	}

	return db
}

func (r *workItemRepo) List(ctx context.Context, f WorkItemFilter) ([]model.WorkItem, error) {
	var items []model.WorkItem
	db := r.scoped(r.db.WithContext(ctx).Model(&model.WorkItem{}), f.Kind, f.VisibleTo, f.Status, f.Keyword)
	err := offsetLimit(db, f.Offset, f.Limit).
		Preload("Assignees", preloadAssignees).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *workItemRepo) CountByStatus(ctx context.Context, kind, visibleTo string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.scoped(r.db.WithContext(ctx).Model(&model.WorkItem{}), kind, visibleTo, "", "").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *workItemRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now()
	}
	return r.db.WithContext(ctx).
		Model(&model.WorkItem{}).
		Where("item_id = ?", id).
		Updates(fields).Error
}

func (r *workItemRepo) ReplaceAssignees(ctx context.Context, id string, userIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&model.WorkItemAssignee{}).Error; err != nil {
			return err
		}
		rows := model.NewAssignees(id, userIDs)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *workItemRepo) SoftDelete(ctx context.Context, id, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.WorkItem{}).
		Where("item_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		}).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，关键字按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
