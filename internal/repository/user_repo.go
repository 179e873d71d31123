package repository

import (
	"context"

	"gorm.io/gorm"

	"workdesk/internal/model"
)

// UserRepository 用户数据访问接口
// 用户与角色由外部系统维护，本服务只读（Create 仅供初始化数据使用）
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByCode(ctx context.Context, code string) (*model.User, error)
	// ListActiveByIDs 批量查询未删除用户（含角色），顺序不保证
	ListActiveByIDs(ctx context.Context, ids []string) ([]model.User, error)
	// RoleNamesByIDs 批量查询未删除用户的角色名，未知用户不出现在结果中
	RoleNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("code = ?", code).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ListActiveByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id IN ?", ids).
		Find(&users).Error
	return users, err
}

func (r *userRepo) RoleNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID   string
		RoleName string
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.user_id, roles.name AS role_name").
		Joins("JOIN roles ON roles.role_id = users.role_id").
		Where("users.user_id IN ? AND users.deleted_at IS NULL", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = row.RoleName
	}
	return result, nil
}

// ── Role ──

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	GetByName(ctx context.Context, name string) (*model.Role, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
