package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workdesk/internal/model"
	"workdesk/internal/repository"
)

// DefaultRoles 内置角色，与默认的 permission 配置对应
var DefaultRoles = []model.Role{
	{Name: "admin", Description: "最高管理员"},
	{Name: "boss", Description: "管理者"},
	{Name: "staff", Description: "普通员工"},
}

// Admin 初始管理员
type Admin struct {
	Code     string
	Name     string
	Password string
	Role     string
}

// Run 写入内置角色与初始管理员，已存在的记录保持不变
func Run(ctx context.Context, repo *repository.Repository, admin Admin, logger *zap.Logger) error {
	if admin.Code == "" || admin.Password == "" {
		return errors.New("管理员工号与密码不能为空")
	}

	return repo.Transaction(ctx, func(tx *repository.Repository) error {
		roles := make(map[string]*model.Role, len(DefaultRoles))
		for i := range DefaultRoles {
			role, err := ensureRole(ctx, tx, DefaultRoles[i], logger)
			if err != nil {
				return err
			}
			roles[role.Name] = role
		}

		role, ok := roles[admin.Role]
		if !ok {
			return fmt.Errorf("未知角色: %s", admin.Role)
		}

		_, err := tx.User.GetByCode(ctx, admin.Code)
		if err == nil {
			logger.Info("管理员已存在，跳过", zap.String("code", admin.Code))
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("查询管理员失败: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("生成密码哈希失败: %w", err)
		}
		if err := tx.User.Create(ctx, &model.User{
			Code:         admin.Code,
			Name:         admin.Name,
			PasswordHash: string(hash),
			RoleID:       role.RoleID,
		}); err != nil {
			return fmt.Errorf("创建管理员失败: %w", err)
		}

		logger.Info("管理员已创建", zap.String("code", admin.Code), zap.String("role", role.Name))
		return nil
	})
}

func ensureRole(ctx context.Context, repo *repository.Repository, want model.Role, logger *zap.Logger) (*model.Role, error) {
	role, err := repo.Role.GetByName(ctx, want.Name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询角色 %s 失败: %w", want.Name, err)
	}

	role = &model.Role{Name: want.Name, Description: want.Description}
	if err := repo.Role.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("创建角色 %s 失败: %w", want.Name, err)
	}
	logger.Info("角色已创建", zap.String("name", role.Name))
	return role, nil
}
