package model

import "gorm.io/gorm"

// Role 角色表，对应 roles
type Role struct {
	RoleID      string `gorm:"type:uuid;primaryKey"              json:"role_id"`
	Name        string `gorm:"type:varchar(50);not null"         json:"name"`
	Description string `gorm:"type:varchar(255);not null;default:''" json:"description"`
	SoftDeleteModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }

func (r *Role) BeforeCreate(*gorm.DB) error {
	ensureID(&r.RoleID)
	return nil
}

// User 用户表，对应 users
// 本服务只读取 id、name、code、department 与角色名
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey"          json:"user_id"`
	Code         string  `gorm:"type:varchar(50);not null"     json:"code"`
	Name         string  `gorm:"type:varchar(100);not null"    json:"name"`
	Department   *string `gorm:"type:varchar(100)"             json:"department,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null"    json:"-"`
	RoleID       string  `gorm:"type:uuid;not null"            json:"role_id"`
	SoftDeleteModel

	// 关联
	Role *Role `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.UserID)
	return nil
}

// RoleName 返回角色名，未加载角色时为空
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}
