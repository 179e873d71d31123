package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// SoftDeleteModel 支持软删除的审计字段
// 所有读路径经 GORM 自动追加 deleted_at IS NULL
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// ensureID 主键为空时生成 UUID
// 由各模型的 BeforeCreate 调用，不依赖数据库的 gen_random_uuid()
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
