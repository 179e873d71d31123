package model

import "gorm.io/gorm"

// 通知类型
const (
	NotificationAssigned  = "assigned"
	NotificationUpdated   = "updated"
	NotificationCommented = "commented"
)

// Notification 通知消息表，对应 notifications
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey"          json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null;index"      json:"user_id"`
	Module         string  `gorm:"type:varchar(20);not null"     json:"module"` // work | schedule
	Type           string  `gorm:"type:varchar(50);not null"     json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"    json:"title"`
	Content        string  `gorm:"type:text;not null"            json:"content"`
	RelatedID      *string `gorm:"type:uuid"                     json:"related_id,omitempty"`
	IsRead         int     `gorm:"type:smallint;not null;default:0" json:"is_read"` // 0 未读 / 1 已读
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.NotificationID)
	return nil
}
