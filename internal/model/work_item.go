package model

import "gorm.io/gorm"

// 工作项类别，同时作为通知的 module 字段
const (
	KindWork     = "work"
	KindSchedule = "schedule"
)

// 工作项状态
const (
	StatusPending    = "未完成"
	StatusInProgress = "进行中"
	StatusAtRisk     = "有风险"
	StatusDone       = "已完成"
	StatusStopped    = "已停止"
)

// ValidStatuses 所有合法状态
var ValidStatuses = []string{StatusPending, StatusInProgress, StatusAtRisk, StatusDone, StatusStopped}

// IsValidStatus 判断状态值是否合法
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// WorkItem 工作项表，对应 work_items
// 工作任务与日程共用一张表，以 kind 区分
type WorkItem struct {
	ItemID      string  `gorm:"type:uuid;primaryKey"                       json:"item_id"`
	Kind        string  `gorm:"type:varchar(20);not null"                  json:"kind"`
	Title       string  `gorm:"type:varchar(200);not null"                 json:"title"`
	Description string  `gorm:"type:text;not null"                         json:"description"`
	Status      string  `gorm:"type:varchar(20);not null;default:'未完成'"    json:"status"`
	CreatorID   string  `gorm:"type:uuid;not null"                         json:"creator_id"`
	CompanyID   *string `gorm:"type:varchar(64)"                           json:"company_id,omitempty"`
	DeletedBy   *string `gorm:"type:uuid"                                  json:"deleted_by,omitempty"`
	SoftDeleteModel

	// 关联
	Assignees []WorkItemAssignee `gorm:"foreignKey:ItemID;references:ItemID" json:"assignees,omitempty"`
	Comments  []WorkItemComment  `gorm:"foreignKey:ItemID;references:ItemID" json:"comments,omitempty"`
}

// TableName 指定表名
func (WorkItem) TableName() string { return "work_items" }

func (w *WorkItem) BeforeCreate(*gorm.DB) error {
	ensureID(&w.ItemID)
	return nil
}

// AssigneeIDs 按 position 顺序返回负责人 ID
func (w *WorkItem) AssigneeIDs() []string {
	ids := make([]string, 0, len(w.Assignees))
	for _, a := range w.Assignees {
		ids = append(ids, a.UserID)
	}
	return ids
}

// HasAssignee 判断用户是否为负责人
func (w *WorkItem) HasAssignee(userID string) bool {
	for _, a := range w.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// WorkItemAssignee 工作项负责人，对应 work_item_assignees
// position 保留请求中的顺序
type WorkItemAssignee struct {
	ItemID   string `gorm:"type:uuid;primaryKey"    json:"item_id"`
	UserID   string `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Position int    `gorm:"not null;default:0"       json:"position"`
}

// TableName 指定表名
func (WorkItemAssignee) TableName() string { return "work_item_assignees" }

// NewAssignees 将有序的用户 ID 转为负责人行，重复 ID 只保留首次出现
func NewAssignees(itemID string, userIDs []string) []WorkItemAssignee {
	seen := make(map[string]struct{}, len(userIDs))
	rows := make([]WorkItemAssignee, 0, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, WorkItemAssignee{ItemID: itemID, UserID: id, Position: len(rows)})
	}
	return rows
}

// WorkItemComment 工作项回复，对应 work_item_comments
type WorkItemComment struct {
	CommentID string `gorm:"type:uuid;primaryKey"   json:"comment_id"`
	ItemID    string `gorm:"type:uuid;not null;index" json:"item_id"`
	UserID    string `gorm:"type:uuid;not null"     json:"user_id"`
	Content   string `gorm:"type:text;not null"     json:"content"`
	IsSystem  bool   `gorm:"not null;default:false" json:"is_system"` // 状态变更自动生成
	SoftDeleteModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (WorkItemComment) TableName() string { return "work_item_comments" }

func (c *WorkItemComment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.CommentID)
	return nil
}
