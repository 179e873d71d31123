package service

import (
	"fmt"

	"workdesk/internal/model"
)

// Operation 触发通知的操作
type Operation string

const (
	OpCreate  Operation = "create"
	OpUpdate  Operation = "update"
	OpComment Operation = "comment"
)

// Template 通知模板，Content 中的 %s 替换为记录标题
type Template struct {
	Type    string
	Title   string
	Content string
}

// Render 以记录标题渲染通知内容
func (t Template) Render(itemTitle string) (title, content string) {
	return t.Title, fmt.Sprintf(t.Content, itemTitle)
}

// ItemKind 工作项类别配置
// 工作任务与日程的差异全部收敛在这里，WorkItemService 与 NotificationDispatcher 只读配置
type ItemKind struct {
	// Module 对应 work_items.kind 与 notifications.module
	Module string
	// Label 用于错误提示与导出
	Label string

	// AssigneeCanUpdate 受限角色的负责人是否可以更新
	AssigneeCanUpdate bool
	// AutoStatusComment 状态变化时是否自动写入系统回复
	AutoStatusComment bool
	// NotifyOnComment 新回复是否通知负责人
	NotifyOnComment bool

	Templates map[Operation]Template
}

// WorkTaskKind 工作任务
var WorkTaskKind = ItemKind{
	Module:            model.KindWork,
	Label:             "工作任务",
	AssigneeCanUpdate: false,
	AutoStatusComment: false,
	NotifyOnComment:   true,
	Templates: map[Operation]Template{
		OpCreate:  {Type: model.NotificationAssigned, Title: "新的工作任务", Content: "您有新的工作任务：%s"},
		OpUpdate:  {Type: model.NotificationUpdated, Title: "工作任务已更新", Content: "工作任务「%s」已更新"},
		OpComment: {Type: model.NotificationCommented, Title: "工作任务有新回复", Content: "工作任务「%s」有新的回复"},
	},
}

// ScheduleKind 日程
var ScheduleKind = ItemKind{
	Module:            model.KindSchedule,
	Label:             "日程",
	AssigneeCanUpdate: true,
	AutoStatusComment: true,
	NotifyOnComment:   true,
	Templates: map[Operation]Template{
		OpCreate:  {Type: model.NotificationAssigned, Title: "新的日程", Content: "您有新的日程：%s"},
		OpUpdate:  {Type: model.NotificationUpdated, Title: "日程已更新", Content: "日程「%s」已更新"},
		OpComment: {Type: model.NotificationCommented, Title: "日程有新回复", Content: "日程「%s」有新的回复"},
	},
}

// statusChangeComment 状态变更系统回复
func statusChangeComment(oldStatus, newStatus string) string {
	return fmt.Sprintf(`状态已从"%s"更新为"%s"`, oldStatus, newStatus)
}
