package dto

// ── 工作任务 / 日程 DTO ──
// 两类记录共用同一组请求与响应结构

// WorkItemListRequest 列表查询
type WorkItemListRequest struct {
	PaginationRequest
	Status  string `json:"status"  binding:"omitempty,item_status"`
	Keyword string `json:"keyword" binding:"omitempty,max=100"`
}

// WorkItemCreateRequest 创建请求
// assignedUserIds 必须出现，可以为空数组
type WorkItemCreateRequest struct {
	Title           string   `json:"title"           binding:"required,notblank,max=200"`
	Description     string   `json:"description"     binding:"required,notblank"`
	AssignedUserIDs []string `json:"assignedUserIds" binding:"required,dive,uuid"`
	CompanyID       *string  `json:"companyId"       binding:"omitempty,max=64"`
}

// ScheduleUpdateStatusRequest 日程状态更新
type ScheduleUpdateStatusRequest struct {
	ID     string `json:"id"     binding:"required,uuid"`
	Status string `json:"status" binding:"required,item_status"`
}

// WorkTaskUpdateRequest 工作任务更新，字段均可选
// assignedUserIds 传空数组表示清空负责人，不传表示不修改
type WorkTaskUpdateRequest struct {
	ID              string   `json:"id"              binding:"required,uuid"`
	Status          *string  `json:"status"          binding:"omitempty,item_status"`
	AssignedUserIDs []string `json:"assignedUserIds" binding:"omitempty,dive,uuid"`
}

// ScheduleCommentCreateRequest 日程回复
type ScheduleCommentCreateRequest struct {
	ScheduleID string `json:"scheduleId" binding:"required,uuid"`
	Content    string `json:"content"    binding:"required,notblank,max=2000"`
}

// TaskCommentCreateRequest 工作任务回复
type TaskCommentCreateRequest struct {
	TaskID  string `json:"taskId"  binding:"required,uuid"`
	Content string `json:"content" binding:"required,notblank,max=2000"`
}

// WorkItemExportRequest 导出筛选条件
type WorkItemExportRequest struct {
	Status  string `json:"status"  binding:"omitempty,item_status"`
	Keyword string `json:"keyword" binding:"omitempty,max=100"`
}

// ── 响应 ──

// UserBrief 用户简要信息
type UserBrief struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	Department *string `json:"department,omitempty"`
	Role       string  `json:"role,omitempty"`
}

// WorkItemResponse 工作项响应
type WorkItemResponse struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Status          string      `json:"status"`
	CreatorID       string      `json:"creatorId"`
	CompanyID       *string     `json:"companyId"`
	AssignedUserIDs []string    `json:"assignedUserIds"`
	AssignedUsers   []UserBrief `json:"assignedUsers,omitempty"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

// WorkItemDetailResponse 详情响应（含回复）
type WorkItemDetailResponse struct {
	WorkItemResponse
	Comments []CommentResponse `json:"comments"`
}

// CommentResponse 回复响应
type CommentResponse struct {
	ID        string     `json:"id"`
	ItemID    string     `json:"itemId"`
	UserID    string     `json:"userId"`
	Content   string     `json:"content"`
	IsSystem  bool       `json:"isSystem"`
	User      *UserBrief `json:"user,omitempty"`
	CreatedAt string     `json:"createdAt"`
}

// StatisticsResponse 状态统计
type StatisticsResponse struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	AtRisk     int64 `json:"atRisk"`
}
