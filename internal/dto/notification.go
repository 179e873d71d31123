package dto

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询
type NotificationListRequest struct {
	PaginationRequest
	IsRead *int `json:"isRead" binding:"omitempty,oneof=0 1"`
}

// MarkReadRequest 标记已读，id 与 ids 至少传一个
type MarkReadRequest struct {
	ID  string   `json:"id"  binding:"omitempty,uuid"`
	IDs []string `json:"ids" binding:"omitempty,dive,uuid"`
}

// AllIDs 合并 id 与 ids
func (r *MarkReadRequest) AllIDs() []string {
	ids := make([]string, 0, len(r.IDs)+1)
	if r.ID != "" {
		ids = append(ids, r.ID)
	}
	return append(ids, r.IDs...)
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        string  `json:"id"`
	Module    string  `json:"module"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	RelatedID *string `json:"relatedId"`
	IsRead    int     `json:"isRead"`
	CreatedAt string  `json:"createdAt"`
}

// UnreadCountResponse 未读数
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
