package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
//
// page 默认 1；pageSize 缺省时取配置的默认值（10）。
// 显式传入 pageSize = 0 或 all = true 表示返回全部记录、不分页。
type PaginationRequest struct {
	Page     int  `json:"page"     binding:"omitempty,min=1"`
	PageSize *int `json:"pageSize" binding:"omitempty,min=0"`
	All      bool `json:"all"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// OffsetLimit 计算偏移量与条数，limit 为 0 表示不分页
// maxSize > 0 时限制单页上限
func (p *PaginationRequest) OffsetLimit(defaultSize, maxSize int) (offset, limit int) {
	if p.All || (p.PageSize != nil && *p.PageSize == 0) {
		return 0, 0
	}

	size := defaultSize
	if p.PageSize != nil {
		size = *p.PageSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return (p.GetPage() - 1) * size, size
}

// IDRequest 仅包含记录 ID 的请求体
type IDRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}
