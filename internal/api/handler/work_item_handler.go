package handler

import (
	"github.com/gin-gonic/gin"

	"workdesk/internal/dto"
	"workdesk/internal/service"
	"workdesk/pkg/response"
)

// WorkItemHandler 工作任务 / 日程 HTTP 处理器
// 两个模块各持有一个实例，路由只挂载各自需要的方法
type WorkItemHandler struct {
	svc   service.WorkItemService
	codes errorCodes
}

// NewWorkItemHandler 创建 WorkItemHandler
func NewWorkItemHandler(svc service.WorkItemService, codes errorCodes) *WorkItemHandler {
	return &WorkItemHandler{svc: svc, codes: codes}
}

// Kind 返回处理器对应的记录类别
func (h *WorkItemHandler) Kind() service.ItemKind {
	return h.svc.Kind()
}

// List 列表
// POST /api/v1/{schedule|workTask}/list
func (h *WorkItemHandler) List(c *gin.Context) {
	var req dto.WorkItemListRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID, role, &req)
	if err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.OK(c, list)
}

// Detail 详情（含回复）
// POST /api/v1/{schedule|workTask}/detail
func (h *WorkItemHandler) Detail(c *gin.Context) {
	var req dto.IDRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), userID, role, req.ID)
	if err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.OK(c, detail)
}

// Create 创建
// POST /api/v1/{schedule|workTask}/create
func (h *WorkItemHandler) Create(c *gin.Context) {
	var req dto.WorkItemCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.OK(c, item)
}

// UpdateStatus 日程状态更新
// POST /api/v1/schedule/updateStatus
func (h *WorkItemHandler) UpdateStatus(c *gin.Context) {
	var req dto.ScheduleUpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.update(c, service.UpdateInput{ID: req.ID, Status: &req.Status})
}

// Update 工作任务更新
// POST /api/v1/workTask/update
func (h *WorkItemHandler) Update(c *gin.Context) {
	var req dto.WorkTaskUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	h.update(c, service.UpdateInput{
		ID:              req.ID,
		Status:          req.Status,
		AssignedUserIDs: req.AssignedUserIDs,
	})
}

func (h *WorkItemHandler) update(c *gin.Context, in service.UpdateInput) {
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	item, err := h.svc.Update(c.Request.Context(), userID, role, in)
	if err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.OK(c, item)
}

// Delete 软删除
// POST /api/v1/{schedule|workTask}/delete
func (h *WorkItemHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, role, req.ID); err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.Done(c)
}

// CreateScheduleComment 日程回复
// POST /api/v1/schedule/comment/create
func (h *WorkItemHandler) CreateScheduleComment(c *gin.Context) {
	var req dto.ScheduleCommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	h.createComment(c, req.ScheduleID, req.Content)
}

// CreateTaskComment 工作任务回复
// POST /api/v1/workTask/comment/create
func (h *WorkItemHandler) CreateTaskComment(c *gin.Context) {
	var req dto.TaskCommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	h.createComment(c, req.TaskID, req.Content)
}

func (h *WorkItemHandler) createComment(c *gin.Context, itemID, content string) {
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), userID, role, itemID, content)
	if err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.OK(c, comment)
}

// DeleteComment 删除回复
// POST /api/v1/{schedule|workTask}/comment/delete
func (h *WorkItemHandler) DeleteComment(c *gin.Context) {
	var req dto.IDRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), userID, role, req.ID); err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.Done(c)
}

// Statistics 按状态统计
// POST /api/v1/{schedule|workTask}/statistics
func (h *WorkItemHandler) Statistics(c *gin.Context) {
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	stats, err := h.svc.Statistics(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, h.codes, err)
		return
	}
	response.OK(c, stats)
}
