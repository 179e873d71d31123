package handler

import (
	"github.com/gin-gonic/gin"

	"workdesk/internal/dto"
	"workdesk/internal/service"
	"workdesk/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List 当前用户的通知列表
// POST /api/v1/notification/list
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.notificationSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, notificationCodes, err)
		return
	}
	response.OK(c, list)
}

// UnreadCount 未读数
// POST /api/v1/notification/unreadCount
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, notificationCodes, err)
		return
	}
	response.OK(c, count)
}

// MarkRead 标记已读
// POST /api/v1/notification/markRead
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), userID, &req); err != nil {
		respondError(c, notificationCodes, err)
		return
	}
	response.Done(c)
}

// MarkAllRead 全部标记已读
// POST /api/v1/notification/markAllRead
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondError(c, notificationCodes, err)
		return
	}
	response.Done(c)
}

// Delete 删除通知
// POST /api/v1/notification/delete
func (h *NotificationHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.Delete(c.Request.Context(), userID, req.ID); err != nil {
		respondError(c, notificationCodes, err)
		return
	}
	response.Done(c)
}
