package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"workdesk/internal/dto"
	"workdesk/internal/service"
	"workdesk/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Export 导出指定类别的记录
// POST /api/v1/{schedule|workTask}/export
func (h *ExportHandler) Export(kind service.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.WorkItemExportRequest
		if !bindOptionalJSON(c, &req) {
			return
		}
		userID, role, ok := mustGetCaller(c)
		if !ok {
			return
		}

		buf, filename, err := h.exportSvc.Export(c.Request.Context(), kind, userID, role, &req)
		if err != nil {
			if !errors.Is(err, service.ErrExportGenerateFail) {
				_ = c.Error(err)
			}
			response.InternalError(c)
			return
		}

		// 设置下载响应头
		encodedFilename := url.QueryEscape(filename)
		c.Header("Content-Description", "File Transfer")
		c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
