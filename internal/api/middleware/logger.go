package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applogger "workdesk/pkg/logger"
)

// Logger 请求日志中间件（基于 Zap 结构化日志）
// 需挂在 RequestID 之后：请求级 logger 携带 request_id 写入 Request.Context，Service 层通过 logger.From 取用
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		rid := c.GetString(requestIDKey)

		ctx := applogger.WithRequestID(c.Request.Context(), logger, rid)
		c.Request = c.Request.WithContext(ctx)
		lg := applogger.From(ctx, logger)

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		if statusCode >= 500 {
			lg.Error("请求处理失败", fields...)
		} else if statusCode >= 400 {
			lg.Warn("客户端错误", fields...)
		} else {
			lg.Info("请求完成", fields...)
		}
	}
}
