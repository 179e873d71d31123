package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workdesk/config"
	"workdesk/internal/api/handler"
	"workdesk/internal/api/middleware"
	"workdesk/pkg/jwt"
	"workdesk/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时 Token 黑名单与登录限流均降级关闭
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.SetupValidator(); err != nil {
		return nil, err
	}

	// 避免 nil *redis.Client 装入非 nil 接口
	var (
		blacklist middleware.TokenChecker
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist, limiter = rdb, rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/me", h.Auth.Me)

			// 日程模块
			schedule := authorized.Group("/schedule")
			{
				registerItemRoutes(schedule, h.Schedule, h.Export)
				schedule.POST("/updateStatus", h.Schedule.UpdateStatus)
				schedule.POST("/comment/create", h.Schedule.CreateScheduleComment)
			}

			// 工作任务模块
			workTask := authorized.Group("/workTask")
			{
				registerItemRoutes(workTask, h.WorkTask, h.Export)
				workTask.POST("/update", h.WorkTask.Update)
				workTask.POST("/comment/create", h.WorkTask.CreateTaskComment)
			}

			// 通知模块
			notification := authorized.Group("/notification")
			{
				notification.POST("/list", h.Notification.List)
				notification.POST("/unreadCount", h.Notification.UnreadCount)
				notification.POST("/markRead", h.Notification.MarkRead)
				notification.POST("/markAllRead", h.Notification.MarkAllRead)
				notification.POST("/delete", h.Notification.Delete)
			}
		}
	}

	return r, nil
}

// registerItemRoutes 日程与工作任务共有的路由
func registerItemRoutes(g *gin.RouterGroup, h *handler.WorkItemHandler, export *handler.ExportHandler) {
	g.POST("/list", h.List)
	g.POST("/detail", h.Detail)
	g.POST("/create", h.Create)
	g.POST("/delete", h.Delete)
	g.POST("/comment/delete", h.DeleteComment)
	g.POST("/statistics", h.Statistics)
	g.POST("/export", export.Export(h.Kind()))
}
