package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clover-eric/fenzu-hw/config"
	"github.com/clover-eric/fenzu-hw/internal/api/handler"
	"github.com/clover-eric/fenzu-hw/internal/api/middleware"
	"github.com/clover-eric/fenzu-hw/pkg/jwt"
	"github.com/clover-eric/fenzu-hw/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxSizeBytes))

	// ── 静态资源：富文本上传的图片 ──
	r.Static("/uploads", cfg.Upload.Dir)

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公开路由（学生查看作业与分组无需登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}
		v1.GET("/tasks/latest", h.Task.GetLatestTask)
		v1.GET("/groups", h.Group.ListGroups)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 完成状态：学生可更新本人（Handler 层鉴权）
			authorized.POST("/members/status", h.Member.SetStatus)

			// 仅管理员
			admin := authorized.Group("")
			admin.Use(middleware.AdminOnly())
			{
				tasks := admin.Group("/tasks")
				{
					tasks.GET("", h.Task.ListTasks)
					tasks.POST("", h.Task.CreateTask)
					tasks.PUT("/:id", h.Task.UpdateTask)
					tasks.DELETE("/:id", h.Task.DeleteTask)
				}

				groups := admin.Group("/groups")
				{
					groups.POST("", h.Group.CreateGroup)
					groups.PUT("/:id", h.Group.RenameGroup)
					groups.DELETE("/:id", h.Group.DeleteGroup)
					groups.POST("/reset", h.Group.ResetGroups)
				}

				members := admin.Group("/members")
				{
					members.POST("", h.Member.AddMember)
					members.POST("/move", h.Member.MoveMember)
					members.DELETE("/:id", h.Member.DeleteMember)
					members.POST("/import", h.Member.ImportMembers)
					members.POST("/import/excel", h.Member.ImportMembersExcel)
					members.POST("/auto-group", h.Member.AutoGroup)
				}

				admin.POST("/upload/image", h.Upload.UploadImage)
			}
		}
	}

	return r
}
