package app

import (
	"skillcheck_backend/docs"
	"skillcheck_backend/internal/config"
	"skillcheck_backend/internal/middleware"
	"skillcheck_backend/internal/model"
	"skillcheck_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 公共路由（无需登录）
	router.POST("/api/register", c.auth.Register)
	router.POST("/api/login", c.auth.Login)

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)

		// 个人档案
		authGroup.GET("/users/profile", c.user.GetProfile)
		authGroup.PUT("/users/profile", c.user.UpdateProfile)
		authGroup.POST("/users/avatar", c.user.UploadAvatar)
		authGroup.GET("/users/history", c.user.TestHistory)
		authGroup.GET("/users/progress/:technologyId", c.user.TechnologyProgress)

		// 技术方向
		authGroup.GET("/technologies", c.technology.List)
		authGroup.GET("/technologies/:id", c.technology.Get)

		// 测试查询与作答（协作者侧）
		authGroup.GET("/tests", c.test.ListTests)
		authGroup.GET("/tests/calendar", c.test.Calendar)
		authGroup.GET("/tests/:id", c.test.GetTest)
		authGroup.POST("/tests/:id/answers", c.submission.RecordAnswer)
		authGroup.GET("/tests/:id/submission", c.submission.GetSubmission)
		authGroup.GET("/submissions", c.submission.ListMySubmissions)

		// 进步榜
		authGroup.GET("/performers/leaderboard", c.performer.Leaderboard)

		// 管理端接口
		managerGroup := authGroup.Group("/manager")
		managerGroup.Use(middleware.RoleMiddleware(model.Manager))
		{
			managerGroup.POST("/tests", c.test.CreateTest)
			managerGroup.PUT("/tests/:id", c.test.UpdateTest)
			managerGroup.POST("/tests/:id/cancel", c.test.CancelTest)
			managerGroup.GET("/tests/:id/participations", c.test.ListParticipations)
			managerGroup.POST("/technologies", c.technology.Create)
		}

		// 运维接口（后台任务的手动入口）
		adminGroup := authGroup.Group("/admin")
		adminGroup.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminGroup.POST("/sweeps/lifecycle", c.performer.SweepLifecycle)
			adminGroup.POST("/sweeps/submissions", c.performer.SweepStaleSubmissions)
			adminGroup.POST("/sweeps/performers/expire", c.performer.ExpirePerformers)
			adminGroup.POST("/sweeps/performers/recompute", c.performer.RecomputeLeaderboard)
		}
	}
}
