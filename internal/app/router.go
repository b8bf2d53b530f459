package app

import (
	"syncup_backend/docs"
	"syncup_backend/internal/config"
	"syncup_backend/internal/middleware"
	"syncup_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/signup", c.auth.Signup)
		public.POST("/login", c.auth.Login)

		// 搜索对游客开放，登录用户会排除自己
		public.GET("/users/search", middleware.TryAuthMiddleware(cfg, repos.user), c.user.SearchUsers)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/avatar", c.user.UploadAvatar)

		friends := authGroup.Group("/friends")
		{
			friends.GET("", c.friend.GetFriends)
			friends.POST("/requests", c.friend.SendFriendRequest)
			friends.GET("/requests", c.friend.GetPendingRequests)
			friends.PUT("/requests/:id", c.friend.RespondFriendRequest)
			friends.DELETE("/:id", c.friend.RemoveFriend)
			friends.GET("/status/:userId", c.friend.GetFriendshipStatus)
		}
	}
}
