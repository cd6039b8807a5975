package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sjoh/foundly-backend/config"
	"github.com/sjoh/foundly-backend/internal/app/controller"
	"github.com/sjoh/foundly-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	reportController       *controller.ReportController
	adminController        *controller.AdminController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	adminMiddleware        *middleware.AdminMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	reportController *controller.ReportController,
	adminController *controller.AdminController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		reportController:       reportController,
		adminController:        adminController,
		notificationController: notificationController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		adminMiddleware:        adminMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "FOUNDLY API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.OptionalAuthenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("", r.reportController.ListReports)
			reports.GET("/counts", r.reportController.GetCounts)
			reports.GET("/mine", r.authMiddleware.Authenticate(), r.reportController.GetMyReports)
			reports.GET("/:id", r.reportController.GetReport)
			reports.POST("", r.authMiddleware.Authenticate(), r.reportController.CreateReport)
			reports.POST("/:id/claim", r.authMiddleware.Authenticate(), r.reportController.ClaimReport)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.GET("/settings", r.notificationController.GetSettings)
			notifications.PUT("/settings", r.notificationController.UpdateSettings)
			notifications.PATCH("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PATCH("/:id/read", r.notificationController.MarkAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", r.adminController.Login)
			admin.POST("/logout", r.adminController.Logout)

			gated := admin.Group("")
			gated.Use(r.adminMiddleware.RequireSession())
			{
				gated.GET("/dashboard", r.adminController.Dashboard)
				gated.GET("/reports", r.adminController.ListReports)
				gated.GET("/reports/counts", r.adminController.Dashboard)
				gated.GET("/reports/export", r.adminController.ExportReports)
				gated.GET("/reports/:id", r.adminController.GetReport)
				gated.POST("/reports/:id/verify", r.adminController.VerifyClaim)
				gated.POST("/reports/:id/resolve", r.adminController.ResolveReport)
				gated.DELETE("/reports/:id", r.adminController.DeleteReport)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Admin-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
