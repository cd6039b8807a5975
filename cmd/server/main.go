package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sjoh/foundly-backend/config"
	"github.com/sjoh/foundly-backend/internal/app/controller"
	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/internal/app/service"
	"github.com/sjoh/foundly-backend/internal/db"
	"github.com/sjoh/foundly-backend/internal/middleware"
	"github.com/sjoh/foundly-backend/internal/router"
	"github.com/sjoh/foundly-backend/internal/scheduler"
	"github.com/sjoh/foundly-backend/internal/storage"
	"github.com/sjoh/foundly-backend/pkg/logger"
	appRedis "github.com/sjoh/foundly-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting FOUNDLY Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis (token blacklist, admin sessions, stats cache)
	if err := appRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize redis", err)
	}
	defer func() {
		if err := appRedis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	reportRepo := repository.NewReportRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	notificationService := service.NewNotificationService(notificationRepo)
	reportService := service.NewReportService(reportRepo, notificationService)
	adminService := service.NewAdminService(cfg.Admin, service.NewRedisSessionStore())
	exportService := service.NewExportService(reportRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT, service.NewRedisTokenBlacklist())
	reportController := controller.NewReportController(reportService, authService)
	adminController := controller.NewAdminController(adminService, reportService, exportService)
	notificationController := controller.NewNotificationController(notificationService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	adminMiddleware := middleware.NewAdminMiddleware(adminService)

	// Start the daily stats snapshot scheduler
	statsScheduler := scheduler.NewReportStatsScheduler(reportService)
	if err := statsScheduler.Start(); err != nil {
		logger.Warn("Failed to start report stats scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer statsScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		reportController,
		adminController,
		notificationController,
		uploadController,
		authMiddleware,
		adminMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
