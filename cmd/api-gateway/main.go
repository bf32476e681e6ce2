package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/gradehub/gradebook-api/api/swagger"
	"github.com/gradehub/gradebook-api/internal/handler"
	"github.com/gradehub/gradebook-api/internal/middleware"
	"github.com/gradehub/gradebook-api/internal/models"
	"github.com/gradehub/gradebook-api/internal/repository"
	"github.com/gradehub/gradebook-api/internal/service"
	"github.com/gradehub/gradebook-api/pkg/cache"
	"github.com/gradehub/gradebook-api/pkg/config"
	"github.com/gradehub/gradebook-api/pkg/database"
	"github.com/gradehub/gradebook-api/pkg/logger"
	corsmiddleware "github.com/gradehub/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gradehub/gradebook-api/pkg/middleware/requestid"
)

// @title Gradebook API
// @version 1.0.0
// @description Student records dashboard backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsService := service.NewMetricsService()

	// Redis is optional: without it the dashboard recomputes analytics on
	// every request instead of failing.
	var cacheService *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, analytics caching disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Analytics.CacheTTL, logr, cfg.Analytics.Enabled)
	}

	validate := service.NewValidator()

	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	studentService := service.NewStudentService(studentRepo, cacheService, validate, logr, cfg.Grading.MaxTotal)
	analyticsService := service.NewAnalyticsService(analyticsRepo, cacheService, logr)
	exportService := service.NewExportService(studentService, nil, nil, logr)
	seedService := service.NewSeedService(studentService, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "gradebook-api",
	})

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	exportHandler := handler.NewExportHandler(exportService)
	seedHandler := handler.NewSeedHandler(seedService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	students := api.Group("/students", middleware.JWT(authService))
	{
		students.GET("", middleware.RequireRoles(models.RoleTeacher), studentHandler.List)
		students.POST("", middleware.RequireRoles(models.RoleTeacher), studentHandler.Create)
		students.GET("/me", middleware.RequireRoles(models.RoleStudent), studentHandler.Me)
		students.GET("/:id", middleware.RequireRoles(models.RoleTeacher, models.RoleStudent), studentHandler.Get)
		students.PUT("/:id", middleware.RequireRoles(models.RoleTeacher), studentHandler.UpdateProfile)
		students.PUT("/:id/marks", middleware.RequireRoles(models.RoleTeacher), studentHandler.UpdateMarks)
		students.DELETE("/:id", middleware.RequireRoles(models.RoleTeacher), studentHandler.Delete)
	}

	analytics := api.Group("/analytics", middleware.JWT(authService), middleware.RequireRoles(models.RoleTeacher))
	{
		analytics.GET("/summary", analyticsHandler.Summary)
	}

	export := api.Group("/export", middleware.JWT(authService), middleware.RequireRoles(models.RoleTeacher))
	{
		export.GET("/students", exportHandler.Students)
	}

	if cfg.Seed.Enabled {
		admin := api.Group("/admin", middleware.JWT(authService), middleware.RequireRoles(models.RoleTeacher))
		admin.POST("/seed", seedHandler.Seed)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
