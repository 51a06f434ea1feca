package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rudrakalshethra/academy-api/api/swagger"
	"github.com/rudrakalshethra/academy-api/internal/handler"
	"github.com/rudrakalshethra/academy-api/internal/middleware"
	"github.com/rudrakalshethra/academy-api/internal/models"
	"github.com/rudrakalshethra/academy-api/internal/repository"
	"github.com/rudrakalshethra/academy-api/internal/service"
	"github.com/rudrakalshethra/academy-api/pkg/cache"
	"github.com/rudrakalshethra/academy-api/pkg/config"
	"github.com/rudrakalshethra/academy-api/pkg/database"
	"github.com/rudrakalshethra/academy-api/pkg/logger"
	corsmiddleware "github.com/rudrakalshethra/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/rudrakalshethra/academy-api/pkg/middleware/requestid"
	"github.com/rudrakalshethra/academy-api/pkg/storage"
)

// @title Rudrakalshethra Academy API
// @version 1.0.0
// @description Dance academy backend: fee ledgers, attendance, payments and catalogs
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
		redisClient = nil
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads directory", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	studentService := service.NewStudentService(ledgerRepo, userRepo, attendanceRepo, paymentRepo, validate, logr)
	attendanceService := service.NewAttendanceService(ledgerRepo, attendanceRepo, cacheService, validate, logr)
	paymentService := service.NewPaymentService(ledgerRepo, paymentRepo, cacheService, validate, logr)
	dashboardService := service.NewDashboardService(ledgerRepo, paymentRepo, cacheService, logr)
	catalogService := service.NewCatalogService(catalogRepo, validate, logr)

	if cfg.Seed.Enabled {
		seedService := service.NewSeedService(userRepo, catalogRepo, logr)
		if err := seedService.Run(context.Background(), cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			logr.Sugar().Fatalw("failed to seed default data", "error", err)
		}
	}

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	uploadHandler := handler.NewUploadHandler(uploadStore, cfg.Uploads)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		if err := db.PingContext(c.Request.Context()); err != nil {
			dbStatus = "unavailable"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": dbStatus})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))
	r.Static("/uploads", uploadStore.BaseDir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	auth.GET("/profile", middleware.JWT(authService), authHandler.Profile)

	// Catalog reads are public; the rest of the API requires a token.
	api.GET("/mudras", catalogHandler.ListMudras)
	api.GET("/mudras/category/:category", catalogHandler.ListMudrasByCategory)
	api.GET("/mudras/:id", catalogHandler.GetMudra)
	api.GET("/theory", catalogHandler.ListTheory)
	api.GET("/theory/:id", catalogHandler.GetTheory)

	secured := api.Group("")
	secured.Use(middleware.JWT(authService), middleware.WithResponseMeta())

	staff := secured.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleManager))
	staff.GET("/dashboard/stats", dashboardHandler.Stats)
	staff.POST("/students", studentHandler.Create)
	staff.GET("/students", studentHandler.List)
	staff.POST("/attendance", attendanceHandler.Mark)
	staff.GET("/attendance", attendanceHandler.List)
	staff.POST("/payments", paymentHandler.Record)
	staff.GET("/payments", paymentHandler.List)
	staff.GET("/payments/export", paymentHandler.Export)

	secured.GET("/students/me", middleware.RequireRoles(models.RoleStudent), studentHandler.Self)
	secured.GET("/students/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), studentHandler.Get)

	staff.POST("/mudras", catalogHandler.CreateMudra)
	staff.PUT("/mudras/:id", catalogHandler.UpdateMudra)
	staff.DELETE("/mudras/:id", catalogHandler.DeleteMudra)
	staff.POST("/theory", catalogHandler.CreateTheory)
	staff.POST("/uploads", uploadHandler.Upload)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
