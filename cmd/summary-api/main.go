package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/openlms/enrollment-summary-api/api/swagger"
	"github.com/openlms/enrollment-summary-api/internal/handler"
	"github.com/openlms/enrollment-summary-api/internal/middleware"
	"github.com/openlms/enrollment-summary-api/internal/repository"
	"github.com/openlms/enrollment-summary-api/internal/service"
	"github.com/openlms/enrollment-summary-api/pkg/cache"
	"github.com/openlms/enrollment-summary-api/pkg/config"
	"github.com/openlms/enrollment-summary-api/pkg/database"
	"github.com/openlms/enrollment-summary-api/pkg/logger"
	corsmiddleware "github.com/openlms/enrollment-summary-api/pkg/middleware/cors"
	reqidmiddleware "github.com/openlms/enrollment-summary-api/pkg/middleware/requestid"
)

// @title LMS Enrollment Summary API
// @version 1.0.0
// @description Read-only enrollment reporting for staff tooling
// @BasePath /api/enrollments
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The summary pipeline degrades to recomputation without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, logr, cfg.Summary.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	overviewRepo := repository.NewCourseOverviewRepository(db)
	contentRepo := repository.NewCourseContentRepository(db)

	authSvc := service.NewAuthService(service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, logr)

	filterSvc := service.NewFilterService(userRepo, validator.New(), cfg.Summary.DefaultPageSize, cfg.Summary.MaxPageSize, logr)

	summarySvc := service.NewSummaryService(service.SummaryServiceParams{
		Enrollments: enrollmentRepo,
		Overviews:   overviewRepo,
		Content:     contentRepo,
		Users:       userRepo,
		Cache:       cacheSvc,
		Logger:      logr,
		Config: service.SummaryServiceConfig{
			CacheTTL:       cfg.Summary.CacheTTL,
			GradedCountTTL: cfg.Summary.GradedCountTTL,
		},
	})

	summaryHandler := handler.NewSummaryHandler(filterSvc, summarySvc, cfg.Summary.CacheControlMaxAge)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "postgres unavailable"})
			return
		}
		// Redis is optional: the summary pipeline recomputes on a cold cache.
		cacheStatus := "ok"
		if err := cacheRepo.Ping(ctx); err != nil {
			cacheStatus = "unavailable"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": cacheStatus})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	api.GET("/summary", summaryHandler.List)
	api.GET("/summary/users/:id/stats", summaryHandler.UserStats)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
