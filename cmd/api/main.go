package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/unify-api/api/swagger"
	"github.com/noah-isme/unify-api/internal/handler"
	"github.com/noah-isme/unify-api/internal/repository"
	"github.com/noah-isme/unify-api/internal/router"
	"github.com/noah-isme/unify-api/internal/service"
	"github.com/noah-isme/unify-api/pkg/cache"
	"github.com/noah-isme/unify-api/pkg/config"
	"github.com/noah-isme/unify-api/pkg/database"
	"github.com/noah-isme/unify-api/pkg/logger"
	"github.com/noah-isme/unify-api/pkg/validation"
)

// @title Unify API
// @version 1.0.0
// @description Campus planner: course catalog, enrollments, weekly planning and social events
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(context.Background(), cfg.Database, logr)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("database migration failed", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(context.Background(), cfg.Redis, logr)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	validate := validation.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	eventRepo := repository.NewEventRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "unify")
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CatalogTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, cacheSvc, validate, logr, service.CourseConfig{
		PageSize:   cfg.Catalog.PageSize,
		FiltersTTL: cfg.Cache.CatalogTTL,
	})
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logr)
	activitySvc := service.NewActivityService(activityRepo, validate, logr)
	planningSvc := service.NewPlanningService(enrollmentRepo, activityRepo, eventRepo, metrics, logr, service.PlanningConfig{
		IncludeEvents: cfg.Planning.IncludeEvents,
		Location:      cfg.Planning.Location,
	})
	eventSvc := service.NewEventService(eventRepo, planningSvc, validate, logr)

	engine := router.Setup(cfg, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Course:   handler.NewCourseHandler(courseSvc, enrollmentSvc),
		Planning: handler.NewPlanningHandler(planningSvc),
		Activity: handler.NewActivityHandler(activitySvc),
		Event:    handler.NewEventHandler(eventSvc),
		Metrics:  handler.NewMetricsHandler(metrics, db),
	}, authSvc, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
