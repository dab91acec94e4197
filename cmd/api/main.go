package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/score-tracker-api/api/swagger"
	"github.com/noah-isme/score-tracker-api/internal/handler"
	"github.com/noah-isme/score-tracker-api/internal/middleware"
	"github.com/noah-isme/score-tracker-api/internal/repository"
	"github.com/noah-isme/score-tracker-api/internal/service"
	"github.com/noah-isme/score-tracker-api/pkg/cache"
	"github.com/noah-isme/score-tracker-api/pkg/config"
	"github.com/noah-isme/score-tracker-api/pkg/database"
	"github.com/noah-isme/score-tracker-api/pkg/logger"
	reqidmiddleware "github.com/noah-isme/score-tracker-api/pkg/middleware/requestid"
	"github.com/noah-isme/score-tracker-api/pkg/tracing"
)

// @title Score Tracker API
// @version 1.0.0
// @description Records test scores per subject and lesson slot and serves normalized metrics and weak-topic analysis.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Env, logr)
	if err != nil {
		logr.Warn("tracing disabled", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, curriculum cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, "score-tracker:", logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Curriculum.CacheTTL, logr, redisClient != nil)

	validate := service.NewScoreValidator()
	resultSvc := service.NewResultService(repository.NewTestResultRepository(db), metrics, validate, logr)
	curriculumSvc := service.NewCurriculumService(repository.NewUnitRepository(db), cacheSvc, metrics, cfg.Curriculum, logr)
	analysisSvc := service.NewAnalysisService(resultSvc, curriculumSvc, cfg.Weakness, logr)
	exportSvc := service.NewExportService(resultSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Results:    handler.NewResultHandler(resultSvc, exportSvc),
		Curriculum: handler.NewCurriculumHandler(curriculumSvc),
		Analysis:   handler.NewAnalysisHandler(analysisSvc),
		Meta:       handler.NewMetaHandler(analysisSvc),
		Ops: handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
			"database": db,
			"cache":    handler.PingFunc(cacheRepo.Ping),
		}),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Warn("tracer shutdown failed", zap.Error(err))
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", reqidmiddleware.HeaderKey},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", reqidmiddleware.HeaderKey},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
