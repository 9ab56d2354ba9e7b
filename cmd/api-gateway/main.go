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

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Kabre57/ParabellumGroups-sub000/api/swagger"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/handler"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/middleware"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/repository"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/service"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/config"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/database"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/export"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/logger"
	corsmiddleware "github.com/Kabre57/ParabellumGroups-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Kabre57/ParabellumGroups-sub000/pkg/middleware/requestid"
)

// @title Parabellum Unified Calendar API
// @version 1.0.0
// @description Merged, role-filtered timeline of calendar events, time-offs and field interventions
// @BasePath /api/v1
// @schemes http https
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	calendarRepo := repository.NewCalendarRepository(db, metricsSvc)
	timeOffRepo := repository.NewTimeOffRepository(db, metricsSvc)
	interventionRepo := repository.NewInterventionRepository(db, metricsSvc)

	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
	})
	calendarSvc := service.NewUnifiedCalendarService(service.UnifiedCalendarServiceParams{
		Events:        calendarRepo,
		TimeOffs:      timeOffRepo,
		Interventions: interventionRepo,
		Metrics:       metricsSvc,
		Logger:        logr,
		Config: service.UnifiedCalendarServiceConfig{
			Location:      cfg.Calendar.Location,
			FetchTimeout:  cfg.Calendar.FetchTimeout,
			MaxWindowDays: cfg.Calendar.MaxWindowDays,
		},
	})

	calendarHandler := handler.NewUnifiedCalendarHandler(calendarSvc, export.NewICSExporter(""), logr, cfg.Calendar.ICSDomain)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	calendar := api.Group("/calendar")
	calendar.Use(
		middleware.JWT(authSvc),
		middleware.RequireRoles(models.KnownRoles()...),
		middleware.OverrideGuard(cfg.Calendar.OverrideRoles),
		middleware.OverrideAudit(logr, "calendar"),
	)
	calendar.GET("/unified", calendarHandler.List)
	if cfg.Calendar.ICSEnabled {
		calendar.GET("/unified.ics", calendarHandler.ICS)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
