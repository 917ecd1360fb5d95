package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/learnlingo/learnlingo/internal/analytics"
	analytichttp "github.com/learnlingo/learnlingo/internal/analytics/http"
	"github.com/learnlingo/learnlingo/internal/app"
	"github.com/learnlingo/learnlingo/internal/auth"
	"github.com/learnlingo/learnlingo/internal/observability"
	"github.com/learnlingo/learnlingo/internal/platform/cache"
	"github.com/learnlingo/learnlingo/internal/platform/db"
	"github.com/learnlingo/learnlingo/internal/platform/otel"
	"github.com/learnlingo/learnlingo/internal/rbac"
	"github.com/learnlingo/learnlingo/internal/shared"
	"github.com/learnlingo/learnlingo/internal/users"
	"github.com/learnlingo/learnlingo/internal/view"
)

const serviceName = "learnlingo-admin"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	shutdownTracing, err := otel.Setup(ctx, otel.Config{
		Enabled:     cfg.OTELEnabled,
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: serviceName,
	})
	if err != nil {
		logger.Warn("tracing disabled", slog.Any("error", err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces", slog.Any("error", err))
		}
	}()

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database migrated")
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "learnlingo_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine(cfg.Location())
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	verifier := auth.NewTokenVerifier(cfg.AuthJWTSecret, cfg.AuthJWTAudience)
	authService := auth.NewService(auth.NewRepository(dbpool), verifier)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	rbacMiddleware := rbac.Middleware{Resolver: authService, Logger: logger, LoginURL: cfg.LoginURL}

	usersService := users.NewService(users.NewRepository(dbpool), users.ServiceOptions{
		MaxRecords: cfg.DirectoryMaxRecords,
		Metrics:    metrics,
	})
	usersHandler := users.NewHandler(logger, usersService, templates, csrfManager, rbacMiddleware)

	analyticsService := analytics.NewService(usersService, analytics.ServiceOptions{
		Location: cfg.Location(),
		Checks: []analytics.HealthCheck{
			{Name: "Database", Check: dbpool.Ping},
			{Name: "Session store", Check: sessionManager.Ping},
		},
	})
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService, templates, csrfManager)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		UsersHandler:     usersHandler,
		AnalyticsHandler: analyticsHandler,
		RBACMiddleware:   rbacMiddleware,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
