package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/subahan-billing/subahan-billing/internal/app"
	"github.com/subahan-billing/subahan-billing/internal/auth"
	"github.com/subahan-billing/subahan-billing/internal/billing"
	"github.com/subahan-billing/subahan-billing/internal/catalog"
	"github.com/subahan-billing/subahan-billing/internal/invoice"
	"github.com/subahan-billing/subahan-billing/internal/platform/cache"
	"github.com/subahan-billing/subahan-billing/internal/platform/db"
	"github.com/subahan-billing/subahan-billing/jobs"
)

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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	paginator, err := invoice.NewPaginator(cfg.InvoiceLayout())
	if err != nil {
		logger.Error("invoice layout", slog.Any("error", err))
		os.Exit(1)
	}

	authService := auth.NewService(redisClient, cfg.AuthUsername, cfg.AuthPasswordHash, cfg.SessionTTL)
	authHandler := auth.NewHandler(logger, authService)

	catalogRepo := catalog.NewRepository(pool)
	catalogCache := catalog.NewCache(redisClient, cfg.CacheTTL)
	catalogService := catalog.NewService(catalogRepo, catalogCache, logger)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo, catalogRepo)
	billingHandler := billing.NewHandler(logger, billingService)

	invoiceHandler := invoice.NewHandler(logger, billingService, paginator)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthService:    authService,
		AuthHandler:    authHandler,
		CatalogHandler: catalogHandler,
		BillingHandler: billingHandler,
		InvoiceHandler: invoiceHandler,
		JobsHandler:    jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
