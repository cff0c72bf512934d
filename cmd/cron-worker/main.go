package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/phonedex-backend/internal/analytics"
	"github.com/angelmondragon/phonedex-backend/internal/brands"
	"github.com/angelmondragon/phonedex-backend/internal/cron"
	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/instance"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
	"github.com/angelmondragon/phonedex-backend/pkg/migrate"
	"github.com/angelmondragon/phonedex-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry, err := buildRegistry(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	lock, err := cron.NewRedisLock(redisClient, cfg.Cron.Interval)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   registry,
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(promRegistry),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID("cron-0"),
		"jobs":        registry.Names(),
	})

	metricsServer := &http.Server{
		Addr:              cfg.Cron.MetricsAddr,
		Handler:           promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if cfg.Cron.MetricsAddr != "" {
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "cron metrics server stopped", err)
			}
		}()
	}

	logg.Info(ctx, "starting cron worker")

	runErr := service.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownGrace)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "error stopping cron metrics server", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", runErr)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildRegistry(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*cron.Registry, error) {
	analyticsRepo := analytics.NewRepository(dbClient.DB())

	viewFlush, err := cron.NewViewFlushJob(cron.ViewFlushJobParams{
		Logger: logg,
		DB:     dbClient,
		Buffer: redisClient,
		Store:  analyticsRepo,
	})
	if err != nil {
		return nil, err
	}
	searchRetention, err := cron.NewSearchLogRetentionJob(logg, dbClient, analyticsRepo.DeleteSearchLogsOlderThan, cfg.Cron.SearchLogRetentionDays)
	if err != nil {
		return nil, err
	}
	pageViewRetention, err := cron.NewPageViewRetentionJob(logg, dbClient, analyticsRepo.DeletePageViewsOlderThan, cfg.Cron.PageViewRetentionDays)
	if err != nil {
		return nil, err
	}
	brandCounts, err := cron.NewBrandPhoneCountJob(logg, brands.NewRepository(dbClient.DB()))
	if err != nil {
		return nil, err
	}

	return cron.NewRegistry(viewFlush, searchRetention, pageViewRetention, brandCounts)
}
