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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/phonedex-backend/api/controllers"
	"github.com/angelmondragon/phonedex-backend/api/routes"
	"github.com/angelmondragon/phonedex-backend/internal/analytics"
	"github.com/angelmondragon/phonedex-backend/internal/brands"
	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/internal/comments"
	"github.com/angelmondragon/phonedex-backend/internal/compare"
	"github.com/angelmondragon/phonedex-backend/internal/phones"
	"github.com/angelmondragon/phonedex-backend/internal/reviews"
	"github.com/angelmondragon/phonedex-backend/internal/search"
	"github.com/angelmondragon/phonedex-backend/internal/users"
	"github.com/angelmondragon/phonedex-backend/internal/wishlist"
	"github.com/angelmondragon/phonedex-backend/pkg/background"
	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/instance"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
	"github.com/angelmondragon/phonedex-backend/pkg/migrate"
	"github.com/angelmondragon/phonedex-backend/pkg/pubsub"
	"github.com/angelmondragon/phonedex-backend/pkg/redis"
	"github.com/angelmondragon/phonedex-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	dispatcher, err := background.New(background.Options{
		Workers:     cfg.Background.Workers,
		QueueSize:   cfg.Background.QueueSize,
		TaskTimeout: cfg.Background.TaskTimeout,
		Logger:      logg,
		Metrics:     metrics.NewBackgroundMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to start background dispatcher", err)
		os.Exit(1)
	}

	ready := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	analyticsParams := analytics.ServiceParams{
		Repository:      analytics.NewRepository(dbClient.DB()),
		Dispatcher:      dispatcher,
		Views:           redisClient,
		Cache:           redisClient,
		Logger:          logg,
		PopularWindow:   time.Duration(cfg.Search.PopularWindowDays) * 24 * time.Hour,
		PopularCacheTTL: cfg.Search.PopularCacheTTL,
	}

	var (
		psClient *pubsub.Client
		events   *pubsub.EventPublisher
	)
	if cfg.AnalyticsEnabled() {
		psClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		events, err = pubsub.NewEventPublisher(psClient.AnalyticsPublisher())
		if err != nil {
			logg.Error(context.Background(), "failed to create analytics publisher", err)
			os.Exit(1)
		}
		analyticsParams.Events = events
		ready["pubsub"] = psClient
	}

	analyticsService, err := analytics.NewService(analyticsParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	svc, err := buildServices(cfg, dbClient, analyticsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID("local"),
	})

	handler := routes.NewRouter(cfg, logg, svc, routes.Infra{
		Ready:       ready,
		RateLimiter: redisClient,
		Gatherer:    registry,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
	})
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.App.RequestTimeout,
		WriteTimeout:      cfg.App.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownGrace)
	defer cancel()

	shutdownErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		dispatcher.Shutdown(shutdownCtx),
	)
	// queued analytics tasks are drained before the publisher flushes
	events.Stop()
	err = multierr.Combine(
		shutdownErr,
		psClient.Close(),
		redisClient.Close(),
		dbClient.Close(),
	)
	if err != nil {
		logg.Error(ctx, "error during shutdown", err)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}

func buildServices(cfg *config.Config, dbClient *db.Client, recorder *analytics.Service) (routes.Services, error) {
	conn := dbClient.DB()
	brandRepo := brands.NewRepository(conn)
	reviewRepo := reviews.NewRepository(conn)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repository: catalog.NewRepository(conn),
		Views:      recorder,
	})
	if err != nil {
		return routes.Services{}, err
	}
	compareService, err := compare.NewService(compare.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	searchService, err := search.NewService(search.ServiceParams{
		Repository:         search.NewRepository(conn),
		Recorder:           recorder,
		PopularLimit:       cfg.Search.PopularLimit,
		ShortQueryMaxChars: cfg.Search.ShortQueryMaxChars,
	})
	if err != nil {
		return routes.Services{}, err
	}
	brandService, err := brands.NewService(brandRepo)
	if err != nil {
		return routes.Services{}, err
	}
	phoneService, err := phones.NewService(phones.ServiceParams{
		Repository: phones.NewRepository(conn),
		Brands:     brandRepo,
		TxRunner:   dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}
	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repository: reviewRepo,
		TxRunner:   dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}
	userService, err := users.NewService(users.ServiceParams{
		Repository: users.NewRepository(conn),
		Hasher:     security.NewHasher(cfg.Password),
		Reviews:    reviewRepo,
		TxRunner:   dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}
	commentService, err := comments.NewService(comments.ServiceParams{
		Repository:        comments.NewRepository(conn),
		RequireModeration: cfg.FeatureFlags.CommentsRequireModeration,
	})
	if err != nil {
		return routes.Services{}, err
	}
	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(conn),
		TxRunner:     dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Catalog:  catalogService,
		Compare:  compareService,
		Search:   searchService,
		Brands:   brandService,
		Phones:   phoneService,
		Reviews:  reviewService,
		Users:    userService,
		Comments: commentService,
		Wishlist: wishlistService,
	}, nil
}
