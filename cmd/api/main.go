package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-engine/internal/api/http/handlers"
	"github.com/spec-kit/sla-engine/internal/auth"
	"github.com/spec-kit/sla-engine/internal/config"
	"github.com/spec-kit/sla-engine/internal/events"
	"github.com/spec-kit/sla-engine/internal/holiday"
	"github.com/spec-kit/sla-engine/internal/observability"
	"github.com/spec-kit/sla-engine/internal/persistence"
	"github.com/spec-kit/sla-engine/internal/repository"
	"github.com/spec-kit/sla-engine/internal/service"
	"github.com/spec-kit/sla-engine/internal/sla"
	"github.com/spec-kit/sla-engine/internal/worker"

	httptransport "github.com/spec-kit/sla-engine/internal/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisConn *persistence.Redis
	if cfg.Holiday.CacheBackend == config.CacheBackendRedis {
		redisConn = persistence.NewRedis(cfg.Redis, logger)
		defer redisConn.Close()
	}

	holidayStore, err := buildHolidayStore(cfg.Holiday, redisConn)
	if err != nil {
		logger.Fatal("failed to init holiday store", zap.Error(err))
	}

	provider := holiday.NewProvider(holiday.ProviderDependencies{
		Fetcher:      holiday.NewHTTPFetcher(cfg.Holiday, logger),
		Store:        holidayStore,
		Logger:       logger,
		Metrics:      metrics,
		AllowMissing: cfg.Holiday.AllowMissing,
	})

	policy, err := sla.PolicyFromConfig(cfg.Sla)
	if err != nil {
		logger.Fatal("invalid sla policy", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	evaluator := sla.NewEvaluator(sla.EvaluatorDependencies{
		Holidays:    provider,
		Policy:      policy,
		CountryCode: cfg.Holiday.CountryCode,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	})
	runner := sla.NewBatchRunner(evaluator, cfg.Sla.Workers, dispatcher, logger)

	var resultRepo repository.ResultRepository
	if pg.PoolHandle() != nil {
		resultRepo = repository.NewResultRepository(pg.PoolHandle())
	}

	clients, err := auth.NewClientAuthenticator(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init client auth", zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, clients.Enabled())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(clients, tokens),
		Evaluations:    handlers.NewEvaluationsHandler(runner, resultRepo, logger),
		Holidays:       handlers.NewHolidaysHandler(provider, cfg.Holiday.CountryCode),
		Results:        handlers.NewResultsHandler(resultRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildHolidayStore(cfg config.HolidayConfig, redisConn *persistence.Redis) (holiday.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		return holiday.NewRedisStore(redisConn.Client), nil
	case config.CacheBackendFile:
		return holiday.NewFileStore(cfg.CacheDir)
	default:
		return holiday.NewMemoryStore(), nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
