package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/e-ashyoviy-dalillar/evidence-service/internal/api/http"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/api/http/handlers"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/cache"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/config"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/events"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/observability"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/persistence"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/repository"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/service"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/storage"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	userRepo := repository.NewUserRepository(pg.Pool)
	evidenceRepo := repository.NewEvidenceRepository(pg.Pool)
	historyRepo := repository.NewEvidenceHistoryRepository(pg.Pool)

	denylist := auth.NewDenylist(redis.Client)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     userRepo,
		TokenManager: tokens,
		Revoker:      denylist,
		Logger:       logger,
	})
	evidenceService := service.NewEvidenceService(service.EvidenceDependencies{
		EvidenceRepo: evidenceRepo,
		HistoryRepo:  historyRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Location:     loc,
	})
	statisticsService := service.NewStatisticsService(service.StatisticsDependencies{
		EvidenceRepo: evidenceRepo,
		UserRepo:     userRepo,
		Cache:        cache.NewStatsCache(redis.Client, cfg.Redis.StatsTTL()),
		Logger:       logger,
		Location:     loc,
	})
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost, statisticsService, logger)
	uploadService := service.NewUploadService(store, cfg.Storage.MaxUploadBytes)

	if err := userService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminUser, cfg.Auth.BootstrapAdminPass); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	notifications := service.NewNotificationService(dispatcher, statisticsService, logger, cfg.Notification)
	expiryWorker := worker.NewExpiryWorker(evidenceRepo, dispatcher, metrics, logger, cfg.Worker.ScanInterval(), cfg.Worker.NotifyWindowDays).
		WithAnnouncementGuard(cache.NewExpiryAnnouncements(redis.Client, loc))
	workersDone := worker.Start(ctx, notifications, expiryWorker)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
		BodyLimit:    int(cfg.Storage.MaxUploadBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		RequestTimeout: cfg.App.RequestTimeout(),
		CORSOrigins:    cfg.App.CORSOrigins,
	})

	validate := handlers.NewValidator()
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, validate),
		Evidence:       handlers.NewEvidenceHandler(evidenceService, validate, loc),
		Users:          handlers.NewUsersHandler(userService, validate),
		Statistics:     handlers.NewStatisticsHandler(statisticsService),
		Upload:         handlers.NewUploadHandler(uploadService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, userRepo, denylist, logger).Handle,
		LoginLimiter:   httptransport.NewIPRateLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	<-workersDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
