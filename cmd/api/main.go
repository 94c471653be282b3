package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	httptransport "github.com/foundit/lostfound-service/internal/api/http"
	"github.com/foundit/lostfound-service/internal/api/http/handlers"
	"github.com/foundit/lostfound-service/internal/auth"
	"github.com/foundit/lostfound-service/internal/config"
	"github.com/foundit/lostfound-service/internal/events"
	"github.com/foundit/lostfound-service/internal/observability"
	"github.com/foundit/lostfound-service/internal/persistence"
	"github.com/foundit/lostfound-service/internal/repository"
	"github.com/foundit/lostfound-service/internal/repository/memory"
	"github.com/foundit/lostfound-service/internal/service"
	"github.com/foundit/lostfound-service/internal/storage"
	"github.com/foundit/lostfound-service/internal/worker"
)

// stores groups the repositories behind one transaction boundary.
type stores struct {
	tx            repository.Transactor
	accounts      repository.AccountRepository
	posts         repository.PostRepository
	claims        repository.ClaimRepository
	notifications repository.NotificationRepository
}

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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	repos := openStores(pg)

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	var forwarder *events.NATSForwarder
	if cfg.Events.NATSURL != "" {
		forwarder, err = events.NewNATSForwarder(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, logger)
		if err != nil {
			logger.Warn("nats unavailable; events stay in-process", zap.Error(err))
		} else {
			defer forwarder.Close()
		}
	}
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, dispatcher, forwarder)

	images, err := storage.NewLocalImageStore(cfg.Upload.Dir, cfg.Upload.URLPrefix, int64(cfg.Upload.MaxBytes))
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	identityService := service.NewIdentityService(*cfg, service.IdentityDependencies{
		AccountRepo:      repos.accounts,
		NotificationRepo: repos.notifications,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   repos.posts,
		Images:     images,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	claimService := service.NewClaimService(service.ClaimDependencies{
		Transactor: repos.tx,
		ClaimRepo:  repos.claims,
		PostRepo:   repos.posts,
		Inbox:      identityService,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := httptransport.NewApp(cfg)
	httptransport.RegisterMiddlewares(app, cfg, logger, metrics)

	probes := map[string]handlers.Pinger{"postgres": nil, "redis": nil}
	if pg.Enabled() {
		probes["postgres"] = pg
	}
	if redis.Client != nil {
		probes["redis"] = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, probes),
		Auth:           handlers.NewAuthHandler(identityService),
		Posts:          handlers.NewPostsHandler(postService),
		Claims:         handlers.NewClaimsHandler(claimService),
		Profile:        handlers.NewProfileHandler(identityService),
		AuthMiddleware: auth.NewAuthMiddleware(identityService.TokenManager(), repos.accounts),
		AuthLimiter:    httptransport.NewRateLimiter(redis.Client, cfg.RateLimit.AuthRequests, cfg.RateLimit.Window(), logger),
		Metrics:        metrics,
		UploadDir:      images.Dir(),
		UploadPrefix:   images.URLPrefix(),
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	notificationService.Wait()
}

func openStores(pg *persistence.Postgres) stores {
	if !pg.Enabled() {
		store := memory.NewStore()
		return stores{
			tx:            store,
			accounts:      store.Accounts(),
			posts:         store.Posts(),
			claims:        store.Claims(),
			notifications: store.Notifications(),
		}
	}
	pool := pg.PoolHandle()
	return stores{
		tx:            repository.NewTransactor(pool),
		accounts:      repository.NewAccountRepository(pool),
		posts:         repository.NewPostRepository(pool),
		claims:        repository.NewClaimRepository(pool),
		notifications: repository.NewNotificationRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
