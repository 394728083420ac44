package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/Lynx-thelearner/BE-Wisata/internal/api/http"
	"github.com/Lynx-thelearner/BE-Wisata/internal/api/http/handlers"
	"github.com/Lynx-thelearner/BE-Wisata/internal/auth"
	"github.com/Lynx-thelearner/BE-Wisata/internal/cache"
	"github.com/Lynx-thelearner/BE-Wisata/internal/config"
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
	"github.com/Lynx-thelearner/BE-Wisata/internal/observability"
	"github.com/Lynx-thelearner/BE-Wisata/internal/persistence"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
	"github.com/Lynx-thelearner/BE-Wisata/internal/storage"
	"github.com/Lynx-thelearner/BE-Wisata/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var cacheClient *goredis.Client
	if cfg.Redis.CacheEnabled {
		cacheClient = redis.Client
	}
	published := cache.NewRedisPublishedCache(cacheClient, cfg.Redis.CacheTTL(), logger)

	blobs, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicPrefix)
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.Auth.AccessTokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	txManager := persistence.NewTxManager(pool)
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewLookupRepository(pool, domain.LookupCategory)
	tagRepo := repository.NewLookupRepository(pool, domain.LookupTag)
	facilityRepo := repository.NewLookupRepository(pool, domain.LookupFacility)
	wisataRepo := repository.NewWisataRepository(pool)
	imageRepo := repository.NewImageRepository(pool)
	userReviewRepo := repository.NewUserReviewRepository(pool)
	editorReviewRepo := repository.NewEditorReviewRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	var sink service.EventSink
	var forwardWorker *worker.ForwardWorker
	if forwarder := events.NewAMQPForwarder(cfg.Broker.URL, cfg.Broker.Queue, logger); forwarder != nil {
		forwardWorker = worker.NewForwardWorker(forwarder, logger, 0)
		forwardWorker.Start(ctx)
		sink = forwardWorker
		logger.Info("forwarding events to rabbitmq", zap.String("queue", forwarder.Queue()))
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, published, sink))

	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		Tx:         txManager,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     userRepo,
		UserService:  userService,
		TokenManager: tokens,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	wisataService := service.NewWisataService(service.WisataDependencies{
		WisataRepo:     wisataRepo,
		ImageRepo:      imageRepo,
		CategoryRepo:   categoryRepo,
		Blobs:          blobs,
		PublishedCache: published,
		Tx:             txManager,
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		UserReviewRepo:   userReviewRepo,
		EditorReviewRepo: editorReviewRepo,
		WisataRepo:       wisataRepo,
		Tx:               txManager,
		Dispatcher:       dispatcher,
	})

	metrics := observability.NewMetrics()

	// multipart overhead on top of the raw image limit
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Storage.MaxUploadBytes + 64*1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Categories:     handlers.NewLookupHandler(service.NewLookupService(categoryRepo, txManager, dispatcher)),
		Tags:           handlers.NewLookupHandler(service.NewLookupService(tagRepo, txManager, dispatcher)),
		Facilities:     handlers.NewLookupHandler(service.NewLookupService(facilityRepo, txManager, dispatcher)),
		Wisata:         handlers.NewWisataHandler(wisataService),
		Reviews:        handlers.NewReviewHandler(reviewService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, userRepo),
		StaticPrefix:   cfg.Storage.PublicPrefix,
		StaticDir:      cfg.Storage.UploadDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	if forwardWorker != nil {
		forwardWorker.Stop()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
