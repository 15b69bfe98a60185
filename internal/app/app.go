package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/adapter/email"
	mongoadapter "github.com/Abdurahmanit/GroupProject/plant-service/internal/adapter/mongo"
	natsadapter "github.com/Abdurahmanit/GroupProject/plant-service/internal/adapter/nats"
	redisadapter "github.com/Abdurahmanit/GroupProject/plant-service/internal/adapter/redis"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/notification"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/tracer"
	httpserver "github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http/handler"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http/middleware"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const (
	metricsNamespace = "plantnet"
	startupTimeout   = 30 * time.Second
)

type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *httpserver.Server
	dispatcher     *notification.Dispatcher
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
	tracerShutdown tracer.ShutdownFunc
}

func New(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	tracerShutdown, err := tracer.Init(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if cfg.Tracing.Endpoint == "" {
		appLogger.Info("Tracing endpoint not configured, spans are not exported")
	}

	metricsManager := metrics.NewManager(metricsNamespace)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDB.Database)
	if err = mongoadapter.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	userRepo := mongoadapter.NewUserRepository(db)
	plantRepo := mongoadapter.NewPlantRepository(db)
	orderRepo := mongoadapter.NewOrderRepository(db)
	transactor := mongoadapter.NewTransactor(mongoClient, cfg.MongoDB.Transactions)
	appLogger.Infof("Repositories initialized (transactions enabled: %t)", cfg.MongoDB.Transactions)

	var (
		redisClient *redis.Client
		roleCache   repository.RoleCache
	)
	if cfg.Redis.Addr != "" {
		appLogger.Info("Initializing Redis client...")
		redisClient, err = redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Errorf("Failed to initialize Redis client: %v", err)
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		roleCache = redisadapter.NewRoleCache(redisClient, cfg.Auth.RoleCacheTTL)
		appLogger.Info("Redis role cache initialized successfully")
	} else {
		appLogger.Warn("Redis address not configured, role lookups go to MongoDB")
	}

	var (
		natsConn     *nats.Conn
		msgPublisher natsadapter.MessagePublisher
	)
	if cfg.NATS.URL != "" {
		appLogger.Info("Connecting to NATS...")
		natsConn, err = natsadapter.NewConnection(cfg.NATS, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to connect to NATS: %v", err)
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		msgPublisher, err = natsadapter.NewNATSPublisher(natsConn, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		appLogger.Info("NATS publisher initialized successfully")
	} else {
		msgPublisher = natsadapter.NewNopPublisher(appLogger)
		appLogger.Warn("NATS URL not configured, domain events are only logged")
	}

	var sender email.EmailSender
	sender, err = email.NewSMTPSender(cfg.SMTP, appLogger)
	if err != nil {
		appLogger.Warnf("SMTP sender not configured (%v), emails are only logged", err)
		sender = email.NewLogSender(appLogger)
	}
	dispatcher := notification.NewDispatcher(sender, appLogger, metricsManager, notification.Options{
		Workers:         cfg.Notification.Workers,
		QueueSize:       cfg.Notification.QueueSize,
		MaxAttempts:     cfg.Notification.MaxAttempts,
		InitialInterval: cfg.Notification.InitialInterval,
		MaxInterval:     cfg.Notification.MaxInterval,
		SendTimeout:     cfg.Notification.SendTimeout,
	})

	var imageStorage repository.ImageStorage
	if cfg.Storage.Endpoint != "" {
		imageStorage, err = s3.NewStorage(ctx, cfg.Storage, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to initialize image storage: %v", err)
			return nil, fmt.Errorf("failed to initialize image storage: %w", err)
		}
		appLogger.Infof("Image storage initialized (bucket %s)", cfg.Storage.Bucket)
	} else {
		appLogger.Warn("Image storage not configured, uploads are disabled")
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to create credential issuer: %w", err)
	}

	userService := service.NewUserService(userRepo, roleCache, msgPublisher, appLogger)
	inventoryService := service.NewInventoryService(plantRepo, metricsManager, appLogger)
	plantService := service.NewPlantService(plantRepo, imageStorage, appLogger)
	orderService := service.NewOrderService(
		orderRepo,
		plantRepo,
		inventoryService,
		transactor,
		userService,
		dispatcher,
		msgPublisher,
		metricsManager,
		appLogger,
	)
	appLogger.Info("Services initialized")

	router := httpserver.NewRouter(
		httpserver.RouterConfig{AllowedOrigins: cfg.CORS.AllowedOrigins},
		httpserver.Handlers{
			Auth:  handler.NewAuthHandler(issuer, appLogger),
			Users: handler.NewUserHandler(userService, appLogger),
			Plant: handler.NewPlantHandler(plantService, inventoryService, cfg.HTTPServer.MaxUploadBytes, appLogger),
			Order: handler.NewOrderHandler(orderService, userService, appLogger),
		},
		middleware.NewGate(issuer, userService, metricsManager, appLogger),
		metricsManager,
		appLogger,
	)

	server := httpserver.NewServer(appLogger, httpserver.ServerConfig{
		Port:            cfg.HTTPServer.Port,
		ReadTimeout:     cfg.HTTPServer.ReadTimeout,
		WriteTimeout:    cfg.HTTPServer.WriteTimeout,
		IdleTimeout:     cfg.HTTPServer.IdleTimeout,
		TimeoutGraceful: cfg.HTTPServer.TimeoutGraceful,
	}, router)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:            cfg,
		log:            appLogger,
		server:         server,
		dispatcher:     dispatcher,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		natsConn:       natsConn,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts every
// component down in reverse dependency order.
func (a *App) Run() error {
	a.log.Info("Starting application components...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.dispatcher.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.server.Start)
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutdown requested, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful)
		defer cancel()
		return a.server.Stop(shutdownCtx)
	})

	runErr := g.Wait()
	if runErr != nil {
		a.log.Errorf("HTTP server stopped with error: %v", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	return errors.Join(runErr, a.shutdown(shutdownCtx))
}

func (a *App) shutdown(ctx context.Context) error {
	var errs []error

	if err := a.dispatcher.Stop(ctx); err != nil {
		a.log.Errorf("Error draining notification queue: %v", err)
		errs = append(errs, err)
	}

	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Errorf("Error draining NATS connection: %v", err)
			errs = append(errs, err)
		} else {
			a.log.Info("NATS connection drained")
		}
	}

	a.log.Info("Closing database connections...")
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
			errs = append(errs, err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
			errs = append(errs, err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	if err := a.tracerShutdown(ctx); err != nil {
		a.log.Errorf("Error flushing traces: %v", err)
		errs = append(errs, err)
	}

	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
	return errors.Join(errs...)
}
