package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questionbank/config"
	"questionbank/handlers"
	"questionbank/logger"
	"questionbank/routes"
	"questionbank/services"
	"questionbank/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Storage and cache never stop the boot; failures surface per request.
	store := openStore(cfg, appLog)
	cache := openCache(cfg, appLog)

	var hub *services.Hub
	var publisher services.Publisher
	if cfg.FeedEnabled {
		hub = services.NewHub(appLog)
		go hub.Run()
		publisher = hub
	}

	var tp trace.TracerProvider
	if cfg.TracingEnabled {
		provider, err := tracing.InitTracer(tracing.ServiceName, cfg.TracingEndpoint)
		if err != nil {
			appLog.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			tp = provider
			defer func() {
				if err := provider.Shutdown(context.Background()); err != nil {
					appLog.Error("Failed to shutdown tracer provider", zap.Error(err))
				}
			}()
		}
	}

	// Initialize services and handlers
	questionService := services.NewQuestionService(store, cache, publisher, appLog)

	questionHandler := handlers.NewQuestionHandler(questionService, appLog)
	feedHandler := handlers.NewFeedHandler(hub, appLog)
	healthHandler := handlers.NewHealthHandler(questionService)

	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	router := routes.NewRouter(serverCtx, cfg, appLog, tp)
	routes.SetupRoutes(router, questionHandler, feedHandler, healthHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		appLog.Fatal("Failed to start server", zap.String("port", cfg.Port), zap.Error(err))
	}
	appLog.Info("Server running on port " + cfg.Port)

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	stopServer()
	if hub != nil {
		hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := store.Close(ctx); err != nil {
		appLog.Error("Failed to close question store", zap.Error(err))
	}

	appLog.Info("Server exiting")
}

func openStore(cfg *config.Config, appLog *zap.Logger) services.QuestionStore {
	switch cfg.StorageDriver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := config.InitDB(cfg)
		if err != nil {
			appLog.Error("Database connection error", zap.String("driver", cfg.StorageDriver), zap.Error(err))
			return services.NewUnavailableStore(&services.Error{Kind: services.ErrConnectivity, Op: "connect", Err: err})
		}
		store := services.NewGormQuestionStore(db)
		if err := store.AutoMigrate(); err != nil {
			appLog.Error("Failed to migrate questions table", zap.Error(err))
		}
		appLog.Info("Connected to database", zap.String("driver", cfg.StorageDriver))
		return store
	}

	if cfg.MongoURI == "" {
		appLog.Error("MONGODB_URI is missing in environment or .env file")
		return services.NewUnavailableStore(&services.Error{Kind: services.ErrConfig, Op: "connect", Err: services.ErrStoreNotConfigured})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := config.ConnectMongo(ctx, cfg)
	if client == nil {
		appLog.Error("MongoDB Connection Error", zap.Error(err))
		return services.NewUnavailableStore(&services.Error{Kind: services.ErrConnectivity, Op: "connect", Err: err})
	}

	store := services.NewMongoQuestionStore(client.Database(config.MongoDatabaseName(cfg)).Collection(services.QuestionCollection))
	if err != nil {
		appLog.Error("MongoDB Connection Error", zap.Error(err))
		return store
	}

	appLog.Info("Connected to MongoDB", zap.String("database", config.MongoDatabaseName(cfg)))
	if err := store.EnsureIndexes(ctx); err != nil {
		appLog.Warn("Failed to ensure question indexes", zap.Error(err))
	}
	return store
}

func openCache(cfg *config.Config, appLog *zap.Logger) services.QueryCache {
	if cfg.RedisURL == "" {
		return nil
	}

	client, err := config.InitRedis(cfg)
	if err != nil {
		appLog.Error("Question cache disabled", zap.Error(err))
		return nil
	}

	appLog.Info("Question cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	return services.NewRedisQueryCache(client, cfg.CacheTTL)
}
