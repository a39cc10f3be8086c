package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atelierhq/inventory-service/config"
	"github.com/atelierhq/inventory-service/internal/auth"
	"github.com/atelierhq/inventory-service/internal/httputil"
	"github.com/atelierhq/inventory-service/internal/web"
	"github.com/atelierhq/inventory-service/pkg/broker"
	"github.com/atelierhq/inventory-service/pkg/cache"
	"github.com/atelierhq/inventory-service/pkg/database/postgres"
	"github.com/atelierhq/inventory-service/pkg/logger"
	"github.com/atelierhq/inventory-service/pkg/search"

	catH "github.com/atelierhq/inventory-service/internal/category/handler"
	catRepoPkg "github.com/atelierhq/inventory-service/internal/category/repository"
	catUCPkg "github.com/atelierhq/inventory-service/internal/category/usecase"

	itemH "github.com/atelierhq/inventory-service/internal/item/handler"
	itemListenerPkg "github.com/atelierhq/inventory-service/internal/item/listener"
	itemRepoPkg "github.com/atelierhq/inventory-service/internal/item/repository"
	itemUCPkg "github.com/atelierhq/inventory-service/internal/item/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("connected to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch (optional: search falls back to the DB)
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("could not connect to Elasticsearch, search falls back to the database", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Repositories and UseCases
	itemRepo := itemRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)

	itemUC := itemUCPkg.NewItemUseCase(itemRepo, redisClient, redisClient, esClient, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)

	// 8. Stock Event Listener
	listener := itemListenerPkg.NewStockEventListener(kafkaConsumer, itemUC, appLogger)
	listenerCtx, cancelListener := context.WithCancel(context.Background())
	defer cancelListener()
	go listener.Start(listenerCtx)

	// 9. HTTP Router
	itemHandler := itemH.NewItemHandler(itemUC, appLogger)
	catHandler := catH.NewCategoryHandler(catUC, appLogger)

	webHandler, err := web.New()
	if err != nil {
		appLogger.Fatal("could not parse web templates", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(auth.Middleware(cfg.JWT.SecretKey))
		itemHandler.Register(api)
		catHandler.Register(api)
	})

	r.Get("/", webHandler.Index)
	r.Handle("/static/*", webHandler.Static())

	// 10. Serve with graceful shutdown
	server := &http.Server{
		Addr:              cfg.Server.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("starting HTTP server", zap.String("addr", cfg.Server.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	cancelListener()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
