package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/config"
	"github.com/nvmanh/techshop-catalog-service/internal/middleware"
	"github.com/nvmanh/techshop-catalog-service/pkg/broker"
	"github.com/nvmanh/techshop-catalog-service/pkg/cache"
	"github.com/nvmanh/techshop-catalog-service/pkg/database/postgres"
	"github.com/nvmanh/techshop-catalog-service/pkg/logger"
	"github.com/nvmanh/techshop-catalog-service/pkg/search"

	branchRepoPkg "github.com/nvmanh/techshop-catalog-service/internal/branch/repository"

	catH "github.com/nvmanh/techshop-catalog-service/internal/category/handler"
	catRepoPkg "github.com/nvmanh/techshop-catalog-service/internal/category/repository"
	catUCPkg "github.com/nvmanh/techshop-catalog-service/internal/category/usecase"

	prodH "github.com/nvmanh/techshop-catalog-service/internal/product/handler"
	prodListenerPkg "github.com/nvmanh/techshop-catalog-service/internal/product/listener"
	prodRepoPkg "github.com/nvmanh/techshop-catalog-service/internal/product/repository"
	prodUCPkg "github.com/nvmanh/techshop-catalog-service/internal/product/usecase"

	orderH "github.com/nvmanh/techshop-catalog-service/internal/order/handler"
	orderRepoPkg "github.com/nvmanh/techshop-catalog-service/internal/order/repository"
	orderUCPkg "github.com/nvmanh/techshop-catalog-service/internal/order/usecase"

	reviewH "github.com/nvmanh/techshop-catalog-service/internal/review/handler"
	reviewRepoPkg "github.com/nvmanh/techshop-catalog-service/internal/review/repository"
	reviewUCPkg "github.com/nvmanh/techshop-catalog-service/internal/review/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
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
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	branchRepo := branchRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	reviewRepo := reviewRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka
	stockConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.StockTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer stockConsumer.Close()

	orderProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
	})
	defer orderProducer.Close()
	appLogger.Info("Connected to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("stock_topic", cfg.Kafka.StockTopic),
		zap.String("orders_topic", cfg.Kafka.OrdersTopic),
	)

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (product indexing disabled)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, branchRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, branchRepo, redisClient, esClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, prodRepo, orderProducer, appLogger)
	reviewUC := reviewUCPkg.NewReviewUseCase(reviewRepo, prodRepo, orderUC, redisClient, appLogger)

	// 6.5 Start Stock Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stockListener := prodListenerPkg.NewStockListener(stockConsumer, prodUC, appLogger)
	go stockListener.Start(ctx)

	// 7. HTTP Server
	app := fiber.New(fiber.Config{
		AppName: "techshop-catalog-service",
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.UserContext())

	api := app.Group("/api")
	catH.NewCategoryHandler(catUC, branchRepo, appLogger).RegisterRoutes(api)
	prodH.NewProductHandler(prodUC, appLogger).RegisterRoutes(api)
	orderH.NewOrderHandler(orderUC, appLogger).RegisterRoutes(api)
	reviewH.NewReviewHandler(reviewUC, appLogger).RegisterRoutes(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))
	go func() {
		if err := app.Listen(port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
