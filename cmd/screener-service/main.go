package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/delivery/consumer"
	"github.com/hyfhx/stock-screener/internal/screener/repository"
	"github.com/hyfhx/stock-screener/internal/screener/service"
	screenersignal "github.com/hyfhx/stock-screener/internal/screener/signal"
	"github.com/hyfhx/stock-screener/internal/screener/strategy"
	"github.com/hyfhx/stock-screener/pkg/common"
	"github.com/hyfhx/stock-screener/pkg/logger"
	"github.com/hyfhx/stock-screener/pkg/postgres"
	"github.com/hyfhx/stock-screener/pkg/redis"
	"github.com/hyfhx/stock-screener/pkg/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the screener service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if unknown := screenersignal.UnknownWeightKeys(cfg.WeightsSeed); len(unknown) > 0 {
		log.Fatalf("weights_seed contains unknown signal keys: %v", unknown)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Screener Service", zap.String("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamSchedulerTaskExecution, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db.DB)
	historyRepo := repository.NewTaskExecutionHistoryRepository(db.DB)
	stocksRepo := repository.NewStocksRepository(db.DB)
	outcomeRepo := repository.NewScreeningOutcomeRepository(db.DB)
	runRepo := repository.NewScreeningRunRepository(db.DB)
	weightRepo := repository.NewWeightTableRepository(db.DB)
	marketDataRepo := repository.NewMarketDataRepository(cfg, appLogger)

	var telegramNotifier telegram.Notifier
	if cfg.Telegram.Enabled {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize services
	pipelineSvc := service.NewPipelineService(cfg, appLogger, marketDataRepo, stocksRepo, outcomeRepo, runRepo, weightRepo, telegramNotifier)
	outcomeSvc := service.NewOutcomeService(cfg, appLogger, marketDataRepo, outcomeRepo)
	tunerSvc := service.NewTunerService(cfg, appLogger, outcomeRepo, weightRepo)

	// Initialize strategies
	strategies := []strategy.JobExecutionStrategy{
		strategy.NewStockScreenerStrategy(appLogger, pipelineSvc, telegramNotifier),
		strategy.NewOutcomeReconcileStrategy(appLogger, outcomeSvc),
		strategy.NewWeightTunerStrategy(appLogger, tunerSvc, telegramNotifier),
	}

	// Initialize executor service and start the Redis consumer
	executorSvc := service.NewExecutorService(redisClient.Client, jobRepo, historyRepo, appLogger, strategies)
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, executorSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Screener service started. Waiting for tasks...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down screener service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Screener service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "screener-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-screener.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing screener-service CLI: %s\n", err)
		os.Exit(1)
	}
}
