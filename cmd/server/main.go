package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orbitpay/gateway/internal/config"
	"github.com/orbitpay/gateway/internal/infrastructure/database"
	httpServer "github.com/orbitpay/gateway/internal/infrastructure/http"
	"github.com/orbitpay/gateway/internal/jobs"
	"github.com/orbitpay/gateway/internal/queue"
	"github.com/orbitpay/gateway/internal/usecase"
	"github.com/orbitpay/gateway/internal/webhook"
	"github.com/orbitpay/gateway/internal/worker"
	"github.com/orbitpay/gateway/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Service.Environment == "development",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	if cfg.Service.Environment == "development" {
		if err := database.SeedMerchants(context.Background(), repos.Merchant, zapLogger); err != nil {
			zapLogger.Fatal("Failed to seed merchants", zap.Error(err))
		}
	}

	// Initialize job queues
	redisClient, err := queue.NewRedisClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	manager := queue.NewManager(redisClient, cfg.Queue, zapLogger)
	paymentQueue := manager.Queue(queue.QueuePayments)
	refundQueue := manager.Queue(queue.QueueRefunds)
	webhookQueue := manager.Queue(queue.QueueWebhooks)

	// Initialize workers
	webhookService := usecase.NewWebhookService(repos.WebhookLog, webhookQueue, zapLogger)
	simulator := worker.NewRandomSimulator(cfg.Simulator)
	retryPolicy := webhook.NewRetryPolicy(cfg.Webhook.RetrySchedule, cfg.Webhook.MaxAttempts)
	sender := webhook.NewSender(cfg.Webhook.Timeout, zapLogger)

	paymentWorker := worker.NewPaymentWorker(repos.Payment, webhookService, simulator, zapLogger)
	refundWorker := worker.NewRefundWorker(repos.Refund, webhookService, cfg.Simulator.ProcessingDelay, zapLogger)
	webhookWorker := worker.NewWebhookWorker(repos.Merchant, repos.WebhookLog, sender, retryPolicy, webhookQueue, zapLogger)

	paymentQueue.Process(jobs.TypeProcessPayment, paymentWorker.Handle)
	refundQueue.Process(jobs.TypeProcessRefund, refundWorker.Handle)
	webhookQueue.Process(jobs.TypeDeliverWebhook, webhookWorker.Handle)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager.Start(ctx)

	// Initialize HTTP server
	httpSrv := httpServer.NewServer(cfg, zapLogger, repos, manager)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Info("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	cancel()
	manager.Stop()

	zapLogger.Info("Shutdown complete")
}
