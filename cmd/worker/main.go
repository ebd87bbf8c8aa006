package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/config"
	"github.com/RileyK05/basic-crm/internal/database"
	"github.com/RileyK05/basic-crm/internal/logging"
	"github.com/RileyK05/basic-crm/internal/queue"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/service"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.RabbitMQ.Enabled {
		logger.Fatal("Worker requires RabbitMQ; set RABBITMQ_ENABLED=true")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to database")

	analyticsSvc := service.NewAnalyticsService(
		repository.NewCustomerRepository(db),
		repository.NewPurchaseRepository(db),
		repository.NewEngagementRepository(db),
		repository.NewLifetimeValueRepository(db),
		repository.NewInternalMetricsRepository(db),
		logger,
	)

	conn, err := queue.NewConnection(cfg.GetRabbitMQURL(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer conn.Close()
	logger.Info("Connected to RabbitMQ")

	consumer, err := queue.NewConsumer(conn, cfg.RabbitMQ.QueueName, newLifetimeValueHandler(analyticsSvc, logger), logger)
	if err != nil {
		logger.Fatal("Failed to create consumer", zap.Error(err))
	}

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("Failed to start consumer", zap.Error(err))
	}
	logger.Info("Worker started", zap.String("queue", cfg.RabbitMQ.QueueName))

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully")

	if err := consumer.Stop(); err != nil {
		logger.Error("Error stopping consumer", zap.Error(err))
	}

	logger.Info("Worker stopped")
}

// newLifetimeValueHandler recalculates and stores a customer's lifetime value.
// Jobs for customers deleted since publishing are acknowledged.
func newLifetimeValueHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) queue.JobHandler {
	return func(ctx context.Context, job *queue.LifetimeValueJob) error {
		result, err := analyticsSvc.RecalculateLifetimeValue(ctx, job.CustomerID, true)
		if err != nil {
			var notFound *service.NotFoundError
			if errors.As(err, &notFound) {
				logger.Info("Skipping lifetime value job for missing customer", zap.Int("customer_id", job.CustomerID))
				return nil
			}
			return err
		}

		logger.Info("Lifetime value recalculated",
			zap.Int("customer_id", result.CustomerID),
			zap.String("lifetime_value", result.LifetimeValue.String()),
		)
		return nil
	}
}
