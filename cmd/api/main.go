package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/cache"
	"github.com/RileyK05/basic-crm/internal/config"
	"github.com/RileyK05/basic-crm/internal/database"
	"github.com/RileyK05/basic-crm/internal/handler"
	"github.com/RileyK05/basic-crm/internal/logging"
	"github.com/RileyK05/basic-crm/internal/middleware"
	"github.com/RileyK05/basic-crm/internal/queue"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/service"
)

const version = "1.0.0"

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

	ctx := context.Background()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to database")

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; a nil client leaves the store disabled
	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	store := cache.NewStore(redisClient, cfg.Redis.TTL)
	var dashboardCache service.JSONCache
	var cachePinger service.Pinger
	if store.Enabled() {
		defer redisClient.Close()
		dashboardCache = store
		cachePinger = store
		logger.Info("Dashboard cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
	}

	var publisher service.RecalculationPublisher
	queueURL := ""
	if cfg.RabbitMQ.Enabled {
		queueURL = cfg.GetRabbitMQURL()
		conn, err := queue.NewConnection(queueURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer conn.Close()

		pub, err := queue.NewPublisher(conn, cfg.RabbitMQ.QueueName)
		if err != nil {
			logger.Fatal("Failed to create publisher", zap.Error(err))
		}
		publisher = pub
		logger.Info("Connected to RabbitMQ", zap.String("queue", cfg.RabbitMQ.QueueName))
	}

	customerRepo := repository.NewCustomerRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	productRepo := repository.NewProductRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	lifetimeValueRepo := repository.NewLifetimeValueRepository(db)
	metricsRepo := repository.NewInternalMetricsRepository(db)
	userRepo := repository.NewUserRepository(db)

	pageSize := cfg.Pagination.PageSize
	analyticsSvc := service.NewAnalyticsService(customerRepo, purchaseRepo, engagementRepo, lifetimeValueRepo, metricsRepo, logger)
	customerSvc := service.NewCustomerService(customerRepo, noteRepo, analyticsSvc, pageSize, logger)
	productSvc := service.NewProductService(productRepo, analyticsSvc, pageSize, logger)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, customerRepo, productRepo, publisher, pageSize, logger)
	leadSvc := service.NewLeadService(leadRepo, customerRepo, pageSize, logger)
	engagementSvc := service.NewEngagementService(engagementRepo, customerRepo, pageSize, logger)
	metricsSvc := service.NewInternalMetricsService(metricsRepo, lifetimeValueRepo, logger)
	userSvc := service.NewUserService(userRepo, logger)
	healthSvc := service.NewHealthService(db, queueURL, cachePinger, version, logger)
	dashboardSvc := service.NewDashboardService(service.DashboardDeps{
		CustomerRepo:   customerRepo,
		LeadRepo:       leadRepo,
		ProductRepo:    productRepo,
		EngagementRepo: engagementRepo,
		PurchaseRepo:   purchaseRepo,
		MetricsRepo:    metricsRepo,
		Customers:      customerSvc,
		Leads:          leadSvc,
		Products:       productSvc,
		Engagements:    engagementSvc,
		Cache:          dashboardCache,
		DefaultLimit:   cfg.Pagination.DashboardTop,
	}, logger)

	sessions := middleware.NewSessions(cfg.Session.Secret, cfg.Session.MaxAge, !cfg.IsDevelopment(), logger)
	loginLimiter := middleware.NewRateLimiter(cfg.Server.LoginRateLimit, cfg.Server.LoginBurst, logger)
	stopCleanup := make(chan struct{})
	loginLimiter.StartCleanup(5*time.Minute, stopCleanup)

	router := handler.NewRouter(handler.Handlers{
		Health:          handler.NewHealthHandler(healthSvc),
		Dashboard:       handler.NewDashboardHandler(dashboardSvc, logger),
		Customers:       handler.NewCustomerHandler(customerSvc, analyticsSvc, logger),
		Products:        handler.NewProductHandler(productSvc, logger),
		Purchases:       handler.NewPurchaseHandler(purchaseSvc, logger),
		Leads:           handler.NewLeadHandler(leadSvc, logger),
		Engagements:     handler.NewEngagementHandler(engagementSvc, logger),
		InternalMetrics: handler.NewInternalMetricsHandler(metricsSvc, logger),
		Auth:            handler.NewAuthHandler(userSvc, sessions, logger),
	}, sessions, loginLimiter)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Wrap(router, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.Env),
			zap.String("version", version),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully")
	close(stopCleanup)

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("API server stopped")
}
