package service

import (
	"context"
	"database/sql"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled"
)

// HealthStatus represents the overall health status of the application
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// Pinger is anything whose connectivity can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check operations
type HealthChecker struct {
	db       *sql.DB
	queueURL string
	cache    Pinger
	version  string
	logger   *zap.Logger
}

// NewHealthService creates a new HealthChecker. An empty queueURL or nil cache
// reports that dependency as disabled.
func NewHealthService(db *sql.DB, queueURL string, cache Pinger, version string, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		db:       db,
		queueURL: queueURL,
		cache:    cache,
		version:  version,
		logger:   logger,
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("Database health check failed", zap.Error(err))
		return StatusDisconnected
	}
	return StatusConnected
}

func (h *HealthChecker) checkQueue() string {
	if h.queueURL == "" {
		return StatusDisabled
	}

	conn, err := amqp.DialConfig(h.queueURL, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		h.logger.Warn("Queue health check failed", zap.Error(err))
		return StatusDisconnected
	}
	defer conn.Close()

	return StatusConnected
}

func (h *HealthChecker) checkCache(ctx context.Context) string {
	if h.cache == nil {
		return StatusDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.cache.Ping(ctx); err != nil {
		h.logger.Warn("Cache health check failed", zap.Error(err))
		return StatusDisconnected
	}
	return StatusConnected
}

// overallStatus is unhealthy without the database and degraded when an
// optional dependency is unreachable
func overallStatus(services map[string]string) string {
	if services["database"] == StatusDisconnected {
		return StatusUnhealthy
	}
	for name, status := range services {
		if name != "database" && status == StatusDisconnected {
			return StatusDegraded
		}
	}
	return StatusHealthy
}

// CheckHealth probes every dependency and returns the overall status
func (h *HealthChecker) CheckHealth(ctx context.Context) *HealthStatus {
	services := map[string]string{
		"database": h.checkDatabase(ctx),
		"queue":    h.checkQueue(),
		"cache":    h.checkCache(ctx),
	}

	return &HealthStatus{
		Status:    overallStatus(services),
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
}
