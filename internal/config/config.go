package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	RabbitMQ   RabbitMQConfig
	Redis      RedisConfig
	Session    SessionConfig
	Pagination PaginationConfig
	Env        string `env:"ENV" env-default:"development"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" env-default:"5"`
	LoginBurst      int           `env:"LOGIN_BURST" env-default:"10"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           string `env:"POSTGRES_PORT" env-default:"5432"`
	User           string `env:"POSTGRES_USER" env-default:"crm"`
	Password       string `env:"POSTGRES_PASSWORD"`
	DBName         string `env:"POSTGRES_DB" env-default:"crm_db"`
	SSLMode        string `env:"POSTGRES_SSLMODE" env-default:"disable"`
	MigrationsPath string `env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// RabbitMQConfig holds RabbitMQ configuration
type RabbitMQConfig struct {
	Host      string `env:"RABBITMQ_HOST" env-default:"localhost"`
	Port      string `env:"RABBITMQ_PORT" env-default:"5672"`
	User      string `env:"RABBITMQ_DEFAULT_USER" env-default:"guest"`
	Password  string `env:"RABBITMQ_DEFAULT_PASS" env-default:"guest"`
	QueueName string `env:"RABBITMQ_LTV_QUEUE" env-default:"lifetime_value_recalc"`
	Enabled   bool   `env:"RABBITMQ_ENABLED" env-default:"true"`
}

// RedisConfig holds the optional dashboard cache configuration.
// An empty Host disables caching.
type RedisConfig struct {
	Host     string        `env:"REDIS_HOST" env-default:""`
	Port     int           `env:"REDIS_PORT" env-default:"6379"`
	Password string        `env:"REDIS_PASSWORD" env-default:""`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `env:"DASHBOARD_CACHE_TTL" env-default:"30s"`
}

// SessionConfig holds cookie session configuration
type SessionConfig struct {
	Secret string `env:"SESSION_SECRET"`
	MaxAge int    `env:"SESSION_MAX_AGE" env-default:"86400"`
}

// PaginationConfig holds list defaults
type PaginationConfig struct {
	PageSize     int `env:"PAGE_SIZE" env-default:"10"`
	DashboardTop int `env:"DASHBOARD_TOP_N" env-default:"5"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.Pagination.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.Pagination.PageSize)
	}
	return nil
}

// GetDatabaseDSN returns PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRabbitMQURL returns RabbitMQ connection URL
func (c *Config) GetRabbitMQURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		c.RabbitMQ.User,
		c.RabbitMQ.Password,
		c.RabbitMQ.Host,
		c.RabbitMQ.Port,
	)
}

// GetRedisAddr returns host:port for the Redis client
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
