package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "session-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "crm_db", cfg.Database.DBName)
	assert.Equal(t, "lifetime_value_recalc", cfg.RabbitMQ.QueueName)
	assert.Equal(t, "", cfg.Redis.Host)
	assert.Equal(t, 10, cfg.Pagination.PageSize)
	assert.Equal(t, 5, cfg.Pagination.DashboardTop)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("SESSION_SECRET", "session-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_PASSWORD")
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("PAGE_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE")
}

func TestConfig_ConnectionStrings(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db",
			Port:     "5433",
			User:     "crm",
			Password: "pw",
			DBName:   "crm_test",
			SSLMode:  "disable",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "mq",
			Port:     "5672",
			User:     "guest",
			Password: "guest",
		},
		Redis: RedisConfig{Host: "cache", Port: 6380},
		Env:   "production",
	}

	assert.Equal(t, "host=db port=5433 user=crm password=pw dbname=crm_test sslmode=disable", cfg.GetDatabaseDSN())
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.GetRabbitMQURL())
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
	assert.False(t, cfg.IsDevelopment())
}
