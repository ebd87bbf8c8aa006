package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		services map[string]string
		want     string
	}{
		{"all up", map[string]string{"database": StatusConnected, "queue": StatusConnected, "cache": StatusConnected}, StatusHealthy},
		{"optional disabled", map[string]string{"database": StatusConnected, "queue": StatusDisabled, "cache": StatusDisabled}, StatusHealthy},
		{"queue down", map[string]string{"database": StatusConnected, "queue": StatusDisconnected, "cache": StatusDisabled}, StatusDegraded},
		{"database down", map[string]string{"database": StatusDisconnected, "queue": StatusConnected, "cache": StatusConnected}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overallStatus(tt.services))
		})
	}
}

func TestCheckHealth(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	status := NewHealthService(db, "", fakePinger{}, "test", zap.NewNop()).CheckHealth(context.Background())

	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, StatusConnected, status.Services["database"])
	assert.Equal(t, StatusDisabled, status.Services["queue"])
	assert.Equal(t, StatusConnected, status.Services["cache"])
	assert.Equal(t, "test", status.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckHealth_CacheDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	status := NewHealthService(db, "", fakePinger{err: errors.New("refused")}, "", zap.NewNop()).CheckHealth(context.Background())

	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, StatusDisconnected, status.Services["cache"])
}

func TestCheckHealth_DatabaseDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	status := NewHealthService(db, "", nil, "", zap.NewNop()).CheckHealth(context.Background())

	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, StatusDisabled, status.Services["cache"])
}
