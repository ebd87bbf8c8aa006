package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/queue"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/service"
	"github.com/RileyK05/basic-crm/internal/testutil"
)

type workerMocks struct {
	customers      *testutil.MockCustomerRepository
	purchases      *testutil.MockPurchaseRepository
	lifetimeValues *testutil.MockLifetimeValueRepository
}

func newWorkerHandler() (queue.JobHandler, *workerMocks) {
	m := &workerMocks{
		customers:      testutil.NewMockCustomerRepository(),
		purchases:      testutil.NewMockPurchaseRepository(),
		lifetimeValues: testutil.NewMockLifetimeValueRepository(),
	}
	analyticsSvc := service.NewAnalyticsService(
		m.customers,
		m.purchases,
		testutil.NewMockEngagementRepository(),
		m.lifetimeValues,
		testutil.NewMockInternalMetricsRepository(),
		zap.NewNop(),
	)
	return newLifetimeValueHandler(analyticsSvc, zap.NewNop()), m
}

func TestLifetimeValueHandler_PersistsValue(t *testing.T) {
	handle, m := newWorkerHandler()
	m.purchases.ListByCustomerFunc = func(ctx context.Context, customerID int) ([]*models.Purchase, error) {
		return []*models.Purchase{testutil.NewTestPurchase(1, customerID, "120")}, nil
	}

	err := handle(context.Background(), &queue.LifetimeValueJob{CustomerID: 3})
	require.NoError(t, err)

	row, ok := m.lifetimeValues.Rows[3]
	require.True(t, ok, "lifetime value row should be created")
	assert.True(t, row.LifetimeValue.Valid)
}

func TestLifetimeValueHandler_MissingCustomerAcks(t *testing.T) {
	handle, m := newWorkerHandler()
	m.customers.GetByIDFunc = func(ctx context.Context, id int) (*models.Customer, error) {
		return nil, fmt.Errorf("customer: %w", repository.ErrNotFound)
	}

	err := handle(context.Background(), &queue.LifetimeValueJob{CustomerID: 99})
	assert.NoError(t, err)
	assert.Empty(t, m.lifetimeValues.Rows)
}

func TestLifetimeValueHandler_StorageErrorRequeues(t *testing.T) {
	handle, m := newWorkerHandler()
	m.purchases.ListByCustomerFunc = func(ctx context.Context, customerID int) ([]*models.Purchase, error) {
		return nil, errors.New("connection reset")
	}

	err := handle(context.Background(), &queue.LifetimeValueJob{CustomerID: 3})
	assert.Error(t, err)
}
