package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/testutil"
)

func newDashboardService(repos *testRepos, cache JSONCache) *DashboardService {
	logger := zap.NewNop()
	analytics := repos.analytics()
	svc := NewDashboardService(DashboardDeps{
		CustomerRepo:   repos.customers,
		LeadRepo:       repos.leads,
		ProductRepo:    repos.products,
		EngagementRepo: repos.engagements,
		PurchaseRepo:   repos.purchases,
		MetricsRepo:    repos.metrics,
		Customers:      repos.customerService(),
		Leads:          NewLeadService(repos.leads, repos.customers, DefaultPageSize, logger),
		Products:       NewProductService(repos.products, analytics, DefaultPageSize, logger),
		Engagements:    NewEngagementService(repos.engagements, repos.customers, DefaultPageSize, logger),
		Cache:          cache,
	}, logger)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestResolveLimit(t *testing.T) {
	svc := newDashboardService(newTestRepos(), nil)

	assert.Equal(t, DefaultDashboardLimit, svc.ResolveLimit(""))
	assert.Equal(t, DefaultDashboardLimit, svc.ResolveLimit("0"))
	assert.Equal(t, DefaultDashboardLimit, svc.ResolveLimit("ten"))
	assert.Equal(t, 12, svc.ResolveLimit("12"))
	assert.Equal(t, MaxDashboardLimit, svc.ResolveLimit("500"))
}

func TestGetDashboard_MetricsNotAvailable(t *testing.T) {
	repos := newTestRepos()
	repos.customers.CountFunc = func(ctx context.Context) (int, error) { return 4, nil }
	repos.purchases.SumAmountFunc = func(ctx context.Context) (decimal.Decimal, error) { return testutil.Dec("99.50"), nil }

	dash, err := newDashboardService(repos, nil).GetDashboard(context.Background(), DashboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, "N/A", dash.InternalMetrics.CurrentGrowthRate)
	assert.True(t, dash.InternalMetrics.ProjectedRevenue.IsZero())
	assert.Equal(t, "N/A", dash.InternalMetrics.ChurnRate)
	assert.Equal(t, 4, dash.Counts.Customers)
	assert.Equal(t, "99.5", dash.TotalRevenue.String())
	assert.Equal(t, 1, dash.Customers.Pagination.Page)
	assert.Zero(t, repos.metrics.Calls["Create"])
}

func TestGetDashboard_MetricsSet(t *testing.T) {
	repos := newTestRepos()
	repos.metrics.Rows = []*models.InternalMetrics{{
		ID:                1,
		CurrentGrowthRate: testutil.NullDec("0.12"),
		ProjectedRevenue:  testutil.NullDec("1000000"),
		InternalChurnRate: testutil.NullDec("0.05"),
	}}

	dash, err := newDashboardService(repos, nil).GetDashboard(context.Background(), DashboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, testutil.Dec("0.12"), dash.InternalMetrics.CurrentGrowthRate)
	assert.Equal(t, testutil.Dec("0.05"), dash.InternalMetrics.ChurnRate)
	assert.Equal(t, "1000000", dash.InternalMetrics.ProjectedRevenue.String())
}

func TestGetDashboard_MetricsRowWithoutValues(t *testing.T) {
	repos := newTestRepos()
	repos.metrics.Rows = []*models.InternalMetrics{{ID: 1}}

	dash, err := newDashboardService(repos, nil).GetDashboard(context.Background(), DashboardQuery{})
	require.NoError(t, err)

	raw, err := json.Marshal(dash.InternalMetrics)
	require.NoError(t, err)
	assert.JSONEq(t, `{"current_growth_rate":"N/A","projected_revenue":"0","churn_rate":"N/A"}`, string(raw))
}

func TestGetDashboard_PassesLimit(t *testing.T) {
	repos := newTestRepos()
	var got int
	repos.customers.TopByRevenueFunc = func(ctx context.Context, limit int) ([]*repository.CustomerRevenue, error) {
		got = limit
		return nil, nil
	}

	_, err := newDashboardService(repos, nil).GetDashboard(context.Background(), DashboardQuery{Limit: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestGetDashboard_ServedFromCache(t *testing.T) {
	repos := newTestRepos()
	cache := testutil.NewMockCache()
	svc := newDashboardService(repos, cache)
	q := DashboardQuery{Limit: 5, Customers: ListQuery{Search: "ada", Page: 1}}

	first, err := svc.GetDashboard(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.GetDashboard(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, repos.customers.Calls["TopByRevenue"])
	assert.Equal(t, 1, cache.Sets)
	assert.True(t, first.GeneratedAt.Equal(second.GeneratedAt))
	assert.Equal(t, "N/A", second.InternalMetrics.CurrentGrowthRate)
}

func TestGetDashboard_DistinctQueriesMissCache(t *testing.T) {
	repos := newTestRepos()
	svc := newDashboardService(repos, testutil.NewMockCache())

	_, err := svc.GetDashboard(context.Background(), DashboardQuery{Leads: ListQuery{Page: 1}})
	require.NoError(t, err)
	_, err = svc.GetDashboard(context.Background(), DashboardQuery{Leads: ListQuery{Page: 2}})
	require.NoError(t, err)

	assert.Equal(t, 2, repos.customers.Calls["TopByRevenue"])
}

func TestGetDashboard_CacheFailureFallsThrough(t *testing.T) {
	repos := newTestRepos()
	cache := testutil.NewMockCache()
	cache.GetErr = errors.New("redis down")
	cache.SetErr = errors.New("redis down")

	dash, err := newDashboardService(repos, cache).GetDashboard(context.Background(), DashboardQuery{})

	require.NoError(t, err)
	assert.NotNil(t, dash)
}

func TestGetDashboard_CountError(t *testing.T) {
	repos := newTestRepos()
	repos.leads.CountFunc = func(ctx context.Context) (int, error) { return 0, errors.New("timeout") }

	_, err := newDashboardService(repos, nil).GetDashboard(context.Background(), DashboardQuery{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count leads")
}
