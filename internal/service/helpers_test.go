package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/testutil"
)

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// testRepos bundles a mock for every repository the services use
type testRepos struct {
	customers      *testutil.MockCustomerRepository
	notes          *testutil.MockNoteRepository
	products       *testutil.MockProductRepository
	purchases      *testutil.MockPurchaseRepository
	leads          *testutil.MockLeadRepository
	engagements    *testutil.MockEngagementRepository
	lifetimeValues *testutil.MockLifetimeValueRepository
	metrics        *testutil.MockInternalMetricsRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		customers:      testutil.NewMockCustomerRepository(),
		notes:          testutil.NewMockNoteRepository(),
		products:       testutil.NewMockProductRepository(),
		purchases:      testutil.NewMockPurchaseRepository(),
		leads:          testutil.NewMockLeadRepository(),
		engagements:    testutil.NewMockEngagementRepository(),
		lifetimeValues: testutil.NewMockLifetimeValueRepository(),
		metrics:        testutil.NewMockInternalMetricsRepository(),
	}
}

func (r *testRepos) analytics() *AnalyticsService {
	svc := NewAnalyticsService(r.customers, r.purchases, r.engagements, r.lifetimeValues, r.metrics, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func (r *testRepos) customerService() *CustomerService {
	return NewCustomerService(r.customers, r.notes, r.analytics(), DefaultPageSize, zap.NewNop())
}
