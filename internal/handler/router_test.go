package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RileyK05/basic-crm/internal/analytics"
	"github.com/RileyK05/basic-crm/internal/middleware"
	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/service"
	"github.com/RileyK05/basic-crm/internal/testutil"
)

type testServer struct {
	router    *mux.Router
	customers *testutil.MockCustomerRepository
	leads     *testutil.MockLeadRepository
	purchases *testutil.MockPurchaseRepository
	metrics   *testutil.MockInternalMetricsRepository
	users     *testutil.MockUserRepository
	publisher *testutil.MockPublisher
	dbMock    sqlmock.Sqlmock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ts := &testServer{
		customers: testutil.NewMockCustomerRepository(),
		leads:     testutil.NewMockLeadRepository(),
		purchases: testutil.NewMockPurchaseRepository(),
		metrics:   testutil.NewMockInternalMetricsRepository(),
		users:     testutil.NewMockUserRepository(),
		publisher: testutil.NewMockPublisher(),
		dbMock:    dbMock,
	}
	notes := testutil.NewMockNoteRepository()
	products := testutil.NewMockProductRepository()
	engagements := testutil.NewMockEngagementRepository()
	lifetimeValues := testutil.NewMockLifetimeValueRepository()

	analyticsSvc := service.NewAnalyticsService(ts.customers, ts.purchases, engagements, lifetimeValues, ts.metrics, logger)
	customerSvc := service.NewCustomerService(ts.customers, notes, analyticsSvc, service.DefaultPageSize, logger)
	productSvc := service.NewProductService(products, analyticsSvc, service.DefaultPageSize, logger)
	purchaseSvc := service.NewPurchaseService(ts.purchases, ts.customers, products, ts.publisher, service.DefaultPageSize, logger)
	leadSvc := service.NewLeadService(ts.leads, ts.customers, service.DefaultPageSize, logger)
	engagementSvc := service.NewEngagementService(engagements, ts.customers, service.DefaultPageSize, logger)
	dashboardSvc := service.NewDashboardService(service.DashboardDeps{
		CustomerRepo:   ts.customers,
		LeadRepo:       ts.leads,
		ProductRepo:    products,
		EngagementRepo: engagements,
		PurchaseRepo:   ts.purchases,
		MetricsRepo:    ts.metrics,
		Customers:      customerSvc,
		Leads:          leadSvc,
		Products:       productSvc,
		Engagements:    engagementSvc,
	}, logger)

	sessions := middleware.NewSessions("test-secret", 3600, false, logger)
	ts.router = NewRouter(Handlers{
		Health:          NewHealthHandler(service.NewHealthService(db, "", nil, "test", logger)),
		Dashboard:       NewDashboardHandler(dashboardSvc, logger),
		Customers:       NewCustomerHandler(customerSvc, analyticsSvc, logger),
		Products:        NewProductHandler(productSvc, logger),
		Purchases:       NewPurchaseHandler(purchaseSvc, logger),
		Leads:           NewLeadHandler(leadSvc, logger),
		Engagements:     NewEngagementHandler(engagementSvc, logger),
		InternalMetrics: NewInternalMetricsHandler(service.NewInternalMetricsService(ts.metrics, lifetimeValues, logger), logger),
		Auth:            NewAuthHandler(service.NewUserService(ts.users, logger), sessions, logger),
	}, sessions, middleware.NewRateLimiter(60, 3, logger))
	return ts
}

func (ts *testServer) do(t *testing.T, method, url string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, url, body)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	testutil.ParseJSONResponse(t, rec, &resp)
	return resp.Error.Code
}

// ==================== Customers ====================

func TestAPI_CreateCustomer_Success(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/customers", map[string]interface{}{
		"name":   "Ada Lovelace",
		"email":  "ada@example.com",
		"income": "85000.00",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var customer models.Customer
	testutil.ParseJSONResponse(t, rec, &customer)
	assert.Equal(t, 1, customer.ID)
	assert.Equal(t, "85000", customer.Income.Decimal.String())
}

func TestAPI_CreateCustomer_BadInput(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		wantCode string
	}{
		{"empty body", nil, "INVALID_JSON"},
		{"malformed", "{not json", "INVALID_JSON"},
		{"missing email", map[string]string{"name": "Ada"}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(t, http.MethodPost, "/customers", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestAPI_CreateCustomer_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.customers.CreateFunc = func(ctx context.Context, c *models.Customer) error {
		return repository.ErrDuplicate
	}

	rec := ts.do(t, http.MethodPost, "/customers", map[string]string{"name": "Ada", "email": "ada@example.com"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, rec))
}

func TestAPI_ListCustomers_PassesSearchAndPage(t *testing.T) {
	ts := newTestServer(t)
	var got repository.ListFilters
	ts.customers.ListFunc = func(ctx context.Context, f repository.ListFilters) ([]*models.Customer, int, error) {
		got = f
		return testutil.NewTestCustomers(1), 11, nil
	}

	rec := ts.do(t, http.MethodGet, "/customers?search=test&page=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", got.Search)
	assert.Equal(t, 2, got.Page)

	var resp ListResponse[models.Customer]
	testutil.ParseJSONResponse(t, rec, &resp)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestAPI_GetCustomer_Detail(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/customers/1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rec, &body)
	assert.Equal(t, analytics.NoEngagementMessage, body["churn_likelihood"])
	assert.Equal(t, "0", body["total_revenue"])
	assert.Contains(t, body, "notes")
	assert.Equal(t, "Ada Lovelace", body["name"])
}

func TestAPI_GetCustomer_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.customers.GetByIDFunc = func(ctx context.Context, id int) (*models.Customer, error) {
		return nil, repository.ErrNotFound
	}

	rec := ts.do(t, http.MethodGet, "/customers/999", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", errorCode(t, rec))
}

func TestAPI_GetCustomer_NonNumericID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/customers/abc", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", errorCode(t, rec))
}

func TestAPI_DeleteCustomer(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodDelete, "/customers/3", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, ts.customers.Calls["Delete"])
}

func TestAPI_Autocomplete(t *testing.T) {
	ts := newTestServer(t)
	ts.customers.AutocompleteFunc = func(ctx context.Context, term string, limit int) ([]*models.Customer, error) {
		return testutil.NewTestCustomers(2), nil
	}

	rec := ts.do(t, http.MethodGet, "/customers/autocomplete?term=cust", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []models.CustomerSummary
	testutil.ParseJSONResponse(t, rec, &out)
	assert.Len(t, out, 2)
}

func TestAPI_RecalculateLifetimeValue_BadPersist(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/customers/1/lifetime-value/recalculate?persist=maybe", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_RecalculateLifetimeValue_DryRun(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/customers/1/lifetime-value/recalculate", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var result service.LifetimeValueResult
	testutil.ParseJSONResponse(t, rec, &result)
	assert.False(t, result.Persisted)
}

func TestAPI_UnhandledErrorIsHidden(t *testing.T) {
	ts := newTestServer(t)
	ts.customers.ListFunc = func(ctx context.Context, f repository.ListFilters) ([]*models.Customer, int, error) {
		return nil, 0, errors.New("pq: connection reset")
	}

	rec := ts.do(t, http.MethodGet, "/customers", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, rec))
}

// ==================== Leads and purchases ====================

func TestAPI_CreateLead_RequiresCustomerOrName(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/leads", map[string]interface{}{"status": "Open"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	assert.Zero(t, ts.leads.Calls["Create"])
}

func TestAPI_CreateLead_WithoutCustomer(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/leads", map[string]interface{}{
		"status":                "Open",
		"without_customer":      true,
		"likelihood_to_convert": 35,
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var lead models.Lead
	testutil.ParseJSONResponse(t, rec, &lead)
	assert.Equal(t, models.LeadStageInitialContact, lead.Stage)
}

func TestAPI_CreatePurchase_Publishes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/purchases", map[string]interface{}{
		"customer_id":  1,
		"product_id":   1,
		"quantity":     1,
		"sale_date":    "2024-03-05T00:00:00Z",
		"amount_spent": "19.99",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []int{1}, ts.publisher.Published)
}

// ==================== Internal metrics and dashboard ====================

func TestAPI_UpdateMetric(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/internal/metrics/internal_churn_rate", map[string]interface{}{"value": 0.3})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var m models.InternalMetrics
	testutil.ParseJSONResponse(t, rec, &m)
	assert.Equal(t, "0.3", m.InternalChurnRate.Decimal.String())
}

func TestAPI_UpdateMetric_UnknownKey(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/internal/metrics/favourite_colour", map[string]interface{}{"value": "blue"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestAPI_Dashboard(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/dashboard?limit=3&lead_page=2", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rec, &body)
	summary := body["internal_metrics"].(map[string]interface{})
	assert.Equal(t, "N/A", summary["current_growth_rate"])
	assert.Equal(t, "0", summary["projected_revenue"])
	assert.Equal(t, "N/A", summary["churn_rate"])
}

// ==================== Identity ====================

func TestAPI_SignupThenAccount(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = ts.do(t, http.MethodGet, "/account", nil, cookies...)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_Account_RequiresSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/account", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Login(t *testing.T) {
	ts := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	ts.users.GetByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return testutil.NewTestUser(string(hash)), nil
	}

	rec := ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "ada", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))

	rec = ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "ada", "password": "correct horse"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestAPI_Login_RateLimited(t *testing.T) {
	ts := newTestServer(t)

	var last int
	for i := 0; i < 4; i++ {
		last = ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "ada", "password": "x"}).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

// ==================== Health ====================

func TestAPI_Health(t *testing.T) {
	ts := newTestServer(t)
	ts.dbMock.ExpectPing()

	rec := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var status service.HealthStatus
	testutil.ParseJSONResponse(t, rec, &status)
	assert.Equal(t, service.StatusHealthy, status.Status)
}

func TestAPI_Health_DatabaseDown(t *testing.T) {
	ts := newTestServer(t)
	ts.dbMock.ExpectPing().WillReturnError(errors.New("refused"))

	rec := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPatch, "/customers/1", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
