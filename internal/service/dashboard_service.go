package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

const (
	// DefaultDashboardLimit is the top-N size when none is requested
	DefaultDashboardLimit = 5
	// MaxDashboardLimit caps the top-N size
	MaxDashboardLimit = 50

	notAvailable = "N/A"
)

// JSONCache stores JSON-encodable values by key
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
}

// DashboardQuery carries the top-N limit and independent search and page for
// each embedded list
type DashboardQuery struct {
	Limit       int
	Customers   ListQuery
	Leads       ListQuery
	Products    ListQuery
	Engagements ListQuery
}

func (q DashboardQuery) cacheKey() string {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	for name, lq := range map[string]ListQuery{
		"customer":   q.Customers,
		"lead":       q.Leads,
		"product":    q.Products,
		"engagement": q.Engagements,
	} {
		v.Set(name+"_search", lq.Search)
		v.Set(name+"_page", strconv.Itoa(lq.Page))
	}
	return "dashboard:" + v.Encode()
}

// RecordCounts holds the number of rows per entity
type RecordCounts struct {
	Customers   int `json:"customers"`
	Leads       int `json:"leads"`
	Products    int `json:"products"`
	Engagements int `json:"engagements"`
	Purchases   int `json:"purchases"`
}

// MetricsSummary is the dashboard's view of the company metrics. Unset
// figures show as "N/A", except churn rate which shows 0.
type MetricsSummary struct {
	CurrentGrowthRate interface{}     `json:"current_growth_rate"`
	ProjectedRevenue  decimal.Decimal `json:"projected_revenue"`
	ChurnRate         interface{}     `json:"churn_rate"`
}

// Page is one page of a list embedded in the dashboard
type Page[T any] struct {
	Items      []T             `json:"items"`
	Pagination *PaginationInfo `json:"pagination"`
}

// Dashboard aggregates counts, rankings and the first page of each list
type Dashboard struct {
	TopCustomers      []*repository.CustomerRevenue `json:"top_customers"`
	TopLeads          []*models.Lead                `json:"top_leads"`
	EngagementsByType []repository.TypeCount        `json:"engagements_by_type"`
	LeadsByStage      []repository.StageCount       `json:"leads_by_stage"`
	Counts            RecordCounts                  `json:"counts"`
	TotalRevenue      decimal.Decimal               `json:"total_revenue"`
	InternalMetrics   MetricsSummary                `json:"internal_metrics"`
	Customers         Page[*models.Customer]        `json:"customers"`
	Leads             Page[*models.Lead]            `json:"leads"`
	Products          Page[*models.Product]         `json:"products"`
	Engagements       Page[*models.Engagement]      `json:"engagements"`
	GeneratedAt       time.Time                     `json:"generated_at"`
}

// DashboardService builds the dashboard aggregate
type DashboardService struct {
	customerRepo   repository.CustomerRepository
	leadRepo       repository.LeadRepository
	productRepo    repository.ProductRepository
	engagementRepo repository.EngagementRepository
	purchaseRepo   repository.PurchaseRepository
	metricsRepo    repository.InternalMetricsRepository
	customers      *CustomerService
	leads          *LeadService
	products       *ProductService
	engagements    *EngagementService
	cache          JSONCache
	defaultLimit   int
	logger         *zap.Logger
	now            func() time.Time
}

// DashboardDeps groups the collaborators of the dashboard service
type DashboardDeps struct {
	CustomerRepo   repository.CustomerRepository
	LeadRepo       repository.LeadRepository
	ProductRepo    repository.ProductRepository
	EngagementRepo repository.EngagementRepository
	PurchaseRepo   repository.PurchaseRepository
	MetricsRepo    repository.InternalMetricsRepository
	Customers      *CustomerService
	Leads          *LeadService
	Products       *ProductService
	Engagements    *EngagementService
	Cache          JSONCache
	DefaultLimit   int
}

// NewDashboardService creates a new dashboard service. deps.Cache may be nil.
func NewDashboardService(deps DashboardDeps, logger *zap.Logger) *DashboardService {
	limit := deps.DefaultLimit
	if limit <= 0 || limit > MaxDashboardLimit {
		limit = DefaultDashboardLimit
	}
	return &DashboardService{
		customerRepo:   deps.CustomerRepo,
		leadRepo:       deps.LeadRepo,
		productRepo:    deps.ProductRepo,
		engagementRepo: deps.EngagementRepo,
		purchaseRepo:   deps.PurchaseRepo,
		metricsRepo:    deps.MetricsRepo,
		customers:      deps.Customers,
		leads:          deps.Leads,
		products:       deps.Products,
		engagements:    deps.Engagements,
		cache:          deps.Cache,
		defaultLimit:   limit,
		logger:         logger,
		now:            time.Now,
	}
}

// ResolveLimit applies the default and cap to a requested top-N size
func (s *DashboardService) ResolveLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return s.defaultLimit
	}
	if limit > MaxDashboardLimit {
		return MaxDashboardLimit
	}
	return limit
}

// GetDashboard returns the dashboard, served from cache when possible
func (s *DashboardService) GetDashboard(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	if q.Limit < 1 || q.Limit > MaxDashboardLimit {
		q.Limit = s.defaultLimit
	}
	key := q.cacheKey()

	if s.cache != nil {
		var cached Dashboard
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Dashboard cache read failed", zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	dash, err := s.build(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, dash); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return dash, nil
}

func (s *DashboardService) build(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	dash := &Dashboard{GeneratedAt: s.now().UTC()}
	var err error

	if dash.TopCustomers, err = s.customerRepo.TopByRevenue(ctx, q.Limit); err != nil {
		return nil, err
	}
	if dash.TopLeads, err = s.leadRepo.TopByLikelihood(ctx, q.Limit); err != nil {
		return nil, err
	}
	if dash.EngagementsByType, err = s.engagementRepo.CountByType(ctx); err != nil {
		return nil, err
	}
	if dash.LeadsByStage, err = s.leadRepo.CountByStage(ctx); err != nil {
		return nil, err
	}
	if dash.Counts, err = s.counts(ctx); err != nil {
		return nil, err
	}
	if dash.TotalRevenue, err = s.purchaseRepo.SumAmount(ctx); err != nil {
		return nil, err
	}
	if dash.InternalMetrics, err = s.metricsSummary(ctx); err != nil {
		return nil, err
	}

	if dash.Customers.Items, dash.Customers.Pagination, err = s.customers.ListCustomers(ctx, q.Customers); err != nil {
		return nil, err
	}
	if dash.Leads.Items, dash.Leads.Pagination, err = s.leads.ListLeads(ctx, q.Leads); err != nil {
		return nil, err
	}
	if dash.Products.Items, dash.Products.Pagination, err = s.products.ListProducts(ctx, q.Products); err != nil {
		return nil, err
	}
	if dash.Engagements.Items, dash.Engagements.Pagination, err = s.engagements.ListEngagements(ctx, q.Engagements); err != nil {
		return nil, err
	}

	return dash, nil
}

func (s *DashboardService) counts(ctx context.Context) (RecordCounts, error) {
	var c RecordCounts
	for _, step := range []struct {
		name  string
		count func(context.Context) (int, error)
		dest  *int
	}{
		{"customers", s.customerRepo.Count, &c.Customers},
		{"leads", s.leadRepo.Count, &c.Leads},
		{"products", s.productRepo.Count, &c.Products},
		{"engagements", s.engagementRepo.Count, &c.Engagements},
		{"purchases", s.purchaseRepo.Count, &c.Purchases},
	} {
		n, err := step.count(ctx)
		if err != nil {
			return RecordCounts{}, fmt.Errorf("failed to count %s: %w", step.name, err)
		}
		*step.dest = n
	}
	return c, nil
}

func (s *DashboardService) metricsSummary(ctx context.Context) (MetricsSummary, error) {
	summary := MetricsSummary{
		CurrentGrowthRate: notAvailable,
		ProjectedRevenue:  decimal.Zero,
		ChurnRate:         notAvailable,
	}

	metrics, err := s.metricsRepo.GetFirst(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return summary, nil
	}
	if err != nil {
		return MetricsSummary{}, fmt.Errorf("failed to get internal metrics: %w", err)
	}

	if metrics.CurrentGrowthRate.Valid {
		summary.CurrentGrowthRate = metrics.CurrentGrowthRate.Decimal
	}
	if metrics.ProjectedRevenue.Valid {
		summary.ProjectedRevenue = metrics.ProjectedRevenue.Decimal
	}
	if metrics.InternalChurnRate.Valid {
		summary.ChurnRate = metrics.InternalChurnRate.Decimal
	}
	return summary, nil
}
