package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/analytics"
	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

// AnalyticsService loads records and feeds them to the metrics engine
type AnalyticsService struct {
	customerRepo      repository.CustomerRepository
	purchaseRepo      repository.PurchaseRepository
	engagementRepo    repository.EngagementRepository
	lifetimeValueRepo repository.LifetimeValueRepository
	metricsRepo       repository.InternalMetricsRepository
	logger            *zap.Logger
	now               func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	customerRepo repository.CustomerRepository,
	purchaseRepo repository.PurchaseRepository,
	engagementRepo repository.EngagementRepository,
	lifetimeValueRepo repository.LifetimeValueRepository,
	metricsRepo repository.InternalMetricsRepository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		customerRepo:      customerRepo,
		purchaseRepo:      purchaseRepo,
		engagementRepo:    engagementRepo,
		lifetimeValueRepo: lifetimeValueRepo,
		metricsRepo:       metricsRepo,
		logger:            logger,
		now:               time.Now,
	}
}

// CustomerMetrics are the derived figures shown on a customer's detail view
type CustomerMetrics struct {
	TotalRevenue    decimal.Decimal           `json:"total_revenue"`
	ChurnLikelihood analytics.ChurnLikelihood `json:"churn_likelihood"`
	LifetimeValue   decimal.Decimal           `json:"lifetime_value"`
}

// LifetimeValueResult is the outcome of a lifetime value recalculation
type LifetimeValueResult struct {
	CustomerID           int                 `json:"customer_id"`
	LifetimeValue        decimal.Decimal     `json:"lifetime_value"`
	WorthAcquisitionCost decimal.NullDecimal `json:"worth_acquisition_cost"`
	Persisted            bool                `json:"persisted"`
	Snapshot             analytics.Snapshot  `json:"snapshot"`
}

// LifetimeValueRequest edits a customer's stored lifetime value row
type LifetimeValueRequest struct {
	LifetimeValue decimal.NullDecimal `json:"lifetime_value"`
	CostToAcquire decimal.NullDecimal `json:"cost_to_acquire_customer"`
}

// Snapshot gathers the company-wide churn rate and average customer tenure
func (s *AnalyticsService) Snapshot(ctx context.Context) (analytics.Snapshot, error) {
	rows, err := s.metricsRepo.ListAll(ctx)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("failed to load internal metrics: %w", err)
	}
	dates, err := s.customerRepo.CreatedDates(ctx)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("failed to load customer dates: %w", err)
	}

	return analytics.NewSnapshot(derefAll(rows), dates, s.now()), nil
}

func (s *AnalyticsService) requireCustomer(ctx context.Context, customerID int) error {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return lookupError(err, "customer", customerID)
	}
	return nil
}

func (s *AnalyticsService) customerPurchases(ctx context.Context, customerID int) ([]models.Purchase, error) {
	rows, err := s.purchaseRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return derefAll(rows), nil
}

// CustomerMetrics computes revenue, churn likelihood and lifetime value for a
// customer. Nothing is written back.
func (s *AnalyticsService) CustomerMetrics(ctx context.Context, customerID int) (*CustomerMetrics, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	purchases, err := s.customerPurchases(ctx, customerID)
	if err != nil {
		return nil, err
	}

	engagements, err := s.engagementRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagements: %w", err)
	}

	ltv := decimal.Zero
	_, err = s.lifetimeValueRepo.GetByCustomerID(ctx, customerID)
	switch {
	case err == nil:
		ltv = analytics.LifetimeValue(purchases, snap)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to load lifetime value: %w", err)
	}

	return &CustomerMetrics{
		TotalRevenue:    analytics.TotalRevenue(purchases),
		ChurnLikelihood: analytics.CustomerChurnLikelihood(derefAll(engagements), snap),
		LifetimeValue:   ltv,
	}, nil
}

// ProductRevenue sums every purchase of a product
func (s *AnalyticsService) ProductRevenue(ctx context.Context, productID int) (decimal.Decimal, error) {
	rows, err := s.purchaseRepo.ListByProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load purchases: %w", err)
	}
	return analytics.TotalRevenue(derefAll(rows)), nil
}

// GetOrCreateLifetimeValue returns the customer's lifetime value row, creating
// an empty one on first access.
func (s *AnalyticsService) GetOrCreateLifetimeValue(ctx context.Context, customerID int) (*models.LifetimeValue, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.getOrCreateLifetimeValue(ctx, customerID)
}

func (s *AnalyticsService) getOrCreateLifetimeValue(ctx context.Context, customerID int) (*models.LifetimeValue, error) {
	row, err := s.lifetimeValueRepo.GetByCustomerID(ctx, customerID)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get lifetime value: %w", err)
	}

	row = &models.LifetimeValue{CustomerID: customerID}
	if err := s.lifetimeValueRepo.Create(ctx, row); err != nil {
		return nil, writeError(err, "lifetime value", 0, "create")
	}
	return row, nil
}

// UpdateLifetimeValue stores edited figures and refreshes the worth of
// acquisition from them
func (s *AnalyticsService) UpdateLifetimeValue(ctx context.Context, customerID int, req *LifetimeValueRequest) (*models.LifetimeValue, error) {
	if req.CostToAcquire.Valid && req.CostToAcquire.Decimal.IsNegative() {
		return nil, &ValidationError{Message: "cost_to_acquire_customer must be at least 0"}
	}

	row, err := s.GetOrCreateLifetimeValue(ctx, customerID)
	if err != nil {
		return nil, err
	}

	row.LifetimeValue = req.LifetimeValue
	row.CostToAcquire = req.CostToAcquire
	row.WorthAcquisitionCost = analytics.WorthOfAcquisition(*row)

	if err := s.lifetimeValueRepo.Update(ctx, row); err != nil {
		return nil, writeError(err, "lifetime value", row.ID, "update")
	}
	return row, nil
}

// RecalculateLifetimeValue computes the customer's lifetime value and worth of
// acquisition. The row is only written when persist is true.
func (s *AnalyticsService) RecalculateLifetimeValue(ctx context.Context, customerID int, persist bool) (*LifetimeValueResult, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.customerPurchases(ctx, customerID)
	if err != nil {
		return nil, err
	}
	ltv := analytics.LifetimeValue(purchases, snap)

	var row *models.LifetimeValue
	if persist {
		row, err = s.getOrCreateLifetimeValue(ctx, customerID)
	} else {
		row, err = s.lifetimeValueRepo.GetByCustomerID(ctx, customerID)
		if errors.Is(err, repository.ErrNotFound) {
			row, err = &models.LifetimeValue{CustomerID: customerID}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lifetime value: %w", err)
	}

	row.LifetimeValue = decimal.NewNullDecimal(ltv)
	row.WorthAcquisitionCost = analytics.WorthOfAcquisition(*row)

	if persist {
		if err := s.lifetimeValueRepo.Update(ctx, row); err != nil {
			return nil, writeError(err, "lifetime value", row.ID, "update")
		}
		s.logger.Info("Lifetime value recalculated",
			zap.Int("customer_id", customerID),
			zap.String("lifetime_value", ltv.String()),
		)
	}

	return &LifetimeValueResult{
		CustomerID:           customerID,
		LifetimeValue:        ltv,
		WorthAcquisitionCost: row.WorthAcquisitionCost,
		Persisted:            persist,
		Snapshot:             snap,
	}, nil
}

func derefAll[T any](rows []*T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out
}
