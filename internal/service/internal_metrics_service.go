package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/analytics"
	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

// InternalMetricsService manages the company metrics singleton
type InternalMetricsService struct {
	metricsRepo       repository.InternalMetricsRepository
	lifetimeValueRepo repository.LifetimeValueRepository
	logger            *zap.Logger
}

// NewInternalMetricsService creates a new internal metrics service
func NewInternalMetricsService(
	metricsRepo repository.InternalMetricsRepository,
	lifetimeValueRepo repository.LifetimeValueRepository,
	logger *zap.Logger,
) *InternalMetricsService {
	return &InternalMetricsService{
		metricsRepo:       metricsRepo,
		lifetimeValueRepo: lifetimeValueRepo,
		logger:            logger,
	}
}

// InternalMetricsRequest replaces every editable metric at once
type InternalMetricsRequest struct {
	CurrentRevenue            decimal.NullDecimal `json:"current_revenue"`
	ProjectedRevenue          decimal.NullDecimal `json:"projected_revenue"`
	PastGrowthRate            decimal.NullDecimal `json:"past_growth_rate"`
	CurrentGrowthRate         decimal.NullDecimal `json:"current_growth_rate"`
	ProjectedGrowth           decimal.NullDecimal `json:"projected_growth"`
	TotalCustomers            *int                `json:"total_customers"`
	AverageLengthOfCustomer   decimal.NullDecimal `json:"average_length_of_customer"`
	InternalChurnRate         decimal.NullDecimal `json:"internal_churn_rate"`
	AverageCostToAcquire      decimal.NullDecimal `json:"average_cost_to_acquire"`
	AverageRevenuePerCustomer decimal.NullDecimal `json:"average_revenue_per_customer"`
	IndustryGrowthRate        decimal.NullDecimal `json:"industry_growth_rate"`
	AverageLifetimeValue      decimal.NullDecimal `json:"average_lifetime_value"`
}

func (r *InternalMetricsRequest) apply(m *models.InternalMetrics) {
	m.CurrentRevenue = r.CurrentRevenue
	m.ProjectedRevenue = r.ProjectedRevenue
	m.PastGrowthRate = r.PastGrowthRate
	m.CurrentGrowthRate = r.CurrentGrowthRate
	m.ProjectedGrowth = r.ProjectedGrowth
	m.TotalCustomers = r.TotalCustomers
	m.AverageLengthOfCustomer = r.AverageLengthOfCustomer
	m.InternalChurnRate = r.InternalChurnRate
	m.AverageCostToAcquire = r.AverageCostToAcquire
	m.AverageRevenuePerCustomer = r.AverageRevenuePerCustomer
	m.IndustryGrowthRate = r.IndustryGrowthRate
	m.AverageLifetimeValue = r.AverageLifetimeValue
}

// GetMetrics returns the metrics singleton, creating it on first access
func (s *InternalMetricsService) GetMetrics(ctx context.Context) (*models.InternalMetrics, error) {
	metrics, err := s.metricsRepo.GetFirst(ctx)
	if err == nil {
		return metrics, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get internal metrics: %w", err)
	}

	metrics = &models.InternalMetrics{}
	if err := s.metricsRepo.Create(ctx, metrics); err != nil {
		return nil, writeError(err, "internal metrics", 0, "create")
	}
	s.logger.Info("Internal metrics row created", zap.Int("id", metrics.ID))
	return metrics, nil
}

func (s *InternalMetricsService) save(ctx context.Context, metrics *models.InternalMetrics) (*models.InternalMetrics, error) {
	if err := s.metricsRepo.Update(ctx, metrics); err != nil {
		return nil, writeError(err, "internal metrics", metrics.ID, "update")
	}
	return metrics, nil
}

// UpdateMetrics replaces every editable metric
func (s *InternalMetricsService) UpdateMetrics(ctx context.Context, req *InternalMetricsRequest) (*models.InternalMetrics, error) {
	metrics, err := s.GetMetrics(ctx)
	if err != nil {
		return nil, err
	}
	req.apply(metrics)
	return s.save(ctx, metrics)
}

// UpdateMetric sets one named metric from its textual value. A nil value
// clears it.
func (s *InternalMetricsService) UpdateMetric(ctx context.Context, rawKey string, value *string) (*models.InternalMetrics, error) {
	key, err := models.ParseMetricKey(rawKey)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	metrics, err := s.GetMetrics(ctx)
	if err != nil {
		return nil, err
	}
	if err := metrics.SetMetric(key, value); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return s.save(ctx, metrics)
}

// UpdateAverageLifetimeValue stores an explicit average lifetime value
func (s *InternalMetricsService) UpdateAverageLifetimeValue(ctx context.Context, value decimal.NullDecimal) (*models.InternalMetrics, error) {
	metrics, err := s.GetMetrics(ctx)
	if err != nil {
		return nil, err
	}
	metrics.AverageLifetimeValue = value
	return s.save(ctx, metrics)
}

// RecalculateAverageLifetimeValue averages every stored lifetime value and
// saves the result on the singleton
func (s *InternalMetricsService) RecalculateAverageLifetimeValue(ctx context.Context) (*models.InternalMetrics, error) {
	rows, err := s.lifetimeValueRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lifetime values: %w", err)
	}

	metrics, err := s.GetMetrics(ctx)
	if err != nil {
		return nil, err
	}
	avg := analytics.AverageLifetimeValue(derefAll(rows))
	metrics.AverageLifetimeValue = decimal.NewNullDecimal(avg.Round(2))

	s.logger.Info("Average lifetime value recalculated", zap.String("value", avg.String()), zap.Int("rows", len(rows)))
	return s.save(ctx, metrics)
}
