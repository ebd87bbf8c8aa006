package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RileyK05/basic-crm/internal/models"
)

const internalMetricsColumns = `id, current_revenue, projected_revenue, past_growth_rate, current_growth_rate,
	projected_growth, total_customers, average_length_of_customer, internal_churn_rate,
	average_cost_to_acquire, average_revenue_per_customer, industry_growth_rate, average_lifetime_value`

type internalMetricsRepository struct {
	db *sql.DB
}

// NewInternalMetricsRepository creates a new internal metrics repository
func NewInternalMetricsRepository(db *sql.DB) InternalMetricsRepository {
	return &internalMetricsRepository{db: db}
}

func scanInternalMetrics(s scanner) (*models.InternalMetrics, error) {
	m := &models.InternalMetrics{}
	err := s.Scan(
		&m.ID,
		&m.CurrentRevenue,
		&m.ProjectedRevenue,
		&m.PastGrowthRate,
		&m.CurrentGrowthRate,
		&m.ProjectedGrowth,
		&m.TotalCustomers,
		&m.AverageLengthOfCustomer,
		&m.InternalChurnRate,
		&m.AverageCostToAcquire,
		&m.AverageRevenuePerCustomer,
		&m.IndustryGrowthRate,
		&m.AverageLifetimeValue,
	)
	return m, err
}

func (r *internalMetricsRepository) values(metrics *models.InternalMetrics) []interface{} {
	return []interface{}{
		metrics.CurrentRevenue,
		metrics.ProjectedRevenue,
		metrics.PastGrowthRate,
		metrics.CurrentGrowthRate,
		metrics.ProjectedGrowth,
		metrics.TotalCustomers,
		metrics.AverageLengthOfCustomer,
		metrics.InternalChurnRate,
		metrics.AverageCostToAcquire,
		metrics.AverageRevenuePerCustomer,
		metrics.IndustryGrowthRate,
		metrics.AverageLifetimeValue,
	}
}

func (r *internalMetricsRepository) Create(ctx context.Context, metrics *models.InternalMetrics) error {
	query := `
		INSERT INTO internal_metrics (current_revenue, projected_revenue, past_growth_rate, current_growth_rate,
			projected_growth, total_customers, average_length_of_customer, internal_churn_rate,
			average_cost_to_acquire, average_revenue_per_customer, industry_growth_rate, average_lifetime_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, r.values(metrics)...).Scan(&metrics.ID); err != nil {
		return fmt.Errorf("failed to create internal metrics: %w", translateError(err))
	}
	return nil
}

// GetFirst returns the lowest-id metrics row, which acts as the singleton
func (r *internalMetricsRepository) GetFirst(ctx context.Context) (*models.InternalMetrics, error) {
	query := `SELECT ` + internalMetricsColumns + ` FROM internal_metrics ORDER BY id LIMIT 1`

	metrics, err := scanInternalMetrics(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("internal metrics: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get internal metrics: %w", err)
	}
	return metrics, nil
}

func (r *internalMetricsRepository) ListAll(ctx context.Context) ([]*models.InternalMetrics, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+internalMetricsColumns+` FROM internal_metrics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list internal metrics: %w", err)
	}
	defer rows.Close()

	all := []*models.InternalMetrics{}
	for rows.Next() {
		metrics, err := scanInternalMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan internal metrics: %w", err)
		}
		all = append(all, metrics)
	}
	return all, rows.Err()
}

func (r *internalMetricsRepository) Update(ctx context.Context, metrics *models.InternalMetrics) error {
	query := `
		UPDATE internal_metrics
		SET current_revenue = $1, projected_revenue = $2, past_growth_rate = $3, current_growth_rate = $4,
			projected_growth = $5, total_customers = $6, average_length_of_customer = $7,
			internal_churn_rate = $8, average_cost_to_acquire = $9, average_revenue_per_customer = $10,
			industry_growth_rate = $11, average_lifetime_value = $12
		WHERE id = $13
	`
	args := append(r.values(metrics), metrics.ID)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update internal metrics: %w", translateError(err))
	}
	return expectAffected(result, fmt.Sprintf("internal metrics %d", metrics.ID))
}
