package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RileyK05/basic-crm/internal/models"
)

type lifetimeValueRepository struct {
	db *sql.DB
}

// NewLifetimeValueRepository creates a new lifetime value repository
func NewLifetimeValueRepository(db *sql.DB) LifetimeValueRepository {
	return &lifetimeValueRepository{db: db}
}

func scanLifetimeValue(s scanner) (*models.LifetimeValue, error) {
	ltv := &models.LifetimeValue{}
	err := s.Scan(&ltv.ID, &ltv.CustomerID, &ltv.LifetimeValue, &ltv.CostToAcquire, &ltv.WorthAcquisitionCost)
	return ltv, err
}

func (r *lifetimeValueRepository) Create(ctx context.Context, ltv *models.LifetimeValue) error {
	query := `
		INSERT INTO lifetime_values (customer_id, lifetime_value, cost_to_acquire_customer, worth_acquisition_cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		ltv.CustomerID, ltv.LifetimeValue, ltv.CostToAcquire, ltv.WorthAcquisitionCost,
	).Scan(&ltv.ID)
	if err != nil {
		return fmt.Errorf("failed to create lifetime value: %w", translateError(err))
	}
	return nil
}

// GetByCustomerID returns the customer's first lifetime value row
func (r *lifetimeValueRepository) GetByCustomerID(ctx context.Context, customerID int) (*models.LifetimeValue, error) {
	query := `
		SELECT id, customer_id, lifetime_value, cost_to_acquire_customer, worth_acquisition_cost
		FROM lifetime_values
		WHERE customer_id = $1
		ORDER BY id
		LIMIT 1
	`
	ltv, err := scanLifetimeValue(r.db.QueryRowContext(ctx, query, customerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lifetime value for customer %d: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lifetime value: %w", err)
	}
	return ltv, nil
}

func (r *lifetimeValueRepository) ListAll(ctx context.Context) ([]*models.LifetimeValue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, lifetime_value, cost_to_acquire_customer, worth_acquisition_cost
		FROM lifetime_values
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lifetime values: %w", err)
	}
	defer rows.Close()

	values := []*models.LifetimeValue{}
	for rows.Next() {
		ltv, err := scanLifetimeValue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lifetime value: %w", err)
		}
		values = append(values, ltv)
	}
	return values, rows.Err()
}

func (r *lifetimeValueRepository) Update(ctx context.Context, ltv *models.LifetimeValue) error {
	query := `
		UPDATE lifetime_values
		SET lifetime_value = $1, cost_to_acquire_customer = $2, worth_acquisition_cost = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, ltv.LifetimeValue, ltv.CostToAcquire, ltv.WorthAcquisitionCost, ltv.ID)
	if err != nil {
		return fmt.Errorf("failed to update lifetime value: %w", translateError(err))
	}
	return expectAffected(result, fmt.Sprintf("lifetime value %d", ltv.ID))
}
