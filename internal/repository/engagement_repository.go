package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RileyK05/basic-crm/internal/models"
)

const engagementFrom = `FROM engagements e JOIN customers c ON c.id = e.customer_id`

const engagementSelect = `
	SELECT e.id, e.customer_id, e.level_of_engagement, e.type_of_engagement, e.engagement_date, c.name
	` + engagementFrom

type engagementRepository struct {
	db *sql.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *sql.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func scanEngagement(s scanner) (*models.Engagement, error) {
	e := &models.Engagement{}
	err := s.Scan(&e.ID, &e.CustomerID, &e.Level, &e.Type, &e.EngagedAt, &e.CustomerName)
	return e, err
}

func collectEngagements(rows *sql.Rows) ([]*models.Engagement, error) {
	defer rows.Close()

	engagements := []*models.Engagement{}
	for rows.Next() {
		e, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		engagements = append(engagements, e)
	}
	return engagements, rows.Err()
}

// Create creates a new engagement
func (r *engagementRepository) Create(ctx context.Context, e *models.Engagement) error {
	query := `
		INSERT INTO engagements (customer_id, level_of_engagement, type_of_engagement, engagement_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, e.CustomerID, e.Level, e.Type, e.EngagedAt).Scan(&e.ID); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	return nil
}

// GetByID retrieves an engagement by ID
func (r *engagementRepository) GetByID(ctx context.Context, id int) (*models.Engagement, error) {
	e, err := scanEngagement(r.db.QueryRowContext(ctx, engagementSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("engagement %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}
	return e, nil
}

// List retrieves engagements matching the search on customer name or type
func (r *engagementRepository) List(ctx context.Context, filters ListFilters) ([]*models.Engagement, int, error) {
	q := &listQuery{}
	q.search(filters.Search, "c.name", "e.type_of_engagement")

	query, args := q.page(engagementSelect, "e.id DESC", filters)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list engagements: %w", err)
	}
	engagements, err := collectEngagements(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs := q.count(engagementFrom)
	total, err := countRows(ctx, r.db, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count engagements: %w", err)
	}
	return engagements, total, nil
}

// ListByCustomer returns every engagement with a customer
func (r *engagementRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Engagement, error) {
	rows, err := r.db.QueryContext(ctx, engagementSelect+` WHERE e.customer_id = $1 ORDER BY e.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer engagements: %w", err)
	}
	return collectEngagements(rows)
}

// Update updates an engagement
func (r *engagementRepository) Update(ctx context.Context, e *models.Engagement) error {
	query := `
		UPDATE engagements
		SET customer_id = $1, level_of_engagement = $2, type_of_engagement = $3, engagement_date = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, e.CustomerID, e.Level, e.Type, e.EngagedAt, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update engagement: %w", err)
	}
	return expectAffected(result, fmt.Sprintf("engagement %d", e.ID))
}

// Delete deletes an engagement
func (r *engagementRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM engagements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}
	return expectAffected(result, fmt.Sprintf("engagement %d", id))
}

// Count returns the number of engagements
func (r *engagementRepository) Count(ctx context.Context) (int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM engagements`)
	if err != nil {
		return 0, fmt.Errorf("failed to count engagements: %w", err)
	}
	return total, nil
}

// CountByType groups engagements by channel
func (r *engagementRepository) CountByType(ctx context.Context) ([]TypeCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type_of_engagement, COUNT(*) FROM engagements GROUP BY type_of_engagement ORDER BY type_of_engagement`)
	if err != nil {
		return nil, fmt.Errorf("failed to count engagements by type: %w", err)
	}
	defer rows.Close()

	counts := []TypeCount{}
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}
