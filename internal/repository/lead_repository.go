package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RileyK05/basic-crm/internal/models"
)

const leadFrom = `FROM leads l LEFT JOIN customers c ON c.id = l.customer_id`

const leadSelect = `
	SELECT l.id, l.customer_id, l.name, l.email, l.phone, l.company, l.status,
	       l.likelihood_to_convert, l.lead_stage, l.created_at, l.updated_at, c.name
	` + leadFrom

type leadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

func scanLead(s scanner) (*models.Lead, error) {
	l := &models.Lead{}
	var customerID sql.NullInt64
	err := s.Scan(
		&l.ID,
		&customerID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Company,
		&l.Status,
		&l.LikelihoodToConvert,
		&l.Stage,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.CustomerName,
	)
	if customerID.Valid {
		id := int(customerID.Int64)
		l.CustomerID = &id
	}
	return l, err
}

func collectLeads(rows *sql.Rows) ([]*models.Lead, error) {
	defer rows.Close()

	leads := []*models.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Create creates a new lead
func (r *leadRepository) Create(ctx context.Context, l *models.Lead) error {
	query := `
		INSERT INTO leads (customer_id, name, email, phone, company, status, likelihood_to_convert, lead_stage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.CustomerID, l.Name, l.Email, l.Phone, l.Company, l.Status, l.LikelihoodToConvert, l.Stage,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a lead by ID
func (r *leadRepository) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	l, err := scanLead(r.db.QueryRowContext(ctx, leadSelect+` WHERE l.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lead %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return l, nil
}

// List retrieves leads matching the search on customer name, lead name or status
func (r *leadRepository) List(ctx context.Context, filters ListFilters) ([]*models.Lead, int, error) {
	q := &listQuery{}
	q.search(filters.Search, "c.name", "l.name", "l.status")

	query, args := q.page(leadSelect, "l.id DESC", filters)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs := q.count(leadFrom)
	total, err := countRows(ctx, r.db, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return leads, total, nil
}

// Update updates a lead and bumps updated_at
func (r *leadRepository) Update(ctx context.Context, l *models.Lead) error {
	query := `
		UPDATE leads
		SET customer_id = $1, name = $2, email = $3, phone = $4, company = $5, status = $6,
		    likelihood_to_convert = $7, lead_stage = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.CustomerID, l.Name, l.Email, l.Phone, l.Company, l.Status, l.LikelihoodToConvert, l.Stage, l.ID,
	).Scan(&l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lead %d: %w", l.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", translateError(err))
	}
	return nil
}

// Delete deletes a lead
func (r *leadRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return expectAffected(result, fmt.Sprintf("lead %d", id))
}

// Count returns the number of leads
func (r *leadRepository) Count(ctx context.Context) (int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM leads`)
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return total, nil
}

// CountByStage groups leads by pipeline stage
func (r *leadRepository) CountByStage(ctx context.Context) ([]StageCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lead_stage, COUNT(*) FROM leads GROUP BY lead_stage ORDER BY lead_stage`)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by stage: %w", err)
	}
	defer rows.Close()

	counts := []StageCount{}
	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan stage count: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// TopByLikelihood returns the leads most likely to convert
func (r *leadRepository) TopByLikelihood(ctx context.Context, limit int) ([]*models.Lead, error) {
	rows, err := r.db.QueryContext(ctx, leadSelect+` ORDER BY l.likelihood_to_convert DESC, l.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank leads: %w", err)
	}
	return collectLeads(rows)
}
