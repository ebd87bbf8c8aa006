package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RileyK05/basic-crm/internal/models"
)

const customerColumns = `id, name, email, phone, industry, company, education, income, created_at`

// customerCascade lists everything owned by a customer
var customerCascade = []cascadeRule{
	{table: "notes", column: "customer_id"},
	{table: "purchases", column: "customer_id"},
	{table: "leads", column: "customer_id"},
	{table: "engagements", column: "customer_id"},
	{table: "lifetime_values", column: "customer_id"},
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func scanCustomer(s scanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := s.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Industry,
		&customer.Company,
		&customer.Education,
		&customer.Income,
		&customer.CreatedAt,
	)
	return customer, err
}

func collectCustomers(rows *sql.Rows) ([]*models.Customer, error) {
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

// Create creates a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, industry, company, education, income)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Industry,
		customer.Company,
		customer.Education,
		customer.Income,
	).Scan(&customer.ID, &customer.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", translateError(err))
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// List retrieves customers matching the search on name, email or phone
func (r *customerRepository) List(ctx context.Context, filters ListFilters) ([]*models.Customer, int, error) {
	q := &listQuery{}
	q.search(filters.Search, "name", "email", "phone")

	query, args := q.page(`SELECT `+customerColumns+` FROM customers`, "id DESC", filters)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	customers, err := collectCustomers(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs := q.count("FROM customers")
	total, err := countRows(ctx, r.db, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return customers, total, nil
}

// Update updates a customer. created_at is never rewritten.
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, industry = $4, company = $5, education = $6, income = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Industry,
		customer.Company,
		customer.Education,
		customer.Income,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", translateError(err))
	}

	return expectAffected(result, fmt.Sprintf("customer %d", customer.ID))
}

// Delete deletes a customer together with its notes, purchases, leads,
// engagements and lifetime values
func (r *customerRepository) Delete(ctx context.Context, id int) error {
	return deleteCascade(ctx, r.db, fmt.Sprintf("customer %d", id), "customers", id, customerCascade)
}

// Autocomplete returns up to limit customers whose name contains term
func (r *customerRepository) Autocomplete(ctx context.Context, term string, limit int) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE name ILIKE $1 ORDER BY name, id LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, likePattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete customers: %w", err)
	}
	return collectCustomers(rows)
}

// CreatedDates returns the creation time of every customer
func (r *customerRepository) CreatedDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT created_at FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer dates: %w", err)
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var created time.Time
		if err := rows.Scan(&created); err != nil {
			return nil, fmt.Errorf("failed to scan customer date: %w", err)
		}
		dates = append(dates, created)
	}
	return dates, rows.Err()
}

// Count returns the number of customers
func (r *customerRepository) Count(ctx context.Context) (int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM customers`)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return total, nil
}

// TopByRevenue returns the customers with the highest purchase totals
func (r *customerRepository) TopByRevenue(ctx context.Context, limit int) ([]*CustomerRevenue, error) {
	query := `
		SELECT c.id, c.name, c.email, COALESCE(SUM(p.amount_spent), 0) AS total_revenue
		FROM customers c
		JOIN purchases p ON p.customer_id = c.id
		GROUP BY c.id, c.name, c.email
		ORDER BY total_revenue DESC, c.id
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}
	defer rows.Close()

	top := []*CustomerRevenue{}
	for rows.Next() {
		cr := &CustomerRevenue{}
		if err := rows.Scan(&cr.CustomerID, &cr.Name, &cr.Email, &cr.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan customer revenue: %w", err)
		}
		top = append(top, cr)
	}
	return top, rows.Err()
}
