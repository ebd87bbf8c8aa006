package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/RileyK05/basic-crm/internal/models"
)

const purchaseSelect = `
	SELECT p.id, p.customer_id, p.product_id, p.quantity, p.sale_date, p.amount_spent, c.name, pr.name
	FROM purchases p
	JOIN customers c ON c.id = p.customer_id
	JOIN products pr ON pr.id = p.product_id`

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *sql.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func scanPurchase(s scanner) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := s.Scan(&p.ID, &p.CustomerID, &p.ProductID, &p.Quantity, &p.SaleDate, &p.AmountSpent, &p.CustomerName, &p.ProductName)
	return p, err
}

func collectPurchases(rows *sql.Rows) ([]*models.Purchase, error) {
	defer rows.Close()

	purchases := []*models.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// Create creates a new purchase
func (r *purchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	query := `
		INSERT INTO purchases (customer_id, product_id, quantity, sale_date, amount_spent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, p.CustomerID, p.ProductID, p.Quantity, p.SaleDate, p.AmountSpent).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a purchase by ID
func (r *purchaseRepository) GetByID(ctx context.Context, id int) (*models.Purchase, error) {
	p, err := scanPurchase(r.db.QueryRowContext(ctx, purchaseSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchase %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return p, nil
}

// List retrieves purchases matching the search on customer or product name
func (r *purchaseRepository) List(ctx context.Context, filters ListFilters) ([]*models.Purchase, int, error) {
	q := &listQuery{}
	q.search(filters.Search, "c.name", "pr.name")

	query, args := q.page(purchaseSelect, "p.id DESC", filters)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}
	purchases, err := collectPurchases(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs := q.count(`FROM purchases p
	JOIN customers c ON c.id = p.customer_id
	JOIN products pr ON pr.id = p.product_id`)
	total, err := countRows(ctx, r.db, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return purchases, total, nil
}

// ListByCustomer returns every purchase made by a customer
func (r *purchaseRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, purchaseSelect+` WHERE p.customer_id = $1 ORDER BY p.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer purchases: %w", err)
	}
	return collectPurchases(rows)
}

// ListByProduct returns every purchase of a product
func (r *purchaseRepository) ListByProduct(ctx context.Context, productID int) ([]*models.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, purchaseSelect+` WHERE p.product_id = $1 ORDER BY p.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product purchases: %w", err)
	}
	return collectPurchases(rows)
}

// Update updates a purchase
func (r *purchaseRepository) Update(ctx context.Context, p *models.Purchase) error {
	query := `
		UPDATE purchases
		SET customer_id = $1, product_id = $2, quantity = $3, sale_date = $4, amount_spent = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query, p.CustomerID, p.ProductID, p.Quantity, p.SaleDate, p.AmountSpent, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", translateError(err))
	}
	return expectAffected(result, fmt.Sprintf("purchase %d", p.ID))
}

// Delete deletes a purchase
func (r *purchaseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	return expectAffected(result, fmt.Sprintf("purchase %d", id))
}

// Count returns the number of purchases
func (r *purchaseRepository) Count(ctx context.Context) (int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM purchases`)
	if err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return total, nil
}

// SumAmount returns the total spent across every purchase
func (r *purchaseRepository) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount_spent), 0) FROM purchases`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum purchases: %w", err)
	}
	return total, nil
}
