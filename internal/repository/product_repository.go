package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RileyK05/basic-crm/internal/models"
)

var productCascade = []cascadeRule{
	{table: "purchases", column: "product_id"},
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(s scanner) (*models.Product, error) {
	product := &models.Product{}
	err := s.Scan(&product.ID, &product.Name, &product.Description, &product.Price)
	return product, err
}

// Create creates a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `INSERT INTO products (name, description, price) VALUES ($1, $2, $3) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, product.Name, product.Description, product.Price).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, price FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// List retrieves products whose name matches the search
func (r *productRepository) List(ctx context.Context, filters ListFilters) ([]*models.Product, int, error) {
	q := &listQuery{}
	q.search(filters.Search, "name")

	query, args := q.page(`SELECT id, name, description, price FROM products`, "id DESC", filters)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs := q.count("FROM products")
	total, err := countRows(ctx, r.db, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return products, total, nil
}

// Update updates a product
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3 WHERE id = $4`,
		product.Name, product.Description, product.Price, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", translateError(err))
	}
	return expectAffected(result, fmt.Sprintf("product %d", product.ID))
}

// Delete deletes a product and every purchase of it
func (r *productRepository) Delete(ctx context.Context, id int) error {
	return deleteCascade(ctx, r.db, fmt.Sprintf("product %d", id), "products", id, productCascade)
}

// Count returns the number of products
func (r *productRepository) Count(ctx context.Context) (int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM products`)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}
