package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/RileyK05/basic-crm/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup that matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is wrapped when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
	// ErrOutOfRange is wrapped when a numeric value does not fit its column
	ErrOutOfRange = errors.New("numeric value out of range")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListFilters is the search and paging input shared by every list operation
type ListFilters struct {
	Search   string
	Page     int
	PageSize int
}

// limitOffset resolves the page into LIMIT and OFFSET values
func (f ListFilters) limitOffset() (int, int) {
	limit := f.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset := (f.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// CustomerRevenue pairs a customer with the sum of their purchases
type CustomerRevenue struct {
	CustomerID   int             `json:"customer_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// CustomerRepository defines customer data access operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Customer, int, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id int) error
	Autocomplete(ctx context.Context, term string, limit int) ([]*models.Customer, error)
	CreatedDates(ctx context.Context) ([]time.Time, error)
	Count(ctx context.Context) (int, error)
	TopByRevenue(ctx context.Context, limit int) ([]*CustomerRevenue, error)
}

// NoteRepository defines customer note data access operations
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id int) (*models.Note, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id int) error
}

// ProductRepository defines product data access operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int) (*models.Product, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Product, int, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// PurchaseRepository defines purchase data access operations
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id int) (*models.Purchase, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Purchase, int, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Purchase, error)
	ListByProduct(ctx context.Context, productID int) ([]*models.Purchase, error)
	Update(ctx context.Context, purchase *models.Purchase) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	SumAmount(ctx context.Context) (decimal.Decimal, error)
}

// StageCount is the number of leads in one pipeline stage
type StageCount struct {
	Stage models.LeadStage `json:"lead_stage"`
	Count int              `json:"count"`
}

// LeadRepository defines lead data access operations
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id int) (*models.Lead, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Lead, int, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountByStage(ctx context.Context) ([]StageCount, error)
	TopByLikelihood(ctx context.Context, limit int) ([]*models.Lead, error)
}

// TypeCount is the number of engagements of one type
type TypeCount struct {
	Type  models.EngagementType `json:"type_of_engagement"`
	Count int                   `json:"count"`
}

// EngagementRepository defines engagement data access operations
type EngagementRepository interface {
	Create(ctx context.Context, engagement *models.Engagement) error
	GetByID(ctx context.Context, id int) (*models.Engagement, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Engagement, int, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Engagement, error)
	Update(ctx context.Context, engagement *models.Engagement) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountByType(ctx context.Context) ([]TypeCount, error)
}

// LifetimeValueRepository defines lifetime value data access operations
type LifetimeValueRepository interface {
	Create(ctx context.Context, ltv *models.LifetimeValue) error
	GetByCustomerID(ctx context.Context, customerID int) (*models.LifetimeValue, error)
	ListAll(ctx context.Context) ([]*models.LifetimeValue, error)
	Update(ctx context.Context, ltv *models.LifetimeValue) error
}

// InternalMetricsRepository defines access to the company metrics rows
type InternalMetricsRepository interface {
	Create(ctx context.Context, metrics *models.InternalMetrics) error
	GetFirst(ctx context.Context) (*models.InternalMetrics, error)
	ListAll(ctx context.Context) ([]*models.InternalMetrics, error)
	Update(ctx context.Context, metrics *models.InternalMetrics) error
}

// UserRepository defines account data access operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// DB is a wrapper around *sql.DB to allow passing in transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// Postgres SQLSTATE codes mapped onto sentinels
const (
	uniqueViolation        = "23505"
	numericValueOutOfRange = "22003"
)

// translateError maps driver errors onto the package sentinels
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return ErrDuplicate
	case numericValueOutOfRange:
		return ErrOutOfRange
	}
	return err
}

// expectAffected returns ErrNotFound when result touched no rows
func expectAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", resource, ErrNotFound)
	}
	return nil
}
