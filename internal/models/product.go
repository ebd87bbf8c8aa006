package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item
type Product struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// Purchase records a customer buying a product
type Purchase struct {
	ID          int             `json:"id" db:"id"`
	CustomerID  int             `json:"customer_id" db:"customer_id"`
	ProductID   int             `json:"product_id" db:"product_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	SaleDate    time.Time       `json:"sale_date" db:"sale_date"`
	AmountSpent decimal.Decimal `json:"amount_spent" db:"amount_spent"`

	// Joined for display, never written
	CustomerName string `json:"customer_name,omitempty" db:"customer_name"`
	ProductName  string `json:"product_name,omitempty" db:"product_name"`
}
