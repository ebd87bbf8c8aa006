package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a customer in the system
type Customer struct {
	ID        int                 `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	Email     string              `json:"email" db:"email"`
	Phone     *string             `json:"phone,omitempty" db:"phone"`
	Industry  *string             `json:"industry,omitempty" db:"industry"`
	Company   *string             `json:"company,omitempty" db:"company"`
	Education *string             `json:"education,omitempty" db:"education"`
	Income    decimal.NullDecimal `json:"income" db:"income"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}

// CustomerSummary is the compact form returned by autocomplete lookups
type CustomerSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the autocomplete representation of the customer
func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.ID, Name: c.Name, Email: c.Email}
}

// Note is a free-form description attached to a customer
type Note struct {
	ID          int    `json:"id" db:"id"`
	CustomerID  int    `json:"customer_id" db:"customer_id"`
	Description string `json:"description" db:"description"`
}
