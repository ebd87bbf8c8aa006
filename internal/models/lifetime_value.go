package models

import "github.com/shopspring/decimal"

// LifetimeValue stores the computed worth of a customer and the cost of
// acquiring them. A customer is expected to have at most one row; when several
// exist the first one is used.
type LifetimeValue struct {
	ID                   int                 `json:"id" db:"id"`
	CustomerID           int                 `json:"customer_id" db:"customer_id"`
	LifetimeValue        decimal.NullDecimal `json:"lifetime_value" db:"lifetime_value"`
	CostToAcquire        decimal.NullDecimal `json:"cost_to_acquire_customer" db:"cost_to_acquire_customer"`
	WorthAcquisitionCost decimal.NullDecimal `json:"worth_acquisition_cost" db:"worth_acquisition_cost"`
}
