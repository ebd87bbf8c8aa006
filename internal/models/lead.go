package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LeadStage represents the pipeline position of a lead
type LeadStage string

const (
	LeadStageInitialContact LeadStage = "Initial Contact"
	LeadStageQualified      LeadStage = "Qualified"
	LeadStageNegotiation    LeadStage = "Negotiation"
	LeadStageWon            LeadStage = "Won"
	LeadStageLost           LeadStage = "Lost"
)

// LeadStages lists every stage in pipeline order
var LeadStages = []LeadStage{
	LeadStageInitialContact,
	LeadStageQualified,
	LeadStageNegotiation,
	LeadStageWon,
	LeadStageLost,
}

// IsValid reports whether s is a known stage
func (s LeadStage) IsValid() bool {
	for _, stage := range LeadStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Lead represents a prospective sale, optionally linked to an existing customer
type Lead struct {
	ID                  int             `json:"id" db:"id"`
	CustomerID          *int            `json:"customer_id,omitempty" db:"customer_id"`
	Name                *string         `json:"name,omitempty" db:"name"`
	Email               *string         `json:"email,omitempty" db:"email"`
	Phone               *string         `json:"phone,omitempty" db:"phone"`
	Company             *string         `json:"company,omitempty" db:"company"`
	Status              string          `json:"status" db:"status"`
	LikelihoodToConvert decimal.Decimal `json:"likelihood_to_convert" db:"likelihood_to_convert"`
	Stage               LeadStage       `json:"lead_stage" db:"lead_stage"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`

	// Joined from customers, never written
	CustomerName *string `json:"customer_name,omitempty" db:"customer_name"`
}

// DisplayName returns a human readable label for the lead
func (l *Lead) DisplayName() string {
	if l.CustomerName != nil && *l.CustomerName != "" {
		return fmt.Sprintf("Lead for %s - %s", *l.CustomerName, l.Stage)
	}
	name := "Unnamed"
	if l.Name != nil && *l.Name != "" {
		name = *l.Name
	}
	return fmt.Sprintf("Lead: %s - %s", name, l.Stage)
}
