package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EngagementLevel is the qualitative intensity of an interaction
type EngagementLevel string

const (
	EngagementLevelLow    EngagementLevel = "Low"
	EngagementLevelMedium EngagementLevel = "Medium"
	EngagementLevelHigh   EngagementLevel = "High"
)

var engagementScores = map[EngagementLevel]decimal.Decimal{
	EngagementLevelLow:    decimal.Zero,
	EngagementLevelMedium: decimal.RequireFromString("0.5"),
	EngagementLevelHigh:   decimal.NewFromInt(1),
}

// IsValid reports whether l is a known level
func (l EngagementLevel) IsValid() bool {
	_, ok := engagementScores[l]
	return ok
}

// Score maps the level onto [0, 1]: Low=0, Medium=0.5, High=1.
// Unknown levels score zero.
func (l EngagementLevel) Score() decimal.Decimal {
	return engagementScores[l]
}

// EngagementType is the channel of an interaction
type EngagementType string

const (
	EngagementTypeCall         EngagementType = "Call"
	EngagementTypeEmail        EngagementType = "Email"
	EngagementTypeMeeting      EngagementType = "Meeting"
	EngagementTypeWebsiteVisit EngagementType = "Website Visit"
)

// EngagementTypes lists every engagement type
var EngagementTypes = []EngagementType{
	EngagementTypeCall,
	EngagementTypeEmail,
	EngagementTypeMeeting,
	EngagementTypeWebsiteVisit,
}

// IsValid reports whether t is a known type
func (t EngagementType) IsValid() bool {
	for _, known := range EngagementTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Engagement is a logged interaction with a customer
type Engagement struct {
	ID         int             `json:"id" db:"id"`
	CustomerID int             `json:"customer_id" db:"customer_id"`
	Level      EngagementLevel `json:"level_of_engagement" db:"level_of_engagement"`
	Type       EngagementType  `json:"type_of_engagement" db:"type_of_engagement"`
	EngagedAt  time.Time       `json:"engagement_date" db:"engagement_date"`

	// Joined from customers, never written
	CustomerName string `json:"customer_name,omitempty" db:"customer_name"`
}
