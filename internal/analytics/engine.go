// Package analytics computes customer and company metrics from record
// snapshots. Nothing here touches storage: callers load the records and pass
// them in.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RileyK05/basic-crm/internal/models"
)

// NoEngagementMessage is reported instead of a churn figure when a customer
// has never been engaged.
const NoEngagementMessage = "No engagement for customer"

var daysPerYear = decimal.RequireFromString("365.25")

// Snapshot carries the company-wide figures the per-customer calculations
// depend on.
type Snapshot struct {
	ChurnRate          decimal.Decimal `json:"churn_rate"`
	AverageTenureYears decimal.Decimal `json:"average_tenure_years"`
}

// NewSnapshot builds a Snapshot from every InternalMetrics row and every
// customer's creation date.
func NewSnapshot(metrics []models.InternalMetrics, customerCreated []time.Time, now time.Time) Snapshot {
	return Snapshot{
		ChurnRate:          AverageChurnRate(metrics),
		AverageTenureYears: AverageCustomerTenure(customerCreated, now),
	}
}

// ChurnLikelihood is either a numeric likelihood or the no-engagement marker
type ChurnLikelihood struct {
	Value        decimal.Decimal
	NoEngagement bool
}

// MarshalJSON renders the likelihood like any other decimal, or as
// NoEngagementMessage
func (c ChurnLikelihood) MarshalJSON() ([]byte, error) {
	if c.NoEngagement {
		return json.Marshal(NoEngagementMessage)
	}
	return json.Marshal(c.Value)
}

func (c ChurnLikelihood) String() string {
	if c.NoEngagement {
		return NoEngagementMessage
	}
	return c.Value.String()
}

// CustomerChurnLikelihood returns churn_rate * (1 - mean engagement score).
// Low, Medium and High score 0, 0.5 and 1.
func CustomerChurnLikelihood(engagements []models.Engagement, snap Snapshot) ChurnLikelihood {
	if len(engagements) == 0 {
		return ChurnLikelihood{NoEngagement: true}
	}

	total := decimal.Zero
	for _, e := range engagements {
		total = total.Add(e.Level.Score())
	}
	avg := total.Div(decimal.NewFromInt(int64(len(engagements))))

	return ChurnLikelihood{Value: snap.ChurnRate.Mul(decimal.NewFromInt(1).Sub(avg))}
}

// TotalRevenue sums amount_spent over the given purchases
func TotalRevenue(purchases []models.Purchase) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.AmountSpent)
	}
	return total
}

// LifetimeValue returns avg(amount_spent) * purchase count * average tenure in
// years, rounded to cents. The tenure is the company-wide average.
func LifetimeValue(purchases []models.Purchase, snap Snapshot) decimal.Decimal {
	if len(purchases) == 0 {
		return decimal.Zero
	}
	count := decimal.NewFromInt(int64(len(purchases)))
	avg := TotalRevenue(purchases).Div(count)
	return avg.Mul(count).Mul(snap.AverageTenureYears).Round(2)
}

// WorthOfAcquisition returns lifetime value minus acquisition cost when both
// are set on row. Otherwise the stored worth is returned unchanged.
func WorthOfAcquisition(row models.LifetimeValue) decimal.NullDecimal {
	if !row.LifetimeValue.Valid || !row.CostToAcquire.Valid {
		return row.WorthAcquisitionCost
	}
	return decimal.NewNullDecimal(row.LifetimeValue.Decimal.Sub(row.CostToAcquire.Decimal))
}

// AverageChurnRate is the mean of every non-null internal_churn_rate, or zero
func AverageChurnRate(metrics []models.InternalMetrics) decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(metrics))
	for _, m := range metrics {
		if m.InternalChurnRate.Valid {
			values = append(values, m.InternalChurnRate.Decimal)
		}
	}
	return mean(values)
}

// AverageCustomerTenure is the mean customer age in days divided by 365.25.
// No customers yields zero.
func AverageCustomerTenure(created []time.Time, now time.Time) decimal.Decimal {
	if len(created) == 0 {
		return decimal.Zero
	}
	var days int64
	for _, c := range created {
		days += int64(DaysBetween(c, now))
	}
	avgDays := decimal.NewFromInt(days).Div(decimal.NewFromInt(int64(len(created))))
	return avgDays.Div(daysPerYear)
}

// AverageLifetimeValue is the mean of every stored, non-null lifetime value
func AverageLifetimeValue(rows []models.LifetimeValue) decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(rows))
	for _, r := range rows {
		if r.LifetimeValue.Valid {
			values = append(values, r.LifetimeValue.Decimal)
		}
	}
	return mean(values)
}

// DaysInPipeline is the number of whole days a lead has existed
func DaysInPipeline(lead models.Lead, now time.Time) int {
	return DaysBetween(lead.CreatedAt, now)
}

// DaysBetween counts calendar days from the date of from to the date of to,
// both read in from's time zone. Time of day is ignored.
func DaysBetween(from, to time.Time) int {
	to = to.In(from.Location())
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}
