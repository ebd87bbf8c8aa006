package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RileyK05/basic-crm/internal/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func purchases(amounts ...string) []models.Purchase {
	out := make([]models.Purchase, len(amounts))
	for i, a := range amounts {
		out[i] = models.Purchase{ID: i + 1, Quantity: 1, AmountSpent: dec(a)}
	}
	return out
}

func engagements(levels ...models.EngagementLevel) []models.Engagement {
	out := make([]models.Engagement, len(levels))
	for i, l := range levels {
		out[i] = models.Engagement{ID: i + 1, Level: l, Type: models.EngagementTypeCall}
	}
	return out
}

func TestCustomerChurnLikelihood(t *testing.T) {
	snap := Snapshot{ChurnRate: dec("0.4")}

	t.Run("no engagements", func(t *testing.T) {
		got := CustomerChurnLikelihood(nil, snap)
		assert.True(t, got.NoEngagement)
		assert.Equal(t, NoEngagementMessage, got.String())

		raw, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `"No engagement for customer"`, string(raw))
	})

	tests := []struct {
		name   string
		levels []models.EngagementLevel
		want   string
	}{
		{"all high", []models.EngagementLevel{models.EngagementLevelHigh}, "0"},
		{"all low", []models.EngagementLevel{models.EngagementLevelLow, models.EngagementLevelLow}, "0.4"},
		{"mixed", []models.EngagementLevel{models.EngagementLevelLow, models.EngagementLevelMedium, models.EngagementLevelHigh}, "0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CustomerChurnLikelihood(engagements(tt.levels...), snap)
			assert.False(t, got.NoEngagement)
			assert.True(t, got.Value.Equal(dec(tt.want)), "got %s want %s", got.Value, tt.want)
		})
	}
}

func TestCustomerChurnLikelihood_OrderIndependent(t *testing.T) {
	snap := Snapshot{ChurnRate: dec("0.3")}
	a := CustomerChurnLikelihood(engagements(models.EngagementLevelHigh, models.EngagementLevelLow, models.EngagementLevelMedium), snap)
	b := CustomerChurnLikelihood(engagements(models.EngagementLevelMedium, models.EngagementLevelHigh, models.EngagementLevelLow), snap)
	assert.True(t, a.Value.Equal(b.Value))

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"0.15"`, string(raw))
}

func TestTotalRevenue(t *testing.T) {
	assert.True(t, TotalRevenue(nil).IsZero())
	assert.True(t, TotalRevenue(purchases("10.50", "4.50")).Equal(dec("15")))
}

func TestLifetimeValue(t *testing.T) {
	snap := Snapshot{AverageTenureYears: dec("2.0")}

	assert.True(t, LifetimeValue(nil, snap).IsZero())

	got := LifetimeValue(purchases("10.00", "20.00", "30.00"), snap)
	assert.Equal(t, "120", got.String())
	assert.True(t, got.Equal(dec("120.00")))
}

func TestLifetimeValue_UsesGlobalTenure(t *testing.T) {
	created := []time.Time{now.AddDate(0, 0, -730), now.AddDate(0, 0, -731)}
	snap := NewSnapshot(nil, created, now)
	assert.True(t, snap.AverageTenureYears.Equal(dec("2")), snap.AverageTenureYears.String())

	got := LifetimeValue(purchases("20", "20", "20"), snap)
	assert.True(t, got.Equal(dec("120.00")))
}

func TestWorthOfAcquisition(t *testing.T) {
	stored := decimal.NewNullDecimal(dec("7"))

	t.Run("both set", func(t *testing.T) {
		row := models.LifetimeValue{
			LifetimeValue:        decimal.NewNullDecimal(dec("120")),
			CostToAcquire:        decimal.NewNullDecimal(dec("20")),
			WorthAcquisitionCost: stored,
		}
		got := WorthOfAcquisition(row)
		require.True(t, got.Valid)
		assert.True(t, got.Decimal.Equal(dec("100")))
	})

	t.Run("zero cost counts as set", func(t *testing.T) {
		row := models.LifetimeValue{
			LifetimeValue: decimal.NewNullDecimal(dec("50")),
			CostToAcquire: decimal.NewNullDecimal(decimal.Zero),
		}
		got := WorthOfAcquisition(row)
		require.True(t, got.Valid)
		assert.True(t, got.Decimal.Equal(dec("50")))
	})

	t.Run("missing cost keeps stored value", func(t *testing.T) {
		row := models.LifetimeValue{
			LifetimeValue:        decimal.NewNullDecimal(dec("120")),
			WorthAcquisitionCost: stored,
		}
		assert.Equal(t, stored, WorthOfAcquisition(row))
	})

	t.Run("missing lifetime value keeps stored null", func(t *testing.T) {
		row := models.LifetimeValue{CostToAcquire: decimal.NewNullDecimal(dec("5"))}
		assert.False(t, WorthOfAcquisition(row).Valid)
	})
}

func TestAverageChurnRate(t *testing.T) {
	assert.True(t, AverageChurnRate(nil).IsZero())

	rows := []models.InternalMetrics{
		{InternalChurnRate: decimal.NewNullDecimal(dec("0.2"))},
		{},
		{InternalChurnRate: decimal.NewNullDecimal(dec("0.4"))},
	}
	assert.True(t, AverageChurnRate(rows).Equal(dec("0.3")))
	assert.True(t, AverageChurnRate([]models.InternalMetrics{{}}).IsZero())
}

func TestAverageCustomerTenure(t *testing.T) {
	assert.True(t, AverageCustomerTenure(nil, now).IsZero())

	created := []time.Time{now.AddDate(0, 0, -365), now.AddDate(0, 0, -365)}
	got := AverageCustomerTenure(created, now)
	assert.True(t, got.GreaterThan(dec("0.99")) && got.LessThan(dec("1")), got.String())
}

func TestAverageLifetimeValue(t *testing.T) {
	assert.True(t, AverageLifetimeValue(nil).IsZero())

	rows := []models.LifetimeValue{
		{LifetimeValue: decimal.NewNullDecimal(dec("100"))},
		{LifetimeValue: decimal.NewNullDecimal(dec("50"))},
		{},
	}
	assert.True(t, AverageLifetimeValue(rows).Equal(dec("75")))
}

func TestDaysInPipeline(t *testing.T) {
	lead := models.Lead{CreatedAt: time.Date(2025, 5, 22, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, 10, DaysInPipeline(lead, now))
	assert.Equal(t, 0, DaysBetween(now, now))
}

func TestDaysBetween_MixedTimeZones(t *testing.T) {
	mountain := time.FixedZone("UTC-7", -7*60*60)
	created := time.Date(2025, 1, 2, 2, 0, 0, 0, time.UTC)
	// 2025-01-01 20:00 locally, the same calendar day as created in UTC
	later := created.Add(time.Hour).In(mountain)

	assert.Equal(t, 0, DaysBetween(created, later))
	assert.True(t, AverageCustomerTenure([]time.Time{created}, later).IsZero())

	nextDay := time.Date(2025, 1, 3, 1, 0, 0, 0, time.UTC).In(mountain)
	assert.Equal(t, 1, DaysBetween(created, nextDay))

	lead := models.Lead{CreatedAt: created}
	assert.GreaterOrEqual(t, DaysInPipeline(lead, later), 0)
}
