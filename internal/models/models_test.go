package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEngagementLevel_Score(t *testing.T) {
	assert.True(t, EngagementLevelLow.Score().Equal(decimal.Zero))
	assert.True(t, EngagementLevelMedium.Score().Equal(decimal.RequireFromString("0.5")))
	assert.True(t, EngagementLevelHigh.Score().Equal(decimal.NewFromInt(1)))
	assert.False(t, EngagementLevel("Extreme").IsValid())
}

func TestLeadStage_IsValid(t *testing.T) {
	for _, stage := range LeadStages {
		assert.True(t, stage.IsValid(), stage)
	}
	assert.False(t, LeadStage("Closed").IsValid())
}

func TestLead_DisplayName(t *testing.T) {
	lead := Lead{Stage: LeadStageWon, CustomerName: strPtr("Ada")}
	assert.Equal(t, "Lead for Ada - Won", lead.DisplayName())

	lead = Lead{Stage: LeadStageLost, Name: strPtr("Bob")}
	assert.Equal(t, "Lead: Bob - Lost", lead.DisplayName())

	lead = Lead{Stage: LeadStageQualified}
	assert.Equal(t, "Lead: Unnamed - Qualified", lead.DisplayName())
}

func TestParseMetricKey(t *testing.T) {
	key, err := ParseMetricKey("internal_churn_rate")
	require.NoError(t, err)
	assert.Equal(t, MetricInternalChurnRate, key)

	key, err = ParseMetricKey("total_customers")
	require.NoError(t, err)
	assert.Equal(t, MetricTotalCustomers, key)

	_, err = ParseMetricKey("id")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestInternalMetrics_SetMetric(t *testing.T) {
	var m InternalMetrics

	require.NoError(t, m.SetMetric(MetricInternalChurnRate, strPtr("0.25")))
	assert.True(t, m.InternalChurnRate.Valid)
	assert.Equal(t, "0.25", m.InternalChurnRate.Decimal.String())

	require.NoError(t, m.SetMetric(MetricTotalCustomers, strPtr(" 42 ")))
	require.NotNil(t, m.TotalCustomers)
	assert.Equal(t, 42, *m.TotalCustomers)

	require.NoError(t, m.SetMetric(MetricInternalChurnRate, nil))
	assert.False(t, m.InternalChurnRate.Valid)

	assert.Error(t, m.SetMetric(MetricTotalCustomers, strPtr("4.5")))
	assert.Error(t, m.SetMetric(MetricCurrentRevenue, strPtr("lots")))
	assert.ErrorIs(t, m.SetMetric(MetricKey("bogus"), strPtr("1")), ErrUnknownMetric)
}
