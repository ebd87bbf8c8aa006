package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownMetric is returned when a metric key is not one of the editable keys
var ErrUnknownMetric = errors.New("unknown metric")

// InternalMetrics holds company-wide figures. The application treats the first
// row as a singleton.
type InternalMetrics struct {
	ID                        int                 `json:"id" db:"id"`
	CurrentRevenue            decimal.NullDecimal `json:"current_revenue" db:"current_revenue"`
	ProjectedRevenue          decimal.NullDecimal `json:"projected_revenue" db:"projected_revenue"`
	PastGrowthRate            decimal.NullDecimal `json:"past_growth_rate" db:"past_growth_rate"`
	CurrentGrowthRate         decimal.NullDecimal `json:"current_growth_rate" db:"current_growth_rate"`
	ProjectedGrowth           decimal.NullDecimal `json:"projected_growth" db:"projected_growth"`
	TotalCustomers            *int                `json:"total_customers" db:"total_customers"`
	AverageLengthOfCustomer   decimal.NullDecimal `json:"average_length_of_customer" db:"average_length_of_customer"`
	InternalChurnRate         decimal.NullDecimal `json:"internal_churn_rate" db:"internal_churn_rate"`
	AverageCostToAcquire      decimal.NullDecimal `json:"average_cost_to_acquire" db:"average_cost_to_acquire"`
	AverageRevenuePerCustomer decimal.NullDecimal `json:"average_revenue_per_customer" db:"average_revenue_per_customer"`
	IndustryGrowthRate        decimal.NullDecimal `json:"industry_growth_rate" db:"industry_growth_rate"`
	AverageLifetimeValue      decimal.NullDecimal `json:"average_lifetime_value" db:"average_lifetime_value"`
}

// MetricKey names a single editable field of InternalMetrics
type MetricKey string

const (
	MetricCurrentRevenue            MetricKey = "current_revenue"
	MetricProjectedRevenue          MetricKey = "projected_revenue"
	MetricPastGrowthRate            MetricKey = "past_growth_rate"
	MetricCurrentGrowthRate         MetricKey = "current_growth_rate"
	MetricProjectedGrowth           MetricKey = "projected_growth"
	MetricTotalCustomers            MetricKey = "total_customers"
	MetricAverageLengthOfCustomer   MetricKey = "average_length_of_customer"
	MetricInternalChurnRate         MetricKey = "internal_churn_rate"
	MetricAverageCostToAcquire      MetricKey = "average_cost_to_acquire"
	MetricAverageRevenuePerCustomer MetricKey = "average_revenue_per_customer"
	MetricIndustryGrowthRate        MetricKey = "industry_growth_rate"
	MetricAverageLifetimeValue      MetricKey = "average_lifetime_value"
)

func (m *InternalMetrics) decimalField(key MetricKey) *decimal.NullDecimal {
	switch key {
	case MetricCurrentRevenue:
		return &m.CurrentRevenue
	case MetricProjectedRevenue:
		return &m.ProjectedRevenue
	case MetricPastGrowthRate:
		return &m.PastGrowthRate
	case MetricCurrentGrowthRate:
		return &m.CurrentGrowthRate
	case MetricProjectedGrowth:
		return &m.ProjectedGrowth
	case MetricAverageLengthOfCustomer:
		return &m.AverageLengthOfCustomer
	case MetricInternalChurnRate:
		return &m.InternalChurnRate
	case MetricAverageCostToAcquire:
		return &m.AverageCostToAcquire
	case MetricAverageRevenuePerCustomer:
		return &m.AverageRevenuePerCustomer
	case MetricIndustryGrowthRate:
		return &m.IndustryGrowthRate
	case MetricAverageLifetimeValue:
		return &m.AverageLifetimeValue
	}
	return nil
}

// ParseMetricKey validates a raw key against the editable set
func ParseMetricKey(raw string) (MetricKey, error) {
	key := MetricKey(raw)
	if key == MetricTotalCustomers {
		return key, nil
	}
	var probe InternalMetrics
	if probe.decimalField(key) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownMetric, raw)
	}
	return key, nil
}

// SetMetric assigns a single metric from its textual form. A nil value clears
// the metric. total_customers takes an integer, every other key a decimal.
func (m *InternalMetrics) SetMetric(key MetricKey, value *string) error {
	if key == MetricTotalCustomers {
		if value == nil {
			m.TotalCustomers = nil
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(*value))
		if err != nil {
			return fmt.Errorf("%s must be an integer", key)
		}
		m.TotalCustomers = &n
		return nil
	}

	field := m.decimalField(key)
	if field == nil {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, key)
	}
	if value == nil {
		*field = decimal.NullDecimal{}
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("%s must be a decimal number", key)
	}
	*field = decimal.NewNullDecimal(d)
	return nil
}
