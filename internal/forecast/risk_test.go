package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultThresholds() RiskThresholds {
	return RiskThresholds{Critical: 7, High: 14, Medium: 30}
}

func TestClassifyStockoutRisk(t *testing.T) {
	tests := []struct {
		name          string
		daysRemaining int
		leadTime      int
		want          StockoutRisk
	}{
		{"already out of stock", 0, 5, RiskCritical},
		{"negative days", -3, 5, RiskCritical},
		{"inside critical threshold", 3, 5, RiskCritical},
		{"lead time dominates threshold", 10, 12, RiskCritical},
		{"high tier", 10, 5, RiskHigh},
		{"medium tier", 20, 5, RiskMedium},
		{"low tier", 40, 5, RiskLow},
		{"boundary of high", 14, 5, RiskHigh},
		{"boundary of medium", 30, 5, RiskMedium},
		{"just past medium", 31, 5, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStockoutRisk(tt.daysRemaining, tt.leadTime, defaultThresholds())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyStockoutRiskZeroDaysAnyLeadTime(t *testing.T) {
	for _, leadTime := range []int{0, 1, 7, 30, 365} {
		assert.Equal(t, RiskCritical, ClassifyStockoutRisk(0, leadTime, defaultThresholds()))
	}
}

func TestDaysUntilStockout(t *testing.T) {
	assert.Equal(t, NoDemandHorizonDays, DaysUntilStockout(100, 0))
	assert.Equal(t, NoDemandHorizonDays, DaysUntilStockout(100, -1))
	assert.Equal(t, 0, DaysUntilStockout(0, 5))
	assert.Equal(t, 0, DaysUntilStockout(-10, 5))
	assert.Equal(t, 10, DaysUntilStockout(50, 5))
	assert.Equal(t, 33, DaysUntilStockout(100, 3)) // floors, never rounds up
}
