package forecast

import "math"

// StockoutRisk is the coarse classification of how soon a SKU runs out
// relative to its replenishment lead time.
type StockoutRisk string

const (
	RiskCritical StockoutRisk = "CRITICAL"
	RiskHigh     StockoutRisk = "HIGH"
	RiskMedium   StockoutRisk = "MEDIUM"
	RiskLow      StockoutRisk = "LOW"
)

// NoDemandHorizonDays is the sentinel returned by DaysUntilStockout when
// there is no measurable demand: the stock is effectively unbounded.
const NoDemandHorizonDays = 999

// ClassifyStockoutRisk maps predicted days until stockout and the
// replenishment lead time onto a risk tier. Rules are evaluated in
// order; anything that cannot be restocked before it runs out is
// critical even when the raw threshold would say otherwise.
func ClassifyStockoutRisk(daysRemaining, leadTimeDays int, t RiskThresholds) StockoutRisk {
	if daysRemaining <= 0 {
		return RiskCritical
	}

	effectiveThreshold := t.Critical
	if leadTimeDays > effectiveThreshold {
		effectiveThreshold = leadTimeDays
	}
	if daysRemaining <= effectiveThreshold {
		return RiskCritical
	}
	if daysRemaining <= t.High {
		return RiskHigh
	}
	if daysRemaining <= t.Medium {
		return RiskMedium
	}
	return RiskLow
}

// DaysUntilStockout projects how many whole days the current stock
// covers at the predicted daily demand rate.
func DaysUntilStockout(currentStock, dailyDemand float64) int {
	if dailyDemand <= 0 {
		return NoDemandHorizonDays
	}
	if currentStock <= 0 {
		return 0
	}
	return int(math.Floor(currentStock / dailyDemand))
}
