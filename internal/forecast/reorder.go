package forecast

import "math"

// ReorderRecommendation holds the actionable reorder numbers for a SKU.
type ReorderRecommendation struct {
	ReorderPoint    int `json:"reorder_point"`
	ReorderQuantity int `json:"reorder_quantity"`
}

// ReorderQuantity is the amount to order: enough to cover demand over
// the lead time plus the safety buffer, rounded up.
func ReorderQuantity(dailyDemand float64, leadTimeDays, safetyStockDays int) int {
	if dailyDemand <= 0 {
		return 0
	}
	return int(math.Ceil(dailyDemand * float64(leadTimeDays+safetyStockDays)))
}

// ReorderPoint is the stock level that should trigger a new purchase
// order. It intentionally computes the same expression as
// ReorderQuantity: classic inventory theory would exclude the safety
// buffer here, but the operations team calibrated against this exact
// behavior. Keep the two in lockstep until product signs off on a
// change.
func ReorderPoint(dailyDemand float64, leadTimeDays, safetyStockDays int) int {
	return int(math.Ceil(dailyDemand * float64(leadTimeDays+safetyStockDays)))
}

// PlanReorder bundles the reorder point and quantity for a SKU.
func PlanReorder(dailyDemand float64, leadTimeDays, safetyStockDays int) ReorderRecommendation {
	return ReorderRecommendation{
		ReorderPoint:    ReorderPoint(dailyDemand, leadTimeDays, safetyStockDays),
		ReorderQuantity: ReorderQuantity(dailyDemand, leadTimeDays, safetyStockDays),
	}
}
