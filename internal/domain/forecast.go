// internal/domain/forecast.go
package domain

import (
	"time"

	"github.com/andresuchdata/demandcast/internal/forecast"
)

// SKUStock is the per-SKU inventory snapshot the refresher iterates
// over. LeadTimeDays is zero when the SKU has no supplier override and
// the configured default applies.
type SKUStock struct {
	SKU          string  `json:"sku" db:"sku"`
	ProductName  string  `json:"product_name" db:"product_name"`
	CurrentStock float64 `json:"current_stock" db:"current_stock"`
	LeadTimeDays int     `json:"lead_time_days" db:"lead_time_days"`
}

// SKUForecast is a persisted forecast row: the core's outputs joined
// with the inventory context they were computed from.
type SKUForecast struct {
	ID                int64                   `json:"id" db:"id"`
	SKU               string                  `json:"sku" db:"sku"`
	ForecastDate      time.Time               `json:"forecast_date" db:"forecast_date"`
	TargetMonth       int                     `json:"target_month" db:"target_month"`
	DailyDemand       float64                 `json:"daily_demand" db:"daily_demand"`
	Confidence        int                     `json:"confidence" db:"confidence"`
	TrendDirection    forecast.TrendDirection `json:"trend_direction" db:"trend_direction"`
	TrendPercent      int                     `json:"trend_percent" db:"trend_percent"`
	SeasonalityFactor float64                 `json:"seasonality_factor" db:"seasonality_factor"`
	CurrentStock      float64                 `json:"current_stock" db:"current_stock"`
	LeadTimeDays      int                     `json:"lead_time_days" db:"lead_time_days"`
	DaysUntilStockout int                     `json:"days_until_stockout" db:"days_until_stockout"`
	Risk              forecast.StockoutRisk   `json:"risk" db:"risk"`
	ReorderPoint      int                     `json:"reorder_point" db:"reorder_point"`
	ReorderQuantity   int                     `json:"reorder_quantity" db:"reorder_quantity"`
	CreatedAt         time.Time               `json:"created_at" db:"created_at"`
}

// ForecastFilter narrows forecast queries from the API.
type ForecastFilter struct {
	SKUs     []string `json:"skus"`
	Risks    []string `json:"risks"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// RiskCount is one slice of the risk distribution.
type RiskCount struct {
	Risk  forecast.StockoutRisk `json:"risk" db:"risk"`
	Count int                   `json:"count" db:"count"`
}

// ForecastSummary aggregates the latest refresh run for dashboards.
type ForecastSummary struct {
	ForecastDate time.Time   `json:"forecast_date"`
	TotalSKUs    int         `json:"total_skus"`
	RiskCounts   []RiskCount `json:"risk_counts"`
}

// RefreshResult summarizes a batch refresh run.
type RefreshResult struct {
	StartedAt   time.Time                     `json:"started_at"`
	CompletedAt time.Time                     `json:"completed_at"`
	TotalSKUs   int                           `json:"total_skus"`
	Failed      int                           `json:"failed"`
	ByRisk      map[forecast.StockoutRisk]int `json:"by_risk"`
	SnapshotKey string                        `json:"snapshot_key,omitempty"`
}
