// internal/repository/forecast_repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/demandcast/internal/domain"
)

// SalesReader loads the historical inputs the forecasting core consumes.
type SalesReader interface {
	// GetDailySales returns the per-day units sold for a SKU over the
	// trailing window, oldest first, with no-sale days zero-filled.
	GetDailySales(ctx context.Context, sku string, days int) ([]float64, error)

	// GetMonthlySales returns total units per calendar month (1-12)
	// across all observed years. Months with no sales are absent.
	GetMonthlySales(ctx context.Context, sku string) (map[int]float64, error)

	// ListActiveSKUs returns every SKU the refresher should forecast,
	// with current stock and any supplier lead-time override.
	ListActiveSKUs(ctx context.Context) ([]domain.SKUStock, error)

	// GetSKUStock returns the inventory snapshot for a single SKU.
	GetSKUStock(ctx context.Context, sku string) (*domain.SKUStock, error)
}

// ForecastStore persists and serves computed forecasts.
type ForecastStore interface {
	SaveForecasts(ctx context.Context, forecasts []*domain.SKUForecast) error
	GetLatestForecast(ctx context.Context, sku string) (*domain.SKUForecast, error)
	GetForecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, int, error)
	GetSummary(ctx context.Context, date time.Time) (*domain.ForecastSummary, error)
	GetLatestForecastDate(ctx context.Context) (time.Time, error)
}

// ForecastRepository is the full persistence surface of the service.
type ForecastRepository interface {
	SalesReader
	ForecastStore
}
