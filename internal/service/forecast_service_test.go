package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/demandcast/internal/cache"
	"github.com/andresuchdata/demandcast/internal/domain"
	"github.com/andresuchdata/demandcast/internal/forecast"
)

type stubRepo struct {
	dailySales map[string][]float64
	monthly    map[string]map[int]float64
	stocks     map[string]domain.SKUStock
	latest     map[string]*domain.SKUForecast
	saved      []*domain.SKUForecast
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		dailySales: map[string][]float64{},
		monthly:    map[string]map[int]float64{},
		stocks:     map[string]domain.SKUStock{},
		latest:     map[string]*domain.SKUForecast{},
	}
}

func (r *stubRepo) GetDailySales(ctx context.Context, sku string, days int) ([]float64, error) {
	return r.dailySales[sku], nil
}

func (r *stubRepo) GetMonthlySales(ctx context.Context, sku string) (map[int]float64, error) {
	return r.monthly[sku], nil
}

func (r *stubRepo) ListActiveSKUs(ctx context.Context) ([]domain.SKUStock, error) {
	skus := make([]domain.SKUStock, 0, len(r.stocks))
	for _, s := range r.stocks {
		skus = append(skus, s)
	}
	return skus, nil
}

func (r *stubRepo) GetSKUStock(ctx context.Context, sku string) (*domain.SKUStock, error) {
	if s, ok := r.stocks[sku]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *stubRepo) SaveForecasts(ctx context.Context, forecasts []*domain.SKUForecast) error {
	r.saved = append(r.saved, forecasts...)
	return nil
}

func (r *stubRepo) GetLatestForecast(ctx context.Context, sku string) (*domain.SKUForecast, error) {
	return r.latest[sku], nil
}

func (r *stubRepo) GetForecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, int, error) {
	return nil, 0, nil
}

func (r *stubRepo) GetSummary(ctx context.Context, date time.Time) (*domain.ForecastSummary, error) {
	return &domain.ForecastSummary{ForecastDate: date}, nil
}

func (r *stubRepo) GetLatestForecastDate(ctx context.Context) (time.Time, error) {
	return time.Time{}, nil
}

func newTestService(repo *stubRepo) *ForecastService {
	svc := NewForecastService(repo, cache.NewNoopForecastCache(), forecast.DefaultConfig())
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestComputeForecastSteadySeller(t *testing.T) {
	repo := newStubRepo()
	repo.stocks["sku-1"] = domain.SKUStock{SKU: "sku-1", CurrentStock: 50}
	repo.dailySales["sku-1"] = []float64{10, 10, 10, 10, 10, 10, 10}

	svc := newTestService(repo)
	f, err := svc.ComputeForecast(context.Background(), "sku-1")
	require.NoError(t, err)

	assert.Equal(t, "sku-1", f.SKU)
	assert.Equal(t, 3, f.TargetMonth)
	assert.InDelta(t, 10.0, f.DailyDemand, 0.01)
	assert.Equal(t, 30, f.Confidence)
	assert.Equal(t, forecast.TrendStable, f.TrendDirection)
	// default lead time applies when the SKU has no override
	assert.Equal(t, 14, f.LeadTimeDays)
	// 50 units at 10/day: 5 days left, inside max(leadTime, critical)
	assert.Equal(t, 5, f.DaysUntilStockout)
	assert.Equal(t, forecast.RiskCritical, f.Risk)
	// ceil(10 * (14 + 7))
	assert.Equal(t, 210, f.ReorderQuantity)
	assert.Equal(t, 210, f.ReorderPoint)
}

func TestComputeForecastNoHistory(t *testing.T) {
	repo := newStubRepo()
	repo.stocks["sku-dead"] = domain.SKUStock{SKU: "sku-dead", CurrentStock: 80}

	svc := newTestService(repo)
	f, err := svc.ComputeForecast(context.Background(), "sku-dead")
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.DailyDemand)
	assert.Equal(t, 0, f.Confidence)
	assert.Equal(t, forecast.NoDemandHorizonDays, f.DaysUntilStockout)
	assert.Equal(t, forecast.RiskLow, f.Risk)
	assert.Equal(t, 0, f.ReorderQuantity)
}

func TestComputeForecastUnknownSKU(t *testing.T) {
	svc := newTestService(newStubRepo())
	_, err := svc.ComputeForecast(context.Background(), "missing")
	assert.Error(t, err)
}

func TestComputeForecastLeadTimeOverride(t *testing.T) {
	repo := newStubRepo()
	repo.stocks["sku-slow"] = domain.SKUStock{SKU: "sku-slow", CurrentStock: 400, LeadTimeDays: 45}
	repo.dailySales["sku-slow"] = []float64{10, 10, 10, 10, 10, 10, 10, 10}

	svc := newTestService(repo)
	f, err := svc.ComputeForecast(context.Background(), "sku-slow")
	require.NoError(t, err)

	assert.Equal(t, 45, f.LeadTimeDays)
	// 40 days of stock would be fine normally, but the 45-day lead time
	// means a reorder placed today still arrives too late
	assert.Equal(t, 40, f.DaysUntilStockout)
	assert.Equal(t, forecast.RiskCritical, f.Risk)
}

func TestGetForecastPrefersPersisted(t *testing.T) {
	repo := newStubRepo()
	persisted := &domain.SKUForecast{SKU: "sku-1", DailyDemand: 3.5}
	repo.latest["sku-1"] = persisted

	svc := newTestService(repo)
	f, err := svc.GetForecast(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Equal(t, persisted, f)
}

func TestGetForecastComputesWhenUnpersisted(t *testing.T) {
	repo := newStubRepo()
	repo.stocks["sku-2"] = domain.SKUStock{SKU: "sku-2", CurrentStock: 100}
	repo.dailySales["sku-2"] = []float64{2, 2, 2, 2, 2, 2, 2}

	svc := newTestService(repo)
	f, err := svc.GetForecast(context.Background(), "sku-2")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f.DailyDemand, 0.01)
}

func TestComputeForecastAppliesSeasonality(t *testing.T) {
	repo := newStubRepo()
	repo.stocks["sku-season"] = domain.SKUStock{SKU: "sku-season", CurrentStock: 100}
	repo.dailySales["sku-season"] = []float64{10, 10, 10, 10, 10, 10, 10, 10}
	// March historically sells double the average month
	repo.monthly["sku-season"] = map[int]float64{2: 100, 3: 300}

	svc := newTestService(repo)
	f, err := svc.ComputeForecast(context.Background(), "sku-season")
	require.NoError(t, err)

	assert.Equal(t, 1.5, f.SeasonalityFactor)
	assert.InDelta(t, 15.0, f.DailyDemand, 0.01)
}
