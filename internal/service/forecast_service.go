// internal/service/forecast_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/demandcast/internal/cache"
	"github.com/andresuchdata/demandcast/internal/domain"
	"github.com/andresuchdata/demandcast/internal/forecast"
	"github.com/andresuchdata/demandcast/internal/repository"
)

// historyWindowDays is how much trailing history the predictor sees.
// A full year lets the confidence staircase reach its top tier.
const historyWindowDays = 365

type ForecastService struct {
	repo  repository.ForecastRepository
	cache cache.ForecastCache
	cfg   forecast.Config
	now   func() time.Time
}

func NewForecastService(repo repository.ForecastRepository, cacheImpl cache.ForecastCache, cfg forecast.Config) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		repo:  repo,
		cache: cacheImpl,
		cfg:   cfg,
		now:   time.Now,
	}
}

// ComputeForecast runs the full prediction pipeline for one SKU from
// fresh inputs: history and monthly aggregates from the repository, the
// pure forecasting core, then risk and reorder planning.
func (s *ForecastService) ComputeForecast(ctx context.Context, sku string) (*domain.SKUForecast, error) {
	stock, err := s.repo.GetSKUStock(ctx, sku)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, fmt.Errorf("unknown sku %s", sku)
	}
	return s.forecastSKU(ctx, *stock)
}

func (s *ForecastService) forecastSKU(ctx context.Context, stock domain.SKUStock) (*domain.SKUForecast, error) {
	series, err := s.repo.GetDailySales(ctx, stock.SKU, historyWindowDays)
	if err != nil {
		return nil, err
	}

	monthly, err := s.repo.GetMonthlySales(ctx, stock.SKU)
	if err != nil {
		return nil, err
	}

	now := s.now()
	targetMonth := int(now.Month())

	seasonality := forecast.AnalyzeSeasonality(monthly)
	prediction := forecast.PredictDailyDemand(series, targetMonth, seasonality, s.cfg)

	leadTime := stock.LeadTimeDays
	if leadTime <= 0 {
		leadTime = s.cfg.DefaultLeadTimeDays
	}

	days := forecast.DaysUntilStockout(stock.CurrentStock, prediction.DailyDemand)
	risk := forecast.ClassifyStockoutRisk(days, leadTime, s.cfg.RiskThresholds)
	plan := forecast.PlanReorder(prediction.DailyDemand, leadTime, s.cfg.SafetyStockDays)

	return &domain.SKUForecast{
		SKU:               stock.SKU,
		ForecastDate:      now.Truncate(24 * time.Hour),
		TargetMonth:       targetMonth,
		DailyDemand:       prediction.DailyDemand,
		Confidence:        prediction.Confidence,
		TrendDirection:    prediction.TrendDirection,
		TrendPercent:      prediction.TrendPercent,
		SeasonalityFactor: prediction.SeasonalityFactor,
		CurrentStock:      stock.CurrentStock,
		LeadTimeDays:      leadTime,
		DaysUntilStockout: days,
		Risk:              risk,
		ReorderPoint:      plan.ReorderPoint,
		ReorderQuantity:   plan.ReorderQuantity,
	}, nil
}

// ForecastStock is the refresher entry point: it skips the per-SKU
// stock lookup because the refresher already holds the snapshot.
func (s *ForecastService) ForecastStock(ctx context.Context, stock domain.SKUStock) (*domain.SKUForecast, error) {
	return s.forecastSKU(ctx, stock)
}

// GetForecast serves the latest forecast for a SKU, cache first, then
// the repository, computing on demand when nothing is persisted yet.
func (s *ForecastService) GetForecast(ctx context.Context, sku string) (*domain.SKUForecast, error) {
	if f, ok, err := s.cache.GetForecast(ctx, sku); err == nil && ok {
		return f, nil
	} else if err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("forecast: cache get failed")
	}

	f, err := s.repo.GetLatestForecast(ctx, sku)
	if err != nil {
		return nil, err
	}
	if f == nil {
		f, err = s.ComputeForecast(ctx, sku)
		if err != nil {
			return nil, err
		}
	}

	if err := s.cache.SetForecast(ctx, f); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("forecast: cache set failed")
	}

	return f, nil
}

// ListForecasts returns the latest refresh run filtered and paginated.
func (s *ForecastService) ListForecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, int, error) {
	if forecasts, total, ok, err := s.cache.GetForecastList(ctx, filter); err == nil && ok {
		return forecasts, total, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get list failed")
	}

	forecasts, total, err := s.repo.GetForecasts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if err := s.cache.SetForecastList(ctx, filter, forecasts, total); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set list failed")
	}

	return forecasts, total, nil
}

// GetSummary returns the risk distribution of the most recent run.
func (s *ForecastService) GetSummary(ctx context.Context) (*domain.ForecastSummary, error) {
	date, err := s.repo.GetLatestForecastDate(ctx)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return &domain.ForecastSummary{RiskCounts: []domain.RiskCount{}}, nil
	}
	return s.repo.GetSummary(ctx, date)
}
