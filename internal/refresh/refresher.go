// internal/refresh/refresher.go
package refresh

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/demandcast/internal/cache"
	"github.com/andresuchdata/demandcast/internal/domain"
	"github.com/andresuchdata/demandcast/internal/forecast"
	"github.com/andresuchdata/demandcast/internal/repository"
	"github.com/andresuchdata/demandcast/internal/service"
	"github.com/andresuchdata/demandcast/internal/storage"
	"github.com/andresuchdata/demandcast/pkg/logger"
)

const (
	defaultWorkerCount = 8
	exportPageSize     = 100000
)

// Refresher recomputes forecasts for every active SKU. It is invoked by
// the batch CLI on whatever schedule the platform's cron owns.
type Refresher struct {
	svc     *service.ForecastService
	repo    repository.ForecastRepository
	cache   cache.ForecastCache
	storage storage.ObjectStorage // nil when snapshot export is disabled
	workers int
}

func NewRefresher(svc *service.ForecastService, repo repository.ForecastRepository, cacheImpl cache.ForecastCache, store storage.ObjectStorage, workers int) *Refresher {
	if workers < 1 {
		workers = defaultWorkerCount
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &Refresher{
		svc:     svc,
		repo:    repo,
		cache:   cacheImpl,
		storage: store,
		workers: workers,
	}
}

// Run forecasts all active SKUs with bounded concurrency, persists the
// results, invalidates the read cache and optionally uploads a CSV
// snapshot. A SKU that fails is counted and skipped; the run keeps
// going.
func (r *Refresher) Run(ctx context.Context) (*domain.RefreshResult, error) {
	log := logger.Component("refresh")
	startedAt := time.Now()

	skus, err := r.repo.ListActiveSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active SKUs: %w", err)
	}

	log.Info().Int("skus", len(skus)).Int("workers", r.workers).Msg("starting forecast refresh")

	var (
		mu        sync.Mutex
		forecasts = make([]*domain.SKUForecast, 0, len(skus))
		failed    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, stock := range skus {
		stock := stock
		g.Go(func() error {
			f, err := r.svc.ForecastStock(gctx, stock)
			if err != nil {
				log.Warn().Err(err).Str("sku", stock.SKU).Msg("forecast failed, skipping")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			forecasts = append(forecasts, f)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := r.repo.SaveForecasts(ctx, forecasts); err != nil {
		return nil, fmt.Errorf("failed to persist forecasts: %w", err)
	}

	if err := r.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}

	result := &domain.RefreshResult{
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		TotalSKUs:   len(skus),
		Failed:      failed,
		ByRisk:      countByRisk(forecasts),
	}

	if r.storage != nil && len(forecasts) > 0 {
		key, err := r.exportSnapshot(ctx, forecasts)
		if err != nil {
			log.Warn().Err(err).Msg("snapshot export failed")
		} else {
			result.SnapshotKey = key
		}
	}

	log.Info().
		Int("forecasted", len(forecasts)).
		Int("failed", failed).
		Dur("took", result.CompletedAt.Sub(startedAt)).
		Msg("forecast refresh completed")

	return result, nil
}

// Export re-uploads a snapshot of the most recent run without
// recomputing anything. Used by the CLI when a scheduled upload failed.
func (r *Refresher) Export(ctx context.Context) (string, error) {
	if r.storage == nil {
		return "", fmt.Errorf("snapshot storage is not configured")
	}

	date, err := r.repo.GetLatestForecastDate(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve latest forecast date: %w", err)
	}
	if date.IsZero() {
		return "", fmt.Errorf("no forecasts have been persisted yet")
	}

	rows, _, err := r.repo.GetForecasts(ctx, domain.ForecastFilter{Page: 1, PageSize: exportPageSize})
	if err != nil {
		return "", fmt.Errorf("failed to load forecasts: %w", err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("no forecasts found for %s", date.Format("2006-01-02"))
	}

	forecasts := make([]*domain.SKUForecast, len(rows))
	for i := range rows {
		forecasts[i] = &rows[i]
	}

	return r.exportSnapshot(ctx, forecasts)
}

func countByRisk(forecasts []*domain.SKUForecast) map[forecast.StockoutRisk]int {
	counts := make(map[forecast.StockoutRisk]int, 4)
	for _, f := range forecasts {
		counts[f.Risk]++
	}
	return counts
}

// exportSnapshot serializes the run to CSV and uploads it, returning
// the object key.
func (r *Refresher) exportSnapshot(ctx context.Context, forecasts []*domain.SKUForecast) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"sku", "forecast_date", "daily_demand", "confidence",
		"trend_direction", "trend_percent", "seasonality_factor",
		"current_stock", "lead_time_days", "days_until_stockout",
		"risk", "reorder_point", "reorder_quantity",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, f := range forecasts {
		rec := []string{
			f.SKU,
			f.ForecastDate.Format("2006-01-02"),
			strconv.FormatFloat(f.DailyDemand, 'f', 2, 64),
			strconv.Itoa(f.Confidence),
			string(f.TrendDirection),
			strconv.Itoa(f.TrendPercent),
			strconv.FormatFloat(f.SeasonalityFactor, 'f', 2, 64),
			strconv.FormatFloat(f.CurrentStock, 'f', -1, 64),
			strconv.Itoa(f.LeadTimeDays),
			strconv.Itoa(f.DaysUntilStockout),
			string(f.Risk),
			strconv.Itoa(f.ReorderPoint),
			strconv.Itoa(f.ReorderQuantity),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("snapshots/%s/forecasts.csv", forecasts[0].ForecastDate.Format("20060102"))
	if err := r.storage.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	return key, nil
}
