// internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/demandcast/internal/domain"
	"github.com/andresuchdata/demandcast/internal/repository"
)

type forecastRepository struct {
	db *DB
}

// NewForecastRepository builds the Postgres-backed forecast repository.
func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

// GetDailySales loads the trailing daily sales window for a SKU. The
// generate_series left join zero-fills days with no orders so the core
// always sees one entry per calendar day, oldest first.
func (r *forecastRepository) GetDailySales(ctx context.Context, sku string, days int) ([]float64, error) {
	if days <= 0 {
		days = 365
	}

	query := `
		SELECT COALESCE(SUM(oi.quantity), 0) AS units
		FROM generate_series(
			CURRENT_DATE - ($2::int - 1) * INTERVAL '1 day',
			CURRENT_DATE,
			INTERVAL '1 day'
		) AS d(day)
		LEFT JOIN order_items oi
			ON oi.sku = $1
			AND oi.ordered_at >= d.day
			AND oi.ordered_at < d.day + INTERVAL '1 day'
		GROUP BY d.day
		ORDER BY d.day ASC
	`

	var series []float64
	if err := r.db.SelectContext(ctx, &series, query, sku, days); err != nil {
		return nil, fmt.Errorf("error loading daily sales for %s: %w", sku, err)
	}

	return series, nil
}

func (r *forecastRepository) GetMonthlySales(ctx context.Context, sku string) (map[int]float64, error) {
	query := `
		SELECT
			EXTRACT(MONTH FROM ordered_at)::int AS month,
			SUM(quantity) AS units
		FROM order_items
		WHERE sku = $1
		GROUP BY 1
	`

	rows := []struct {
		Month int     `db:"month"`
		Units float64 `db:"units"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, sku); err != nil {
		return nil, fmt.Errorf("error loading monthly sales for %s: %w", sku, err)
	}

	monthly := make(map[int]float64, len(rows))
	for _, row := range rows {
		monthly[row.Month] = row.Units
	}
	return monthly, nil
}

func (r *forecastRepository) ListActiveSKUs(ctx context.Context) ([]domain.SKUStock, error) {
	query := `
		SELECT
			p.sku,
			p.name AS product_name,
			COALESCE(i.quantity, 0) AS current_stock,
			COALESCE(s.lead_time_days, 0) AS lead_time_days
		FROM products p
		LEFT JOIN inventory i ON i.sku = p.sku
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.active
		ORDER BY p.sku
	`

	var skus []domain.SKUStock
	if err := r.db.SelectContext(ctx, &skus, query); err != nil {
		return nil, fmt.Errorf("error listing active SKUs: %w", err)
	}
	return skus, nil
}

func (r *forecastRepository) GetSKUStock(ctx context.Context, sku string) (*domain.SKUStock, error) {
	query := `
		SELECT
			p.sku,
			p.name AS product_name,
			COALESCE(i.quantity, 0) AS current_stock,
			COALESCE(s.lead_time_days, 0) AS lead_time_days
		FROM products p
		LEFT JOIN inventory i ON i.sku = p.sku
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.sku = $1
	`

	var stock domain.SKUStock
	if err := r.db.GetContext(ctx, &stock, query, sku); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading stock for %s: %w", sku, err)
	}
	return &stock, nil
}

func (r *forecastRepository) SaveForecasts(ctx context.Context, forecasts []*domain.SKUForecast) error {
	if len(forecasts) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO sku_forecasts (
				sku, forecast_date, target_month, daily_demand, confidence,
				trend_direction, trend_percent, seasonality_factor,
				current_stock, lead_time_days, days_until_stockout, risk,
				reorder_point, reorder_quantity, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
			ON CONFLICT (sku, forecast_date)
			DO UPDATE SET
				target_month = EXCLUDED.target_month,
				daily_demand = EXCLUDED.daily_demand,
				confidence = EXCLUDED.confidence,
				trend_direction = EXCLUDED.trend_direction,
				trend_percent = EXCLUDED.trend_percent,
				seasonality_factor = EXCLUDED.seasonality_factor,
				current_stock = EXCLUDED.current_stock,
				lead_time_days = EXCLUDED.lead_time_days,
				days_until_stockout = EXCLUDED.days_until_stockout,
				risk = EXCLUDED.risk,
				reorder_point = EXCLUDED.reorder_point,
				reorder_quantity = EXCLUDED.reorder_quantity
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare forecast upsert: %w", err)
		}
		defer stmt.Close()

		for _, f := range forecasts {
			_, err := stmt.ExecContext(
				ctx,
				f.SKU,
				f.ForecastDate,
				f.TargetMonth,
				f.DailyDemand,
				f.Confidence,
				f.TrendDirection,
				f.TrendPercent,
				f.SeasonalityFactor,
				f.CurrentStock,
				f.LeadTimeDays,
				f.DaysUntilStockout,
				f.Risk,
				f.ReorderPoint,
				f.ReorderQuantity,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert forecast for %s: %w", f.SKU, err)
			}
		}

		return nil
	})
}

func (r *forecastRepository) GetLatestForecast(ctx context.Context, sku string) (*domain.SKUForecast, error) {
	query := `
		SELECT *
		FROM sku_forecasts
		WHERE sku = $1
		ORDER BY forecast_date DESC
		LIMIT 1
	`

	var f domain.SKUForecast
	if err := r.db.GetContext(ctx, &f, query, sku); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading latest forecast for %s: %w", sku, err)
	}
	return &f, nil
}

func (r *forecastRepository) GetForecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, int, error) {
	base := `
		FROM sku_forecasts f
		WHERE f.forecast_date = (SELECT MAX(forecast_date) FROM sku_forecasts)
	`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if len(filter.SKUs) > 0 {
		placeholders := make([]string, len(filter.SKUs))
		for i, sku := range filter.SKUs {
			placeholders[i] = fmt.Sprintf("$%d", argCounter)
			args = append(args, sku)
			argCounter++
		}
		conditions = append(conditions, fmt.Sprintf("f.sku IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(filter.Risks) > 0 {
		placeholders := make([]string, len(filter.Risks))
		for i, risk := range filter.Risks {
			placeholders[i] = fmt.Sprintf("$%d", argCounter)
			args = append(args, strings.ToUpper(strings.TrimSpace(risk)))
			argCounter++
		}
		conditions = append(conditions, fmt.Sprintf("f.risk IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("error counting forecasts: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	query := fmt.Sprintf(
		"SELECT f.* %s ORDER BY f.days_until_stockout ASC, f.sku ASC LIMIT $%d OFFSET $%d",
		base, argCounter, argCounter+1,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	var forecasts []domain.SKUForecast
	if err := r.db.SelectContext(ctx, &forecasts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("error loading forecasts: %w", err)
	}

	return forecasts, total, nil
}

func (r *forecastRepository) GetSummary(ctx context.Context, date time.Time) (*domain.ForecastSummary, error) {
	query := `
		SELECT risk, COUNT(*) AS count
		FROM sku_forecasts
		WHERE forecast_date = $1
		GROUP BY risk
		ORDER BY count DESC
	`

	var counts []domain.RiskCount
	if err := r.db.SelectContext(ctx, &counts, query, date); err != nil {
		return nil, fmt.Errorf("error loading forecast summary: %w", err)
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}

	return &domain.ForecastSummary{
		ForecastDate: date,
		TotalSKUs:    total,
		RiskCounts:   counts,
	}, nil
}

func (r *forecastRepository) GetLatestForecastDate(ctx context.Context) (time.Time, error) {
	var date sql.NullTime
	if err := r.db.GetContext(ctx, &date, "SELECT MAX(forecast_date) FROM sku_forecasts"); err != nil {
		return time.Time{}, fmt.Errorf("error loading latest forecast date: %w", err)
	}
	if !date.Valid {
		return time.Time{}, nil
	}
	return date.Time, nil
}
