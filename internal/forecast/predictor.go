package forecast

import "math"

// DemandPrediction is the ensemble output for a single SKU and target
// month. It is a plain value and is never mutated after construction.
type DemandPrediction struct {
	DailyDemand       float64        `json:"daily_demand"`
	Confidence        int            `json:"confidence"`
	TrendDirection    TrendDirection `json:"trend_direction"`
	TrendPercent      int            `json:"trend_percent"`
	SeasonalityFactor float64        `json:"seasonality_factor"`
}

// PredictDailyDemand combines the weighted moving average, the monthly
// seasonality multiplier and a bounded linear-trend correction into a
// single daily demand estimate. An empty series short-circuits to the
// zero prediction with a neutral seasonality factor.
func PredictDailyDemand(series []float64, targetMonth int, seasonality Seasonality, cfg Config) DemandPrediction {
	if len(series) == 0 {
		return DemandPrediction{
			DailyDemand:       0,
			Confidence:        0,
			TrendDirection:    TrendStable,
			TrendPercent:      0,
			SeasonalityFactor: 1.0,
		}
	}

	wma := WeightedMovingAverage(series, cfg.WMAWeights)
	factor := seasonality.Factor(targetMonth)

	slope, _ := LinearTrend(series)
	olderAvg, recentAvg := trendHalves(series)
	direction, percent := ClassifyTrend(olderAvg, recentAvg)

	// One-week-ahead correction in raw daily units, capped at an
	// absolute +-0.3 regardless of the series' scale. The cap looks
	// like a percentage but is not; kept as-is because downstream
	// reorder math was tuned against it.
	adjustment := clampFloat(slope*7, -0.3, 0.3)

	demand := math.Max(0, wma*factor+adjustment)

	return DemandPrediction{
		DailyDemand:       round2(demand),
		Confidence:        confidenceScore(len(series), seasonality.MonthsObserved, cfg.MinHistoryDays),
		TrendDirection:    direction,
		TrendPercent:      percent,
		SeasonalityFactor: round2(factor),
	}
}

// confidenceScore rates forecast reliability purely from data quantity:
// a staircase over the number of daily points plus a small bonus for
// seasonal coverage. The result is clamped to [0, 100].
func confidenceScore(points, monthsObserved, minHistoryDays int) int {
	var score float64
	switch {
	case points >= 365:
		score = 90
	case points >= 180:
		score = 80
	case points >= 90:
		score = 70
	case points >= minHistoryDays:
		score = 50 + 0.5*float64(points-minHistoryDays)
	case points >= 7:
		score = 30 + 1.5*float64(points-7)
	default:
		score = float64(points) * 4
	}

	if monthsObserved >= 12 {
		score += 5
	} else if monthsObserved >= 6 {
		score += 3
	}

	return int(math.Round(clampFloat(score, 0, 100)))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
