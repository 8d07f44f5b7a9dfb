package forecast

import "math"

// TrendDirection classifies the recent movement of a sales series.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// trendThresholdPct is the percent change beyond which a series is no
// longer considered stable.
const trendThresholdPct = 5

// LinearTrend fits an ordinary least squares line over the series with
// x = 0..n-1. Series shorter than two points yield slope 0 with the
// first value (or 0) as intercept. A degenerate x-distribution falls
// back to slope 0, intercept mean(y).
func LinearTrend(series []float64) (slope, intercept float64) {
	n := len(series)
	if n == 0 {
		return 0, 0
	}
	if n < 2 {
		return 0, series[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / fn
	}

	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept
}

// ClassifyTrend compares the average of the older half of a series with
// the average of the recent half. A zero older average with any recent
// demand counts as a 100% jump.
func ClassifyTrend(olderAvg, recentAvg float64) (TrendDirection, int) {
	var percent int
	if olderAvg != 0 {
		percent = int(math.Round((recentAvg - olderAvg) / olderAvg * 100))
	} else if recentAvg > 0 {
		percent = 100
	}

	switch {
	case percent > trendThresholdPct:
		return TrendUp, percent
	case percent < -trendThresholdPct:
		return TrendDown, percent
	default:
		return TrendStable, percent
	}
}

// trendHalves splits a series at its midpoint and averages each half.
// An empty half averages to zero.
func trendHalves(series []float64) (olderAvg, recentAvg float64) {
	mid := len(series) / 2
	return meanOf(series[:mid]), meanOf(series[mid:])
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
