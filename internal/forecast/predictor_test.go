package forecast

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictDailyDemandEmptySeries(t *testing.T) {
	got := PredictDailyDemand(nil, 6, AnalyzeSeasonality(map[int]float64{6: 500}), DefaultConfig())

	assert.Equal(t, DemandPrediction{
		DailyDemand:       0,
		Confidence:        0,
		TrendDirection:    TrendStable,
		TrendPercent:      0,
		SeasonalityFactor: 1.0,
	}, got)
}

func TestPredictDailyDemandConstantWeek(t *testing.T) {
	series := []float64{10, 10, 10, 10, 10, 10, 10}
	got := PredictDailyDemand(series, 3, NeutralSeasonality(), DefaultConfig())

	assert.InDelta(t, 10.0, got.DailyDemand, 0.01)
	assert.Equal(t, 30, got.Confidence) // 7 points hits the floor of the 7+ tier
	assert.Equal(t, TrendStable, got.TrendDirection)
	assert.Equal(t, 0, got.TrendPercent)
	assert.Equal(t, 1.0, got.SeasonalityFactor)
}

func TestPredictDailyDemandAppliesSeasonality(t *testing.T) {
	series := []float64{10, 10, 10, 10, 10, 10, 10, 10}
	seasonality := AnalyzeSeasonality(map[int]float64{11: 100, 12: 300})

	peak := PredictDailyDemand(series, 12, seasonality, DefaultConfig())
	trough := PredictDailyDemand(series, 11, seasonality, DefaultConfig())

	assert.InDelta(t, 15.0, peak.DailyDemand, 0.01)
	assert.InDelta(t, 5.0, trough.DailyDemand, 0.01)
	assert.Equal(t, 1.5, peak.SeasonalityFactor)
	assert.Equal(t, 0.5, trough.SeasonalityFactor)
}

func TestPredictDailyDemandTrendAdjustmentIsClamped(t *testing.T) {
	// steep ramp: slope 5/day, raw adjustment would be 35 but is capped
	// at 0.3
	series := make([]float64, 30)
	for i := range series {
		series[i] = float64(i * 5)
	}
	got := PredictDailyDemand(series, 1, NeutralSeasonality(), DefaultConfig())

	wma := WeightedMovingAverage(series, DefaultWMAWeights)
	assert.InDelta(t, round2(wma+0.3), got.DailyDemand, 1e-9)
	assert.Equal(t, TrendUp, got.TrendDirection)
}

func TestPredictDailyDemandNeverNegative(t *testing.T) {
	// steep decline with a tiny base: adjustment is clamped to -0.3 but
	// the result still floors at zero
	series := []float64{0.2, 0.15, 0.1, 0.05, 0, 0, 0, 0}
	got := PredictDailyDemand(series, 1, NeutralSeasonality(), DefaultConfig())
	assert.GreaterOrEqual(t, got.DailyDemand, 0.0)
}

func TestPredictDailyDemandDeterminism(t *testing.T) {
	series := []float64{3, 0, 7, 2, 9, 4, 1, 8, 6, 5, 2, 7}
	seasonality := AnalyzeSeasonality(map[int]float64{1: 10, 2: 30, 5: 20})
	cfg := DefaultConfig()

	first := PredictDailyDemand(series, 5, seasonality, cfg)
	second := PredictDailyDemand(series, 5, seasonality, cfg)
	require.Equal(t, first, second)
}

func TestConfidenceScoreTiers(t *testing.T) {
	min := DefaultConfig().MinHistoryDays

	tests := []struct {
		points int
		months int
		want   int
	}{
		{0, 0, 0},
		{3, 0, 12},   // 3*4
		{7, 0, 30},   // floor of the weekly tier
		{10, 0, 35},  // 30 + 1.5*3 = 34.5, rounded half away from zero
		{min, 0, 50}, // floor of the history tier
		{90, 0, 70},
		{180, 0, 80},
		{365, 0, 90},
		{400, 0, 90},
		{365, 6, 93},
		{365, 12, 95},
		{90, 12, 75},
	}

	for _, tt := range tests {
		got := confidenceScore(tt.points, tt.months, min)
		assert.Equal(t, tt.want, got, "points=%d months=%d", tt.points, tt.months)
	}
}

func TestConfidenceScoreClamped(t *testing.T) {
	assert.LessOrEqual(t, confidenceScore(10000, 12, 30), 100)
	assert.GreaterOrEqual(t, confidenceScore(0, 0, 30), 0)
}

func TestConfidenceScoreMonotonicWithinTiers(t *testing.T) {
	// Sample random increasing point counts inside each continuous tier
	// and require the score never decreases. The tier boundaries
	// themselves are not monotone (89 points outscores 90 with the
	// default min history); that quirk is preserved deliberately, see
	// DESIGN.md.
	min := DefaultConfig().MinHistoryDays
	r := rand.New(rand.NewSource(1))

	tiers := [][2]int{
		{0, 6},
		{7, min - 1},
		{min, 89},
		{90, 179},
		{180, 364},
		{365, 500},
	}

	for _, tier := range tiers {
		lo, hi := tier[0], tier[1]
		for trial := 0; trial < 20; trial++ {
			lengths := make([]int, 15)
			for i := range lengths {
				lengths[i] = lo + r.Intn(hi-lo+1)
			}
			sort.Ints(lengths)

			prev := -1
			for _, n := range lengths {
				score := confidenceScore(n, 6, min)
				require.GreaterOrEqual(t, score, prev, "points=%d tier=[%d,%d]", n, lo, hi)
				prev = score
			}
		}
	}
}
