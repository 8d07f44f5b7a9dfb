package forecast

import "math"

// WeightedMovingAverage smooths a daily series (oldest to newest) into a
// single daily-rate estimate. The series is split into len(weights)
// contiguous segments counted backward from the end, each segment is
// averaged, and weights[0] is paired with the most recent segment. When
// the series is too short to fill every segment, the result is
// normalized by the weights that actually saw data so short histories
// stay unbiased.
func WeightedMovingAverage(series []float64, weights []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	if len(series) == 1 {
		return series[0]
	}
	if len(weights) == 0 {
		weights = DefaultWMAWeights
	}

	n := len(series)
	segSize := int(math.Ceil(float64(n) / float64(len(weights))))

	weightedSum := 0.0
	weightSum := 0.0
	for i, w := range weights {
		// segment i counts back from the end; the earliest segment may
		// be short or empty
		end := n - i*segSize
		start := end - segSize
		if start < 0 {
			start = 0
		}
		if end <= 0 || start >= end {
			continue
		}

		sum := 0.0
		for _, v := range series[start:end] {
			sum += v
		}
		mean := sum / float64(end-start)

		weightedSum += mean * w
		weightSum += w
	}

	if weightSum == 0 {
		return 0
	}
	return weightedSum / weightSum
}
