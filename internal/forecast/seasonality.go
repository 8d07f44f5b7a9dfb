package forecast

// Seasonality holds the derived per-month demand multipliers together
// with how many distinct months the source data actually covered. The
// coefficient map is always fully populated for months 1-12.
type Seasonality struct {
	Coefficients   map[int]float64
	MonthsObserved int
}

// Factor returns the multiplier for the given month, defaulting to 1.0
// when the month is unknown.
func (s Seasonality) Factor(month int) float64 {
	if s.Coefficients == nil {
		return 1.0
	}
	if f, ok := s.Coefficients[month]; ok {
		return f
	}
	return 1.0
}

// NeutralSeasonality returns a seasonality table where every month maps
// to 1.0 and no coverage is recorded.
func NeutralSeasonality() Seasonality {
	coeffs := make(map[int]float64, 12)
	for m := 1; m <= 12; m++ {
		coeffs[m] = 1.0
	}
	return Seasonality{Coefficients: coeffs}
}

// AnalyzeSeasonality derives monthly multipliers from aggregated monthly
// sales (month 1-12 -> total units across all observed years). The input
// may be sparse or empty; absent months fall back to the neutral 1.0
// multiplier. coefficient[m] = total[m] / mean(all present totals).
func AnalyzeSeasonality(monthly map[int]float64) Seasonality {
	result := NeutralSeasonality()

	observed := 0
	total := 0.0
	for m, v := range monthly {
		if m < 1 || m > 12 {
			continue
		}
		observed++
		total += v
	}
	result.MonthsObserved = observed
	if observed == 0 {
		return result
	}

	avg := total / float64(observed)
	if avg == 0 {
		return result
	}

	for m, v := range monthly {
		if m < 1 || m > 12 {
			continue
		}
		result.Coefficients[m] = v / avg
	}

	return result
}
