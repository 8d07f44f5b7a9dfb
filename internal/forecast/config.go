package forecast

// RiskThresholds holds the day boundaries for stockout risk tiers.
type RiskThresholds struct {
	Critical int // at or below this many days -> critical
	High     int
	Medium   int
}

// Config holds the tunables for a forecast run. It is supplied by the
// caller and treated as immutable for the duration of a call.
type Config struct {
	MinHistoryDays      int       // data points needed before the mid confidence tier applies
	DefaultForecastDays int       // horizon used by callers when projecting demand forward
	SafetyStockDays     int       // buffer expressed in days of demand
	DefaultLeadTimeDays int       // lead time used when a SKU has no override
	RiskThresholds      RiskThresholds
	WMAWeights          []float64 // most-recent-first weights for the moving average
}

// DefaultWMAWeights bias the moving average toward the most recent
// quarter of the series.
var DefaultWMAWeights = []float64{0.4, 0.3, 0.2, 0.1}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MinHistoryDays:      30,
		DefaultForecastDays: 30,
		SafetyStockDays:     7,
		DefaultLeadTimeDays: 14,
		RiskThresholds: RiskThresholds{
			Critical: 7,
			High:     14,
			Medium:   30,
		},
		WMAWeights: DefaultWMAWeights,
	}
}
