// internal/config/config.go
package config

import (
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/demandcast/internal/forecast"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Forecast forecast.Config
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		defaults := forecast.DefaultConfig()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "demandcast")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "forecast-snapshots")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("FORECAST_MIN_HISTORY_DAYS", defaults.MinHistoryDays)
		viper.SetDefault("FORECAST_DEFAULT_FORECAST_DAYS", defaults.DefaultForecastDays)
		viper.SetDefault("FORECAST_SAFETY_STOCK_DAYS", defaults.SafetyStockDays)
		viper.SetDefault("FORECAST_DEFAULT_LEAD_TIME_DAYS", defaults.DefaultLeadTimeDays)
		viper.SetDefault("FORECAST_RISK_CRITICAL_DAYS", defaults.RiskThresholds.Critical)
		viper.SetDefault("FORECAST_RISK_HIGH_DAYS", defaults.RiskThresholds.High)
		viper.SetDefault("FORECAST_RISK_MEDIUM_DAYS", defaults.RiskThresholds.Medium)
		viper.SetDefault("FORECAST_WMA_WEIGHTS", "")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Forecast: loadForecastConfig(defaults),
		}
	})

	return instance
}

func loadForecastConfig(defaults forecast.Config) forecast.Config {
	cfg := forecast.Config{
		MinHistoryDays:      viper.GetInt("FORECAST_MIN_HISTORY_DAYS"),
		DefaultForecastDays: viper.GetInt("FORECAST_DEFAULT_FORECAST_DAYS"),
		SafetyStockDays:     viper.GetInt("FORECAST_SAFETY_STOCK_DAYS"),
		DefaultLeadTimeDays: viper.GetInt("FORECAST_DEFAULT_LEAD_TIME_DAYS"),
		RiskThresholds: forecast.RiskThresholds{
			Critical: viper.GetInt("FORECAST_RISK_CRITICAL_DAYS"),
			High:     viper.GetInt("FORECAST_RISK_HIGH_DAYS"),
			Medium:   viper.GetInt("FORECAST_RISK_MEDIUM_DAYS"),
		},
		WMAWeights: parseWeights(viper.GetString("FORECAST_WMA_WEIGHTS")),
	}
	if len(cfg.WMAWeights) == 0 {
		cfg.WMAWeights = defaults.WMAWeights
	}
	return cfg
}

// parseWeights reads a comma-separated weight list, e.g. "0.4,0.3,0.2,0.1".
// Any invalid or negative entry invalidates the whole list so a typo falls
// back to the defaults instead of silently skewing the average.
func parseWeights(raw string) []float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	weights := make([]float64, 0, len(parts))
	for _, part := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || w < 0 {
			return nil
		}
		weights = append(weights, w)
	}
	return weights
}
