package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/demandcast/internal/config"
	"github.com/andresuchdata/demandcast/internal/domain"
)

const (
	forecastKeyPrefix     = "forecast"
	forecastScanBatchSize = 100
)

// ForecastCache fronts the forecast repository for read-heavy API
// traffic. Implementations must be safe for concurrent use.
type ForecastCache interface {
	GetForecast(ctx context.Context, sku string) (*domain.SKUForecast, bool, error)
	SetForecast(ctx context.Context, f *domain.SKUForecast) error
	GetForecastList(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, int, bool, error)
	SetForecastList(ctx context.Context, filter domain.ForecastFilter, forecasts []domain.SKUForecast, total int) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

type cachedForecastList struct {
	Forecasts []domain.SKUForecast `json:"forecasts"`
	Total     int                  `json:"total"`
}

// NewForecastCache builds a redis-backed cache, or a no-op cache when
// caching is disabled in config.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetForecast(ctx context.Context, sku string) (*domain.SKUForecast, bool, error) {
	key := buildForecastKey(sku)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var f domain.SKUForecast
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return &f, true, nil
}

func (c *redisForecastCache) SetForecast(ctx context.Context, f *domain.SKUForecast) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastKey(f.SKU), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) GetForecastList(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, int, bool, error) {
	key := buildForecastListKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis get failed: %w", err)
	}

	var cached cachedForecastList
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, 0, false, fmt.Errorf("decode forecast list cache: %w", err)
	}

	return cached.Forecasts, cached.Total, true, nil
}

func (c *redisForecastCache) SetForecastList(ctx context.Context, filter domain.ForecastFilter, forecasts []domain.SKUForecast, total int) error {
	payload, err := json.Marshal(cachedForecastList{Forecasts: forecasts, Total: total})
	if err != nil {
		return fmt.Errorf("encode forecast list cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastListKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, forecastScanBatchSize)
}

func (n *noopForecastCache) GetForecast(ctx context.Context, sku string) (*domain.SKUForecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetForecast(ctx context.Context, f *domain.SKUForecast) error {
	return nil
}

func (n *noopForecastCache) GetForecastList(ctx context.Context, filter domain.ForecastFilter) ([]domain.SKUForecast, int, bool, error) {
	return nil, 0, false, nil
}

func (n *noopForecastCache) SetForecastList(ctx context.Context, filter domain.ForecastFilter, forecasts []domain.SKUForecast, total int) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildForecastKey(sku string) string {
	return fmt.Sprintf("%s:sku:%s", forecastKeyPrefix, strings.TrimSpace(sku))
}

func buildForecastListKey(filter domain.ForecastFilter) string {
	return fmt.Sprintf("%s:list:%s", forecastKeyPrefix, forecastFilterHash(filter))
}

// forecastFilterHash builds a stable key from a filter: normalized parts
// are sorted before hashing so logically equal filters share an entry.
func forecastFilterHash(filter domain.ForecastFilter) string {
	parts := []string{}

	if len(filter.SKUs) > 0 {
		parts = append(parts, "skus="+joinNormalized(filter.SKUs))
	}
	if len(filter.Risks) > 0 {
		parts = append(parts, "risks="+joinNormalized(filter.Risks))
	}
	if filter.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", filter.Page))
	}
	if filter.PageSize > 0 {
		parts = append(parts, fmt.Sprintf("page_size=%d", filter.PageSize))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func joinNormalized(values []string) string {
	c := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			c = append(c, v)
		}
	}
	sort.Strings(c)
	return strings.Join(c, ",")
}
