package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/demandcast/internal/domain"
)

func TestForecastFilterHashStableUnderOrdering(t *testing.T) {
	a := domain.ForecastFilter{
		SKUs:  []string{"sku-b", "sku-a"},
		Risks: []string{"critical", "HIGH"},
		Page:  2,
	}
	b := domain.ForecastFilter{
		SKUs:  []string{"SKU-A", " sku-b "},
		Risks: []string{"High", "CRITICAL"},
		Page:  2,
	}

	assert.Equal(t, forecastFilterHash(a), forecastFilterHash(b))
}

func TestForecastFilterHashDistinguishesFilters(t *testing.T) {
	base := domain.ForecastFilter{Risks: []string{"CRITICAL"}}
	other := domain.ForecastFilter{Risks: []string{"HIGH"}}
	paged := domain.ForecastFilter{Risks: []string{"CRITICAL"}, Page: 3}

	assert.NotEqual(t, forecastFilterHash(base), forecastFilterHash(other))
	assert.NotEqual(t, forecastFilterHash(base), forecastFilterHash(paged))
}

func TestForecastFilterHashEmptyFilter(t *testing.T) {
	assert.Equal(t, "default", forecastFilterHash(domain.ForecastFilter{}))
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	c := NewNoopForecastCache()
	ctx := context.Background()

	f, ok, err := c.GetForecast(ctx, "sku-1")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, f)

	assert.NoError(t, c.SetForecast(ctx, &domain.SKUForecast{SKU: "sku-1"}))

	// still a miss after set
	_, ok, err = c.GetForecast(ctx, "sku-1")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.InvalidateAll(ctx))
}
