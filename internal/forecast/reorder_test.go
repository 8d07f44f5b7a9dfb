package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorderQuantity(t *testing.T) {
	assert.Equal(t, 105, ReorderQuantity(5, 14, 7))
	assert.Equal(t, 0, ReorderQuantity(0, 14, 7))
	assert.Equal(t, 0, ReorderQuantity(-2, 14, 7))
	assert.Equal(t, 38, ReorderQuantity(2.5, 10, 5)) // 37.5 rounds up
}

func TestReorderPoint(t *testing.T) {
	assert.Equal(t, 30, ReorderPoint(2, 10, 5))
	assert.Equal(t, 0, ReorderPoint(0, 10, 5))
	assert.Equal(t, 38, ReorderPoint(2.5, 10, 5))
}

// The point and quantity formulas are intentionally identical today;
// this pins the behavior so a divergence is a conscious choice.
func TestReorderPointMatchesQuantity(t *testing.T) {
	cases := []struct {
		demand     float64
		leadTime   int
		safetyDays int
	}{
		{1, 7, 3},
		{4.2, 14, 7},
		{0.5, 30, 0},
		{12, 2, 21},
	}
	for _, c := range cases {
		assert.Equal(t,
			ReorderQuantity(c.demand, c.leadTime, c.safetyDays),
			ReorderPoint(c.demand, c.leadTime, c.safetyDays))
	}
}

func TestPlanReorder(t *testing.T) {
	plan := PlanReorder(5, 14, 7)
	assert.Equal(t, ReorderRecommendation{ReorderPoint: 105, ReorderQuantity: 105}, plan)

	assert.Equal(t, ReorderRecommendation{}, PlanReorder(0, 14, 7))
}
