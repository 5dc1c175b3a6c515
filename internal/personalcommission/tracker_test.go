package personalcommission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	b := Calculate(300, 10, false)
	assert.Equal(t, 15.0, b.FromStore)
	assert.Equal(t, 1.5, b.FromDelivery)
	assert.Equal(t, 16.5, b.Total)
}

func TestCalculateFreeDelivery(t *testing.T) {
	b := Calculate(500, 10, true)
	assert.Equal(t, 25.0, b.FromStore)
	assert.Equal(t, 0.0, b.FromDelivery)
	assert.Equal(t, 25.0, b.Total)
}

func TestCalculateZeroSubtotal(t *testing.T) {
	b := Calculate(0, 10, false)
	assert.Equal(t, 0.0, b.FromStore)
	assert.Equal(t, 1.5, b.FromDelivery)
	assert.Equal(t, 1.5, b.Total)
}

func TestCalculateNegativeSubtotal(t *testing.T) {
	b := Calculate(-50, 10, false)
	assert.Equal(t, 0.0, b.FromStore)
}
