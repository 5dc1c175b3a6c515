package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, -10.56, Round2(-10.555))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 30.0, Round2(300*0.1))
}

func TestNonNegative(t *testing.T) {
	assert.Equal(t, 0.0, NonNegative(-15))
	assert.Equal(t, 0.0, NonNegative(0))
	assert.Equal(t, 12.5, NonNegative(12.5))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, ClampInt(-3, 0, 10))
	assert.Equal(t, 10, ClampInt(25, 0, 10))
	assert.Equal(t, 7, ClampInt(7, 0, 10))
}
