package box

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewRectangularPeriodic(t *testing.T) {
	p, err := NewRectangularPeriodic(r3.Vec{X: 2, Y: 3, Z: 4})
	require.NoError(t, err)
	assert.InDelta(t, 24, p.Volume(), 1e-12)
	assert.Equal(t, 3, p.Dimension())

	for _, size := range []r3.Vec{
		{X: 0, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: 1},
		{X: 1, Y: 1, Z: math.Inf(1)},
		{X: math.NaN(), Y: 1, Z: 1},
	} {
		_, err = NewRectangularPeriodic(size)
		assert.ErrorIs(t, err, ErrInvalidArgument, "size %v", size)
	}
}

func TestNearestImage(t *testing.T) {
	p, err := NewCubic(10)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: -4, Y: 4, Z: 4}, p.NearestImage(r3.Vec{X: 6, Y: -6, Z: 4}))
	assert.Equal(t, r3.Vec{X: 1, Y: 0, Z: -3}, p.NearestImage(r3.Vec{X: 21, Y: 0, Z: 7}))
}
