package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}), 1e-12)
	assert.InDelta(t, 0.0, Distance(Point{X: 2, Y: 7}, Point{X: 2, Y: 7}), 1e-12)
}

func TestIntersect_Parallel(t *testing.T) {
	// Two horizontal lines at distinct y never intersect.
	a := Line{Start: Point{X: 0, Y: 0}, End: Point{X: 10, Y: 0}}
	b := Line{Start: Point{X: 0, Y: 5}, End: Point{X: 10, Y: 5}}

	_, ok := Intersect(a, b)
	assert.False(t, ok)
}

func TestIntersect_Coincident(t *testing.T) {
	a := Line{Start: Point{X: 0, Y: 0}, End: Point{X: 10, Y: 10}}

	_, ok := Intersect(a, a)
	assert.False(t, ok)
}

func TestIntersect_Analytic(t *testing.T) {
	// y = x and y = -x + 4 intersect at (2, 2).
	a := Line{Start: Point{X: 0, Y: 0}, End: Point{X: 10, Y: 10}}
	b := Line{Start: Point{X: 0, Y: 4}, End: Point{X: 4, Y: 0}}

	p, ok := Intersect(a, b)
	require.True(t, ok)
	assert.InDelta(t, 2.0, p.X, 1e-9)
	assert.InDelta(t, 2.0, p.Y, 1e-9)
}

func TestIntersect_AxisAligned(t *testing.T) {
	// A vertical and a horizontal line, the shape of the corrected-corner
	// computation for an unskewed symbol.
	a := Line{Start: Point{X: 75, Y: 10}, End: Point{X: 75, Y: 90}}
	b := Line{Start: Point{X: 20, Y: 24}, End: Point{X: 180, Y: 24}}

	p, ok := Intersect(a, b)
	require.True(t, ok)
	assert.InDelta(t, 75.0, p.X, 1e-9)
	assert.InDelta(t, 24.0, p.Y, 1e-9)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 2, roundHalfUp(1.5))
	assert.Equal(t, 1, roundHalfUp(1.49))
	assert.Equal(t, 2, roundHalfUp(2.0))
	assert.Equal(t, 3, roundHalfUp(2.5))
}
