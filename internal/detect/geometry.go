package detect

import "math"

// intersectionEpsilon is the determinant magnitude below which two lines are
// treated as parallel.
const intersectionEpsilon = 1e-12

// Point is an immutable 2D coordinate in image space.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Line is a line through two points, used only for intersection computation.
type Line struct {
	Start Point
	End   Point
}

// Intersect computes the intersection of two lines in determinant form.
// It reports ok=false when the lines are parallel or near-parallel; callers
// must treat that as a hard failure and never substitute a default point.
func Intersect(a, b Line) (Point, bool) {
	dxa := a.Start.X - a.End.X
	dxb := b.Start.X - b.End.X
	dya := a.Start.Y - a.End.Y
	dyb := b.Start.Y - b.End.Y

	denom := dxa*dyb - dya*dxb
	if math.Abs(denom) < intersectionEpsilon {
		return Point{}, false
	}

	p := a.Start.X*a.End.Y - a.Start.Y*a.End.X
	q := b.Start.X*b.End.Y - b.Start.Y*b.End.X
	return Point{
		X: (p*dxb - dxa*q) / denom,
		Y: (p*dyb - dya*q) / denom,
	}, true
}

// roundHalfUp rounds to the nearest integer with ties rounding up.
func roundHalfUp(d float64) int {
	return int(d + 0.5)
}
