package detect

import (
	"math"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

// guardProximityLimit is the minimum vertical distance, in pixels, between
// an outer/inner vertex pair for the guard patterns to be trusted. The value
// is fixed regardless of image resolution.
const guardProximityLimit = 20.0

// Wide-bar geometry expressed in modules relative to the full pattern: the
// start pattern's wide bar spans modules [0, 8) of 17, the stop pattern's
// spans modules [11, 18) of 18.
const (
	startWideBarOffset = 0
	startWideBarLen    = 8
	startPatternLen    = 17

	stopWideBarOffset = 11
	stopWideBarLen    = 7
	stopPatternLen    = 18
)

// pixel is a bounds-checked read; coordinates outside the image are unset.
func pixel(m *bitmap.BitMatrix, x, y int) bool {
	if x < 0 || x >= m.Width() || y < 0 || y >= m.Height() {
		return false
	}
	return m.Get(x, y)
}

// correctVertices refines the raw vertices by locating the top and bottom of
// each wide guard bar, then intersecting the upper/lower boundary lines with
// the inner vertical edges. It populates the bar-edge and corrected
// codeword-area slots of v.
func correctVertices(m *bitmap.BitMatrix, v *VertexSet, upsideDown bool) error {
	lowLeft := math.Abs(v.at(vxInnerTopLeft).Y-v.at(vxInnerBottomLeft).Y) < guardProximityLimit
	lowRight := math.Abs(v.at(vxInnerTopRight).Y-v.at(vxInnerBottomRight).Y) < guardProximityLimit
	if lowLeft || lowRight {
		return notFound(ReasonGuardTooClose)
	}

	up, down := -1, 1
	if upsideDown {
		up, down = 1, -1
	}
	findWideBarTopBottom(m, v, vxOuterTopLeft, startWideBarOffset, startWideBarLen, startPatternLen, up)
	findWideBarTopBottom(m, v, vxOuterBottomLeft, startWideBarOffset, startWideBarLen, startPatternLen, down)
	findWideBarTopBottom(m, v, vxOuterTopRight, stopWideBarOffset, stopWideBarLen, stopPatternLen, up)
	findWideBarTopBottom(m, v, vxOuterBottomRight, stopWideBarOffset, stopWideBarLen, stopPatternLen, down)

	crossings := [4]struct {
		result, lineA1, lineA2, lineB1, lineB2 int
	}{
		{vxCodewordTopLeft, vxInnerTopLeft, vxInnerBottomLeft, vxBarTopLeft, vxBarTopRight},
		{vxCodewordBottomLeft, vxInnerTopLeft, vxInnerBottomLeft, vxBarBottomLeft, vxBarBottomRight},
		{vxCodewordTopRight, vxInnerTopRight, vxInnerBottomRight, vxBarTopLeft, vxBarTopRight},
		{vxCodewordBottomRight, vxInnerTopRight, vxInnerBottomRight, vxBarBottomLeft, vxBarBottomRight},
	}
	for _, c := range crossings {
		if err := findCrossingPoint(m, v, c.result, c.lineA1, c.lineA2, c.lineB1, c.lineB2); err != nil {
			return err
		}
	}
	return nil
}

// findWideBarTopBottom traces the wide black bar of a guard pattern
// vertically until it ends, storing the reached point into the bar-edge slot
// paired with the given outer vertex. It only searches along the y axis, so
// the point drifts for strongly curved symbols.
//
// barOffset and barLen position the wide bar inside the pattern, patternLen
// is the full pattern length in modules, and rowStep is +1 to walk down or
// -1 to walk up.
func findWideBarTopBottom(m *bitmap.BitMatrix, v *VertexSet, outerSlot, barOffset, barLen, patternLen, rowStep int) {
	outer := v.at(outerSlot)
	inner := v.at(outerSlot + 4)

	// Start horizontally at the middle of the wide bar, interpolated between
	// the outer and inner vertex along the pattern-relative offsets.
	barDiff := inner.X - outer.X
	barStart := outer.X + barDiff*float64(barOffset)/float64(patternLen)
	barEnd := outer.X + barDiff*float64(barOffset+barLen)/float64(patternLen)
	x := roundHalfUp((barStart + barEnd) / 2)

	// Start vertically at the already-known row of the outer vertex.
	yStart := roundHalfUp(outer.Y)
	y := yStart

	// Locate the thin bar to the right once; its continued presence
	// corroborates that we are still inside the guard pattern.
	nextBarX := int(math.Max(barStart, barEnd)) + 1
	for ; nextBarX < m.Width(); nextBarX++ {
		if !m.Get(nextBarX-1, y) && m.Get(nextBarX, y) {
			break
		}
	}
	nextBarX -= x

	isEnd := false
	for !isEnd {
		if pixel(m, x, y) {
			// If the thin bar to the right ended, stop as well.
			isEnd = !pixel(m, x+nextBarX, y) && !pixel(m, x+nextBarX+1, y)
			y += rowStep
			if y <= 0 || y >= m.Height()-1 {
				// End of the barcode image reached.
				isEnd = true
			}
		} else if x > 0 && m.Get(x-1, y) {
			// Probe sideways in case the bar continues under local skew.
			x--
		} else if x < m.Width()-1 && m.Get(x+1, y) {
			x++
		} else {
			isEnd = true
			if y != yStart {
				// The last step overshot the bar end; back up one row.
				y -= rowStep
			}
		}
	}

	v.set(outerSlot+8, Point{X: float64(x), Y: float64(y)})
}

// findCrossingPoint intersects the line through slots (lineA1, lineA2) with
// the line through (lineB1, lineB2) and stores the result into resultSlot.
// Parallel lines and intersections outside the image are hard failures.
func findCrossingPoint(m *bitmap.BitMatrix, v *VertexSet, resultSlot, lineA1, lineA2, lineB1, lineB2 int) error {
	a := Line{Start: v.at(lineA1), End: v.at(lineA2)}
	b := Line{Start: v.at(lineB1), End: v.at(lineB2)}

	p, ok := Intersect(a, b)
	if !ok {
		return notFound(ReasonParallelLines)
	}

	x := roundHalfUp(p.X)
	y := roundHalfUp(p.Y)
	if x < 0 || x >= m.Width() || y < 0 || y >= m.Height() {
		return notFound(ReasonCrossingOutOfBounds)
	}

	v.set(resultSlot, p)
	return nil
}
