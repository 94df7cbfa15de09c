package detect

import (
	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

// Semantic slots of a VertexSet. The numbering is load-bearing for the
// correction stage, which derives its line endpoints from fixed slot pairs.
const (
	vxOuterTopLeft = iota
	vxOuterBottomLeft
	vxOuterTopRight
	vxOuterBottomRight
	vxInnerTopLeft
	vxInnerBottomLeft
	vxInnerTopRight
	vxInnerBottomRight
	vxBarTopLeft
	vxBarBottomLeft
	vxBarTopRight
	vxBarBottomRight
	vxCodewordTopLeft
	vxCodewordBottomLeft
	vxCodewordTopRight
	vxCodewordBottomRight

	vertexCount
)

// VertexSet holds the 16 points that describe a located symbol: the four
// outer barcode corners, the four inner codeword-area corners, one point on
// the top/bottom edge of each wide guard bar, and the four corrected
// codeword-area corners. Slots are populated incrementally; a slot is only
// meaningful once its stage has run.
type VertexSet struct {
	points  [vertexCount]Point
	present [vertexCount]bool
}

func (v *VertexSet) set(slot int, p Point) {
	v.points[slot] = p
	v.present[slot] = true
}

func (v *VertexSet) at(slot int) Point {
	return v.points[slot]
}

// OuterTopLeft returns the top-left corner of the whole barcode.
func (v *VertexSet) OuterTopLeft() Point { return v.points[vxOuterTopLeft] }

// OuterBottomLeft returns the bottom-left corner of the whole barcode.
func (v *VertexSet) OuterBottomLeft() Point { return v.points[vxOuterBottomLeft] }

// OuterTopRight returns the top-right corner of the whole barcode.
func (v *VertexSet) OuterTopRight() Point { return v.points[vxOuterTopRight] }

// OuterBottomRight returns the bottom-right corner of the whole barcode.
func (v *VertexSet) OuterBottomRight() Point { return v.points[vxOuterBottomRight] }

// InnerTopLeft returns the top-left corner of the codeword area.
func (v *VertexSet) InnerTopLeft() Point { return v.points[vxInnerTopLeft] }

// InnerBottomLeft returns the bottom-left corner of the codeword area.
func (v *VertexSet) InnerBottomLeft() Point { return v.points[vxInnerBottomLeft] }

// InnerTopRight returns the top-right corner of the codeword area.
func (v *VertexSet) InnerTopRight() Point { return v.points[vxInnerTopRight] }

// InnerBottomRight returns the bottom-right corner of the codeword area.
func (v *VertexSet) InnerBottomRight() Point { return v.points[vxInnerBottomRight] }

// CodewordTopLeft returns the corrected top-left codeword-area corner.
func (v *VertexSet) CodewordTopLeft() Point { return v.points[vxCodewordTopLeft] }

// CodewordBottomLeft returns the corrected bottom-left codeword-area corner.
func (v *VertexSet) CodewordBottomLeft() Point { return v.points[vxCodewordBottomLeft] }

// CodewordTopRight returns the corrected top-right codeword-area corner.
func (v *VertexSet) CodewordTopRight() Point { return v.points[vxCodewordTopRight] }

// CodewordBottomRight returns the corrected bottom-right codeword-area corner.
func (v *VertexSet) CodewordBottomRight() Point { return v.points[vxCodewordBottomRight] }

// Corrected reports whether all four corrected codeword-area corners are
// populated. Rectification must not run before this holds.
func (v *VertexSet) Corrected() bool {
	return v.present[vxCodewordTopLeft] && v.present[vxCodewordBottomLeft] &&
		v.present[vxCodewordTopRight] && v.present[vxCodewordBottomRight]
}

// findVertices locates the outer and inner vertices of a symbol assuming the
// image is upright, scanning every rowStep-th row for the start and stop
// guard patterns. Each stage only runs if the previous one succeeded; a
// failed stage yields no partial result.
func findVertices(m *bitmap.BitMatrix, rowStep int) (*VertexSet, bool) {
	height := m.Height()
	width := m.Width()

	result := &VertexSet{}
	counters := make([]int, len(startPattern))
	found := false

	// Top left
	for i := 0; i < height; i += rowStep {
		if start, end, ok := findGuardPattern(m, 0, i, width, false, startPattern, counters); ok {
			result.set(vxOuterTopLeft, Point{X: float64(start), Y: float64(i)})
			result.set(vxInnerTopLeft, Point{X: float64(end), Y: float64(i)})
			found = true
			break
		}
	}
	// Bottom left
	if found {
		found = false
		for i := height - 1; i > 0; i -= rowStep {
			if start, end, ok := findGuardPattern(m, 0, i, width, false, startPattern, counters); ok {
				result.set(vxOuterBottomLeft, Point{X: float64(start), Y: float64(i)})
				result.set(vxInnerBottomLeft, Point{X: float64(end), Y: float64(i)})
				found = true
				break
			}
		}
	}

	counters = make([]int, len(stopPattern))

	// Top right
	if found {
		found = false
		for i := 0; i < height; i += rowStep {
			if start, end, ok := findGuardPattern(m, 0, i, width, false, stopPattern, counters); ok {
				result.set(vxOuterTopRight, Point{X: float64(end), Y: float64(i)})
				result.set(vxInnerTopRight, Point{X: float64(start), Y: float64(i)})
				found = true
				break
			}
		}
	}
	// Bottom right
	if found {
		found = false
		for i := height - 1; i > 0; i -= rowStep {
			if start, end, ok := findGuardPattern(m, 0, i, width, false, stopPattern, counters); ok {
				result.set(vxOuterBottomRight, Point{X: float64(end), Y: float64(i)})
				result.set(vxInnerBottomRight, Point{X: float64(start), Y: float64(i)})
				found = true
				break
			}
		}
	}

	return result, found
}

// findVertices180 locates the vertices assuming the image is rotated by 180
// degrees. It searches the reversed patterns restricted to image halves and
// re-maps the located points so the result describes a 0-degree rotation.
func findVertices180(m *bitmap.BitMatrix, rowStep int) (*VertexSet, bool) {
	height := m.Height()
	width := m.Width()
	halfWidth := width >> 1

	result := &VertexSet{}
	counters := make([]int, len(startPatternReverse))
	found := false

	// Top left (right half of the rotated image, scanned bottom-up)
	for i := height - 1; i > 0; i -= rowStep {
		if start, end, ok := findGuardPattern(m, halfWidth, i, halfWidth, true, startPatternReverse, counters); ok {
			result.set(vxOuterTopLeft, Point{X: float64(end), Y: float64(i)})
			result.set(vxInnerTopLeft, Point{X: float64(start), Y: float64(i)})
			found = true
			break
		}
	}
	// Bottom left
	if found {
		found = false
		for i := 0; i < height; i += rowStep {
			if start, end, ok := findGuardPattern(m, halfWidth, i, halfWidth, true, startPatternReverse, counters); ok {
				result.set(vxOuterBottomLeft, Point{X: float64(end), Y: float64(i)})
				result.set(vxInnerBottomLeft, Point{X: float64(start), Y: float64(i)})
				found = true
				break
			}
		}
	}

	counters = make([]int, len(stopPatternReverse))

	// Top right (left half of the rotated image, scanned bottom-up)
	if found {
		found = false
		for i := height - 1; i > 0; i -= rowStep {
			if start, end, ok := findGuardPattern(m, 0, i, halfWidth, false, stopPatternReverse, counters); ok {
				result.set(vxOuterTopRight, Point{X: float64(start), Y: float64(i)})
				result.set(vxInnerTopRight, Point{X: float64(end), Y: float64(i)})
				found = true
				break
			}
		}
	}
	// Bottom right
	if found {
		found = false
		for i := 0; i < height; i += rowStep {
			if start, end, ok := findGuardPattern(m, 0, i, halfWidth, false, stopPatternReverse, counters); ok {
				result.set(vxOuterBottomRight, Point{X: float64(start), Y: float64(i)})
				result.set(vxInnerBottomRight, Point{X: float64(end), Y: float64(i)})
				found = true
				break
			}
		}
	}

	return result, found
}
