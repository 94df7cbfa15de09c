package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// quad builds an axis-aligned codeword-area quadrilateral of the given pixel
// width and height.
func quad(width, height float64) (tl, tr, bl, br Point) {
	return Point{X: 0, Y: 0}, Point{X: width, Y: 0},
		Point{X: 0, Y: height}, Point{X: width, Y: height}
}

func TestComputeDimension_ExactMultiples(t *testing.T) {
	tests := []struct {
		name        string
		widthPx     float64
		moduleWidth float64
		want        int
	}{
		{"two codeword columns", 34 * 3, 3, 34},
		{"three codeword columns", 51 * 2, 2, 51},
		{"slightly wide snaps down", 34*3 + 7, 3, 34},
		{"slightly narrow snaps up", 34*3 - 7, 3, 34},
		{"one column", 17 * 4, 4, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, tr, bl, br := quad(tt.widthPx, 100)
			got := computeDimension(tl, tr, bl, br, tt.moduleWidth)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, got%17)
		})
	}
}

func TestComputeYDimension(t *testing.T) {
	tl, tr, bl, br := quad(102, 72)
	assert.Equal(t, 24, computeYDimension(tl, tr, bl, br, 3))
}

func TestComputeModuleWidth_Unskewed(t *testing.T) {
	// Outer-to-inner distances of 17w on the left and 18w on the right
	// average to exactly w.
	const w = 3.0
	v := &VertexSet{}
	v.set(vxOuterTopLeft, Point{X: 0, Y: 0})
	v.set(vxInnerTopLeft, Point{X: 17 * w, Y: 0})
	v.set(vxOuterBottomLeft, Point{X: 0, Y: 50})
	v.set(vxInnerBottomLeft, Point{X: 17 * w, Y: 50})
	v.set(vxInnerTopRight, Point{X: 200, Y: 0})
	v.set(vxOuterTopRight, Point{X: 200 + 18*w, Y: 0})
	v.set(vxInnerBottomRight, Point{X: 200, Y: 50})
	v.set(vxOuterBottomRight, Point{X: 200 + 18*w, Y: 50})

	assert.InDelta(t, w, computeModuleWidth(v), 1e-9)
}
