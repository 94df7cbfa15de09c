package rectify

import (
	"errors"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

// SampleGrid resamples the source bitmap into a width x height grid through
// the given transform. Each destination cell's center is mapped into source
// space; coordinates that fall outside the source sample as unset.
func SampleGrid(src *bitmap.BitMatrix, width, height int, transform *PerspectiveTransform) (*bitmap.BitMatrix, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("rectify: sample dimensions must be positive")
	}
	bits, err := bitmap.New(width, height)
	if err != nil {
		return nil, err
	}
	points := make([]float64, 2*width)
	for y := 0; y < height; y++ {
		rowCenter := float64(y) + 0.5
		for i := 0; i < len(points); i += 2 {
			points[i] = float64(i/2) + 0.5
			points[i+1] = rowCenter
		}
		transform.TransformPoints(points)
		for i := 0; i < len(points); i += 2 {
			x := int(points[i])
			sy := int(points[i+1])
			if x < 0 || x >= src.Width() || sy < 0 || sy >= src.Height() {
				continue
			}
			if src.Get(x, sy) {
				bits.Set(i/2, y)
			}
		}
	}
	return bits, nil
}
