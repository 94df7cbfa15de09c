package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBox_Ordering(t *testing.T) {
	b := NewBox(10, 20, 4, 6)
	assert.InDelta(t, 4.0, b.MinX, 1e-9)
	assert.InDelta(t, 6.0, b.MinY, 1e-9)
	assert.InDelta(t, 6.0, b.Width(), 1e-9)
	assert.InDelta(t, 14.0, b.Height(), 1e-9)
}

func TestBox_ToRect_Clamped(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	rect := NewBox(-5, 10.2, 120, 19.8).ToRect(bounds)
	assert.Equal(t, image.Rect(0, 10, 100, 20), rect)
}

func TestBoundingBox(t *testing.T) {
	pts := []Point{{3, 7}, {1, 9}, {5, 2}}
	b := BoundingBox(pts)
	assert.Equal(t, Box{MinX: 1, MinY: 2, MaxX: 5, MaxY: 9}, b)

	assert.Equal(t, Box{}, BoundingBox(nil))
}

func TestScalePoints(t *testing.T) {
	pts := []Point{{2, 4}, {6, 8}}
	scaled := ScalePoints(pts, 0.5, 0.25)
	assert.Equal(t, []Point{{1, 1}, {3, 2}}, scaled)
}

func TestCropImageBox(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	cropped := CropImageBox(img, NewBox(10, 5, 30, 25))
	assert.Equal(t, 20, cropped.Bounds().Dx())
	assert.Equal(t, 20, cropped.Bounds().Dy())
}

func TestDrawPolygon(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{255, 0, 0, 255}
	DrawPolygon(dst, []Point{{2, 2}, {17, 2}, {17, 17}, {2, 17}}, red, 1)

	assert.Equal(t, red, dst.RGBAAt(10, 2), "top edge drawn")
	assert.Equal(t, red, dst.RGBAAt(2, 10), "left edge drawn")
	assert.NotEqual(t, red, dst.RGBAAt(10, 10), "interior untouched")
}

func TestDrawRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	blue := color.RGBA{B: 255, A: 255}
	DrawRect(dst, image.Rect(3, 3, 15, 12), blue, 1)

	assert.Equal(t, blue, dst.RGBAAt(8, 3), "top edge drawn")
	assert.Equal(t, blue, dst.RGBAAt(8, 11), "bottom edge drawn")
	assert.Equal(t, blue, dst.RGBAAt(3, 8), "left edge drawn")
	assert.Equal(t, blue, dst.RGBAAt(14, 8), "right edge drawn")
	assert.NotEqual(t, blue, dst.RGBAAt(8, 8), "interior untouched")
}

func TestDrawMarker(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	green := color.RGBA{0, 255, 0, 255}
	DrawMarker(dst, Point{5, 5}, green, 2)

	assert.Equal(t, green, dst.RGBAAt(5, 5))
	assert.Equal(t, green, dst.RGBAAt(3, 5))
	assert.Equal(t, green, dst.RGBAAt(5, 7))
	assert.NotEqual(t, green, dst.RGBAAt(3, 3))
}
