package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

// SymbolImageConfig controls how a rendered symbol bitmap is turned into a
// grayscale test image.
type SymbolImageConfig struct {
	Background color.Color
	Foreground color.Color
	Rotation   float64 // rotation in degrees, applied after rendering
	Caption    string  // optional label drawn under the symbol
}

// DefaultSymbolImageConfig returns a clean black-on-white configuration.
func DefaultSymbolImageConfig() SymbolImageConfig {
	return SymbolImageConfig{
		Background: color.White,
		Foreground: color.Black,
	}
}

// SymbolImage converts a rendered symbol bitmap into an image, one pixel per
// bitmap cell. Set cells become foreground pixels.
func SymbolImage(m *bitmap.BitMatrix, config SymbolImageConfig) image.Image {
	height := m.Height()
	captionHeight := 0
	if config.Caption != "" {
		captionHeight = basicfont.Face7x13.Metrics().Height.Ceil() + 4
	}

	img := image.NewRGBA(image.Rect(0, 0, m.Width(), height+captionHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{config.Background}, image.Point{}, draw.Src)

	for y := 0; y < height; y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				img.Set(x, y, config.Foreground)
			}
		}
	}

	if config.Caption != "" {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{config.Foreground},
			Face: basicfont.Face7x13,
		}
		textWidth := font.MeasureString(basicfont.Face7x13, config.Caption).Ceil()
		drawer.Dot = fixed.P((m.Width()-textWidth)/2, height+captionHeight-4)
		drawer.DrawString(config.Caption)
	}

	if config.Rotation != 0 {
		rotated := imaging.Rotate(img, config.Rotation, config.Background)
		rgba := image.NewRGBA(rotated.Bounds())
		draw.Draw(rgba, rgba.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
		return rgba
	}

	return img
}

// AddNoise flips pixel intensities at roughly the given rate to simulate
// scanning artifacts.
func AddNoise(img image.Image, noiseLevel float64) *image.RGBA {
	bounds := img.Bounds()
	noisy := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()

			if noiseLevel > 0 && math.Mod(float64(x*y), 1.0/noiseLevel) < 1.0 {
				if (x+y)%2 == 0 {
					r = 65535 - r
					g = 65535 - g
					b = 65535 - b
				}
			}

			//nolint:gosec // G115: channel values are already 16-bit
			noisy.Set(x, y, color.RGBA64{uint16(r), uint16(g), uint16(b), uint16(a)})
		}
	}

	return noisy
}

// SaveImage saves an image as PNG to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, EnsureDir(dir), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	err = png.Encode(file, img)
	require.NoError(t, err, "Failed to encode PNG image")
}

// LoadImage loads an image from the specified path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	img, err := LoadImageFile(path)
	require.NoError(t, err, "Failed to load image %s", path)
	return img
}

// LoadImageFile loads an image from the specified path (non-testing version).
func LoadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: opening caller-provided image file is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

// CompareImages compares two images and returns true if their average pixel
// difference is within the tolerance (0 exact, 1 anything).
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()

	if bounds1 != bounds2 {
		return false
	}

	var totalDiff float64
	var pixelCount float64

	for y := bounds1.Min.Y; y < bounds1.Max.Y; y++ {
		for x := bounds1.Min.X; x < bounds1.Max.X; x++ {
			r1, g1, b1, a1 := img1.At(x, y).RGBA()
			r2, g2, b2, a2 := img2.At(x, y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)

			diff := math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			totalDiff += diff
			pixelCount++
		}
	}

	avgDiff := totalDiff / pixelCount
	maxDiff := math.Sqrt(4 * 65535 * 65535)

	return (avgDiff / maxDiff) <= tolerance
}

// CreateTestImage creates a uniform image with the specified dimensions and
// color.
func CreateTestImage(width, height int, backgroundColor color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}
