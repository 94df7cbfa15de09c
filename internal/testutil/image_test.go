package testutil

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolImage(t *testing.T) {
	m, geom, err := RenderSymbol(DefaultSymbolConfig())
	require.NoError(t, err)

	img := SymbolImage(m, DefaultSymbolImageConfig())
	assert.Equal(t, m.Width(), img.Bounds().Dx())
	assert.Equal(t, m.Height(), img.Bounds().Dy())

	// The start pattern's leading wide bar is foreground, the margin is not.
	r, g, b, _ := img.At(geom.Left+1, geom.Top+1).RGBA()
	assert.Zero(t, r+g+b, "bar pixel should be black")
	r, g, b, _ = img.At(1, 1).RGBA()
	assert.Equal(t, uint32(3*0xffff), r+g+b, "margin pixel should be white")
}

func TestSymbolImage_Caption(t *testing.T) {
	m, _, err := RenderSymbol(DefaultSymbolConfig())
	require.NoError(t, err)

	cfg := DefaultSymbolImageConfig()
	cfg.Caption = "two columns"
	img := SymbolImage(m, cfg)
	assert.Greater(t, img.Bounds().Dy(), m.Height(), "caption extends the image")
}

func TestSymbolImage_Rotation(t *testing.T) {
	m, _, err := RenderSymbol(DefaultSymbolConfig())
	require.NoError(t, err)

	img := SymbolImage(m, SymbolImageConfig{
		Background: color.White,
		Foreground: color.Black,
		Rotation:   90,
	})
	assert.Equal(t, m.Height(), img.Bounds().Dx())
	assert.Equal(t, m.Width(), img.Bounds().Dy())
}

func TestSaveLoadImage(t *testing.T) {
	img := CreateTestImage(16, 12, color.White)
	path := filepath.Join(t.TempDir(), "out", "blank.png")

	SaveImage(t, img, path)
	loaded := LoadImage(t, path)

	assert.True(t, CompareImages(img, loaded, 0.001))
}

func TestCompareImages_DifferentSizes(t *testing.T) {
	a := CreateTestImage(10, 10, color.White)
	b := CreateTestImage(12, 10, color.White)
	assert.False(t, CompareImages(a, b, 1.0))
}

func TestAddNoise(t *testing.T) {
	img := CreateTestImage(32, 32, color.White)
	noisy := AddNoise(img, 0.05)
	assert.False(t, CompareImages(img, noisy, 0.0), "noise should change some pixels")
}
