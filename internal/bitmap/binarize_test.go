package bitmap

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLevelImage(width, height int, dark, light color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{light}, image.Point{}, draw.Src)
	// Dark block in the left half.
	draw.Draw(img, image.Rect(0, 0, width/2, height), &image.Uniform{dark}, image.Point{}, draw.Src)
	return img
}

func TestFromImage_Otsu(t *testing.T) {
	img := twoLevelImage(40, 20, color.RGBA{20, 20, 20, 255}, color.RGBA{230, 230, 230, 255})

	m, err := FromImage(img, DefaultBinarizeConfig())
	require.NoError(t, err)

	assert.Equal(t, 40, m.Width())
	assert.Equal(t, 20, m.Height())
	assert.True(t, m.Get(5, 10), "dark half is set")
	assert.False(t, m.Get(35, 10), "light half is unset")
}

func TestFromImage_FixedThreshold(t *testing.T) {
	img := twoLevelImage(10, 10, color.RGBA{100, 100, 100, 255}, color.RGBA{160, 160, 160, 255})

	cfg := BinarizeConfig{Method: MethodFixed, FixedThreshold: 130}
	m, err := FromImage(img, cfg)
	require.NoError(t, err)
	assert.True(t, m.Get(0, 0))
	assert.False(t, m.Get(9, 9))

	cfg.FixedThreshold = 90
	m, err = FromImage(img, cfg)
	require.NoError(t, err)
	assert.False(t, m.Get(0, 0), "everything above a low threshold stays unset")
}

func TestFromImage_Mean(t *testing.T) {
	img := twoLevelImage(20, 20, color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255})

	m, err := FromImage(img, BinarizeConfig{Method: MethodMean})
	require.NoError(t, err)
	assert.True(t, m.Get(2, 2))
	assert.False(t, m.Get(17, 17))
}
