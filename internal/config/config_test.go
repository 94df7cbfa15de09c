package config

import (
	"image/color"
	"testing"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "otsu", cfg.Detect.BinarizeMethod)
	assert.True(t, cfg.Detect.TryUpsideDown)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"output format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
		{"binarize method", func(c *Config) { c.Detect.BinarizeMethod = "adaptive" }, "invalid binarize method"},
		{"threshold high", func(c *Config) { c.Detect.FixedThreshold = 256 }, "invalid fixed threshold"},
		{"threshold negative", func(c *Config) { c.Detect.FixedThreshold = -1 }, "invalid fixed threshold"},
		{"row stride", func(c *Config) { c.Detect.RowStride = 0 }, "invalid row stride"},
		{"max image size", func(c *Config) { c.Detect.MaxImageSize = 10 }, "invalid max image size"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too big", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"upload size", func(c *Config) { c.Server.MaxUploadMB = 0 }, "invalid max upload size"},
		{"timeout", func(c *Config) { c.Server.TimeoutSec = 0 }, "invalid timeout"},
		{"overlay color", func(c *Config) { c.Output.OverlayColor = "red" }, "invalid overlay color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToDetectConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detect.RowStride = 4
	cfg.Detect.TryUpsideDown = false

	dc := cfg.ToDetectConfig()
	assert.Equal(t, 4, dc.RowStride)
	assert.False(t, dc.TryUpsideDown)
}

func TestToBinarizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, bitmap.MethodOtsu, cfg.ToBinarizeConfig().Method)

	cfg.Detect.BinarizeMethod = "mean"
	assert.Equal(t, bitmap.MethodMean, cfg.ToBinarizeConfig().Method)

	cfg.Detect.BinarizeMethod = "fixed"
	cfg.Detect.FixedThreshold = 99
	bc := cfg.ToBinarizeConfig()
	assert.Equal(t, bitmap.MethodFixed, bc.Method)
	assert.Equal(t, uint8(99), bc.FixedThreshold)
}

func TestToImageConstraints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detect.MaxImageSize = 2000

	constraints := cfg.ToImageConstraints()
	assert.Equal(t, 2000, constraints.MaxWidth)
	assert.Equal(t, 2000, constraints.MaxHeight)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FF8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0x80, B: 0x00, A: 0xFF}, c)

	_, err = ParseHexColor("orange")
	assert.Error(t, err)
}
