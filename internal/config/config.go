// Package config holds the application configuration for all commands and
// supports loading from configuration files, environment variables, and
// command-line flags.
package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/detect"
	"github.com/MeKo-Tech/barscan/internal/utils"
)

// Config represents the complete configuration for the barscan application.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Detection settings
	Detect DetectConfig `mapstructure:"detect" yaml:"detect" json:"detect"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// PDF input configuration
	PDF PDFConfig `mapstructure:"pdf" yaml:"pdf" json:"pdf"`
}

// DetectConfig contains symbol detection settings.
type DetectConfig struct {
	RowStride       int    `mapstructure:"row_stride" yaml:"row_stride" json:"row_stride"`
	MaxImageSize    int    `mapstructure:"max_image_size" yaml:"max_image_size" json:"max_image_size"`
	BinarizeMethod  string `mapstructure:"binarize_method" yaml:"binarize_method" json:"binarize_method"`
	FixedThreshold  int    `mapstructure:"fixed_threshold" yaml:"fixed_threshold" json:"fixed_threshold"`
	TryUpsideDown   bool   `mapstructure:"try_upside_down" yaml:"try_upside_down" json:"try_upside_down"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format       string `mapstructure:"format" yaml:"format" json:"format"`
	File         string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir   string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
	OverlayColor string `mapstructure:"overlay_color" yaml:"overlay_color" json:"overlay_color"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// PDFConfig contains PDF input settings.
type PDFConfig struct {
	Pages string `mapstructure:"pages" yaml:"pages" json:"pages"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	detectDefaults := detect.DefaultConfig()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Detect: DetectConfig{
			RowStride:      detectDefaults.RowStride,
			MaxImageSize:   utils.DefaultImageConstraints().MaxWidth,
			BinarizeMethod: "otsu",
			FixedThreshold: 128,
			TryUpsideDown:  true,
		},
		Output: OutputConfig{
			Format:       "text",
			OverlayColor: "#FF0000",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
		PDF: PDFConfig{
			Pages: "",
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	validMethods := []string{"otsu", "mean", "fixed"}
	if !contains(validMethods, c.Detect.BinarizeMethod) {
		return fmt.Errorf("invalid binarize method: %s (must be one of: %s)",
			c.Detect.BinarizeMethod, strings.Join(validMethods, ", "))
	}
	if c.Detect.FixedThreshold < 0 || c.Detect.FixedThreshold > 255 {
		return fmt.Errorf("invalid fixed threshold: %d (must be between 0 and 255)", c.Detect.FixedThreshold)
	}
	if c.Detect.RowStride < 1 {
		return fmt.Errorf("invalid row stride: %d (must be positive)", c.Detect.RowStride)
	}
	if c.Detect.MaxImageSize < utils.DefaultImageConstraints().MinWidth {
		return fmt.Errorf("invalid max image size: %d", c.Detect.MaxImageSize)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}

	if c.Output.OverlayColor != "" {
		if _, err := ParseHexColor(c.Output.OverlayColor); err != nil {
			return fmt.Errorf("invalid overlay color: %w", err)
		}
	}

	return nil
}

// ToDetectConfig converts to the detector's configuration format.
func (c *Config) ToDetectConfig() detect.Config {
	cfg := detect.DefaultConfig()
	if c.Detect.RowStride > 0 {
		cfg.RowStride = c.Detect.RowStride
	}
	cfg.TryUpsideDown = c.Detect.TryUpsideDown
	return cfg
}

// ToBinarizeConfig converts to the bitmap package's binarization settings.
func (c *Config) ToBinarizeConfig() bitmap.BinarizeConfig {
	cfg := bitmap.DefaultBinarizeConfig()
	switch c.Detect.BinarizeMethod {
	case "mean":
		cfg.Method = bitmap.MethodMean
	case "fixed":
		cfg.Method = bitmap.MethodFixed
	default:
		cfg.Method = bitmap.MethodOtsu
	}
	cfg.FixedThreshold = uint8(c.Detect.FixedThreshold) //nolint:gosec // G115: validated to 0..255
	return cfg
}

// ToImageConstraints converts to the image preprocessing constraints.
func (c *Config) ToImageConstraints() utils.ImageConstraints {
	constraints := utils.DefaultImageConstraints()
	if c.Detect.MaxImageSize > 0 {
		constraints.MaxWidth = c.Detect.MaxImageSize
		constraints.MaxHeight = c.Detect.MaxImageSize
	}
	return constraints
}

// ParseHexColor parses a "#RRGGBB" color string.
func ParseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("color must be #RRGGBB: %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
