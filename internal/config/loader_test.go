package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper clears the shared viper instance between tests.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.LogLevel, cfg.LogLevel)
	assert.Equal(t, defaults.Detect.RowStride, cfg.Detect.RowStride)
	assert.Equal(t, defaults.Server.Port, cfg.Server.Port)
	assert.Equal(t, defaults.Output.Format, cfg.Output.Format)
}

func TestGetResolvedConfig(t *testing.T) {
	resetViper(t)

	loader := NewLoader()
	_, err := loader.Load()
	require.NoError(t, err)

	resolved := loader.GetResolvedConfig()
	assert.Equal(t, DefaultConfig().LogLevel, resolved["log_level"])
	detect, ok := resolved["detect"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, DefaultConfig().Detect.RowStride, detect["row_stride"])
}

func TestLoadEnvironmentOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("BARSCAN_LOG_LEVEL", "debug")
	t.Setenv("BARSCAN_SERVER_PORT", "9090")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadWithFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "barscan.yaml")
	content := []byte("log_level: warn\ndetect:\n  row_stride: 2\n  binarize_method: mean\nserver:\n  port: 7000\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Detect.RowStride)
	assert.Equal(t, "mean", cfg.Detect.BinarizeMethod)
	assert.Equal(t, 7000, cfg.Server.Port)
	// Unset values fall back to defaults.
	assert.Equal(t, DefaultConfig().Server.MaxUploadMB, cfg.Server.MaxUploadMB)
}

func TestLoadWithFileMissing(t *testing.T) {
	resetViper(t)

	_, err := NewLoader().LoadWithFile("/nonexistent/barscan.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadWithFileInvalidValues(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "barscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: shouting\n"), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "generated.yaml")
	require.NoError(t, GenerateDefaultConfigFile(path))

	resetViper(t)
	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, "/etc/barscan")
}
