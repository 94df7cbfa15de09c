package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DetectionFixture represents a detection test fixture: an input image and
// the expected symbol geometry.
type DetectionFixture struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputFile   string                 `json:"input_file"`
	Expected    ExpectedDetection      `json:"expected"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ExpectedDetection describes the geometry a detector should report for a
// fixture image.
type ExpectedDetection struct {
	Corners     []Point `json:"corners"` // corrected corners: TL, TR, BL, BR
	Dimension   int     `json:"dimension"`
	YDimension  int     `json:"y_dimension"`
	ModuleWidth float64 `json:"module_width"`
	UpsideDown  bool    `json:"upside_down,omitempty"`
}

// Point represents a 2D coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LoadFixture loads a detection fixture from a JSON file in the given
// directory.
func LoadFixture(t *testing.T, dir, name string) DetectionFixture {
	t.Helper()

	fixturePath := filepath.Join(dir, name+".json")

	data, err := os.ReadFile(fixturePath) //nolint:gosec // G304: reading test fixture files with controlled paths
	require.NoError(t, err, "Failed to read fixture file: %s", fixturePath)

	var fixture DetectionFixture
	err = json.Unmarshal(data, &fixture)
	require.NoError(t, err, "Failed to unmarshal fixture JSON")

	return fixture
}

// SaveFixture saves a detection fixture to a JSON file in the given
// directory.
func SaveFixture(t *testing.T, dir string, fixture DetectionFixture) {
	t.Helper()

	require.NoError(t, EnsureDir(dir))

	fixturePath := filepath.Join(dir, fixture.Name+".json")

	data, err := json.MarshalIndent(fixture, "", "  ")
	require.NoError(t, err, "Failed to marshal fixture to JSON")

	err = os.WriteFile(fixturePath, data, 0o600)
	require.NoError(t, err, "Failed to write fixture file: %s", fixturePath)
}
