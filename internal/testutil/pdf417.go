// Package testutil provides synthetic fixtures for the detection tests:
// rendered PDF417-shaped symbols and image helpers.
package testutil

import (
	"errors"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

// Guard pattern run lengths used by the renderer. These mirror the symbology
// constants: 17 start modules, 18 stop modules.
var (
	renderStartPattern = []int{8, 1, 1, 1, 1, 1, 1, 3}
	renderStopPattern  = []int{7, 1, 1, 3, 1, 1, 1, 2, 1}
)

// SymbolConfig describes a synthetic PDF417 symbol to render.
type SymbolConfig struct {
	ModuleWidth int // pixels per module
	RowHeight   int // pixels per symbol row
	Rows        int // number of symbol rows
	DataColumns int // codeword columns; the data area spans DataColumns*17 modules
	Margin      int // white margin around the symbol, in pixels
	UpsideDown  bool
}

// DefaultSymbolConfig returns a config that renders comfortably above the
// detector's one-pixel module floor.
func DefaultSymbolConfig() SymbolConfig {
	return SymbolConfig{
		ModuleWidth: 3,
		RowHeight:   9,
		Rows:        8,
		DataColumns: 2,
		Margin:      24,
	}
}

// SymbolGeometry reports where the rendered symbol sits in the bitmap, in
// un-rotated coordinates. Right and Bottom are exclusive.
type SymbolGeometry struct {
	Left, Top, Right, Bottom int
	InnerLeft, InnerRight    int // codeword area x bounds
}

// RenderSymbol renders a PDF417-shaped symbol: start guard pattern, a
// deterministic codeword-area fill, and stop guard pattern, repeated over
// identical rows. The fill alternates single-module bars and never resembles
// a guard pattern, so only the real guards anchor detection.
func RenderSymbol(cfg SymbolConfig) (*bitmap.BitMatrix, SymbolGeometry, error) {
	if cfg.ModuleWidth < 1 || cfg.RowHeight < 1 || cfg.Rows < 1 || cfg.DataColumns < 1 || cfg.Margin < 1 {
		return nil, SymbolGeometry{}, errors.New("testutil: symbol config values must be positive")
	}

	modules := rowModules(cfg.DataColumns)
	w := cfg.ModuleWidth
	width := 2*cfg.Margin + len(modules)*w
	height := 2*cfg.Margin + cfg.Rows*cfg.RowHeight

	m, err := bitmap.New(width, height)
	if err != nil {
		return nil, SymbolGeometry{}, err
	}
	for y := cfg.Margin; y < height-cfg.Margin; y++ {
		for i, black := range modules {
			if !black {
				continue
			}
			for x := cfg.Margin + i*w; x < cfg.Margin+(i+1)*w; x++ {
				m.Set(x, y)
			}
		}
	}

	geom := SymbolGeometry{
		Left:       cfg.Margin,
		Top:        cfg.Margin,
		Right:      cfg.Margin + len(modules)*w,
		Bottom:     height - cfg.Margin,
		InnerLeft:  cfg.Margin + 17*w,
		InnerRight: cfg.Margin + (17+cfg.DataColumns*17)*w,
	}

	if cfg.UpsideDown {
		m.Rotate180()
	}
	return m, geom, nil
}

// rowModules builds one row of the symbol as a module-level black/white
// sequence: start pattern, data fill, stop pattern.
func rowModules(dataColumns int) []bool {
	var modules []bool
	appendRuns := func(runs []int) {
		black := true
		for _, n := range runs {
			for i := 0; i < n; i++ {
				modules = append(modules, black)
			}
			black = !black
		}
	}

	appendRuns(renderStartPattern)

	// Alternating single-module bars, with the final module forced white so
	// the fill never merges with the stop pattern's leading wide bar.
	dataModules := dataColumns * 17
	for i := 0; i < dataModules; i++ {
		modules = append(modules, i%2 == 0 && i != dataModules-1)
	}

	appendRuns(renderStopPattern)
	return modules
}
