// Package detect implements the geometric detection stage of a PDF417
// reader: it locates the symbol's corners in a binary image, estimates the
// module geometry, and rectifies the skewed codeword area into a dense,
// axis-aligned bit grid for downstream codeword decoding.
package detect

import (
	"log/slog"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/rectify"
)

const (
	// defaultRowStride is the default stride for row sampling during the
	// guard pattern search. Larger values are faster but tolerate less skew.
	defaultRowStride = 8

	// The rectified grid oversamples each module by 8x horizontally and 4x
	// vertically to preserve sub-module alignment for the decoder.
	sampleFactorX = 8
	sampleFactorY = 4
)

// Config controls the detection search.
type Config struct {
	// RowStride is the row sampling stride for the guard pattern search.
	// Zero selects the default of 8.
	RowStride int

	// TryUpsideDown enables the 180-degree fallback search when the upright
	// pass finds nothing.
	TryUpsideDown bool
}

// DefaultConfig returns the default detection configuration.
func DefaultConfig() Config {
	return Config{RowStride: defaultRowStride, TryUpsideDown: true}
}

// Hints carries optional per-call detection hints. All fields are optional;
// the zero value requests default behavior.
type Hints struct {
	// RowStride overrides the configured row sampling stride when positive.
	RowStride int
}

// Result is the outcome of a successful detection.
type Result struct {
	// Bits is the rectified, oversampled bit grid of the codeword area,
	// sized (Dimension*8) x (YDimension*4).
	Bits *bitmap.BitMatrix

	// Points are the corners of the ideal rectangle in rectified-grid
	// space, ordered bottom-left, top-left, top-right, bottom-right.
	// Downstream consumers operate purely in rectified space, so the
	// original image-space corners are not reported here.
	Points [4]Point

	// Vertices are the 16 image-space vertices located during detection.
	Vertices *VertexSet

	// ModuleWidth is the estimated pixel size of one module.
	ModuleWidth float64

	// Dimension is the number of modules in a row (a multiple of 17).
	Dimension int

	// YDimension is the number of module rows.
	YDimension int
}

// Detector locates PDF417 symbols in binary images. It holds no mutable
// state across calls; a single Detector may be used from multiple
// goroutines, and each call is a pure function of its inputs.
type Detector struct {
	cfg Config
}

// New creates a Detector with the given configuration.
func New(cfg Config) *Detector {
	if cfg.RowStride <= 0 {
		cfg.RowStride = defaultRowStride
	}
	return &Detector{cfg: cfg}
}

// Detect locates a PDF417 symbol in the binary image, checking the upright
// and 180-degree orientations. The image is borrowed read-only for the
// duration of the call. On failure it returns a NotFoundError naming the
// stage that failed; no partial result is ever returned.
func (d *Detector) Detect(m *bitmap.BitMatrix, hints Hints) (*Result, error) {
	rowStride := d.cfg.RowStride
	if hints.RowStride > 0 {
		rowStride = hints.RowStride
	}

	// Try to find the vertices assuming the image is upright, then fall
	// back to a 180-degree rotated read.
	vertices, found := findVertices(m, rowStride)
	upsideDown := false
	if !found && d.cfg.TryUpsideDown {
		vertices, found = findVertices180(m, rowStride)
		upsideDown = true
	}
	if !found {
		return nil, notFound(ReasonNoVertices)
	}

	if err := correctVertices(m, vertices, upsideDown); err != nil {
		return nil, err
	}

	moduleWidth := computeModuleWidth(vertices)
	if moduleWidth < 1.0 {
		return nil, notFound(ReasonModuleWidth)
	}

	topLeft := vertices.CodewordTopLeft()
	topRight := vertices.CodewordTopRight()
	bottomLeft := vertices.CodewordBottomLeft()
	bottomRight := vertices.CodewordBottomRight()

	dimension := computeDimension(topLeft, topRight, bottomLeft, bottomRight, moduleWidth)
	if dimension < 1 {
		return nil, notFound(ReasonDimension)
	}

	// A foreshortened side can under-estimate the column count, so never go
	// below the row dimension.
	yDimension := computeYDimension(topLeft, topRight, bottomLeft, bottomRight, moduleWidth)
	if yDimension < dimension {
		yDimension = dimension
	}

	slog.Debug("pdf417 geometry located",
		"upside_down", upsideDown,
		"module_width", moduleWidth,
		"dimension", dimension,
		"y_dimension", yDimension)

	bits, err := d.sampleCodewordArea(m, vertices, dimension, yDimension)
	if err != nil {
		return nil, err
	}

	width := float64(bits.Width())
	height := float64(bits.Height())
	return &Result{
		Bits: bits,
		Points: [4]Point{
			{X: 0, Y: height},
			{X: 0, Y: 0},
			{X: width, Y: 0},
			{X: width, Y: height},
		},
		Vertices:    vertices,
		ModuleWidth: moduleWidth,
		Dimension:   dimension,
		YDimension:  yDimension,
	}, nil
}

// sampleCodewordArea deskews and over-samples the codeword area through a
// projective transform from the ideal rectangle to the corrected corners.
func (d *Detector) sampleCodewordArea(m *bitmap.BitMatrix, v *VertexSet, dimension, yDimension int) (*bitmap.BitMatrix, error) {
	sampleWidth := dimension * sampleFactorX
	sampleHeight := yDimension * sampleFactorY

	topLeft := v.CodewordTopLeft()
	topRight := v.CodewordTopRight()
	bottomLeft := v.CodewordBottomLeft()
	bottomRight := v.CodewordBottomRight()

	transform := rectify.QuadrilateralToQuadrilateral(
		0, 0,
		float64(sampleWidth), 0,
		0, float64(sampleHeight),
		float64(sampleWidth), float64(sampleHeight),
		topLeft.X, topLeft.Y,
		topRight.X, topRight.Y,
		bottomLeft.X, bottomLeft.Y,
		bottomRight.X, bottomRight.Y)

	return rectify.SampleGrid(m, sampleWidth, sampleHeight, transform)
}
