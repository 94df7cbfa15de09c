// Package barcode provides a pluggable seam for decoding the located
// symbol into text.
//
// The default build has no concrete backend so the locator carries no
// decoder dependencies implicitly. Enable the gozxing-backed decoder
// with the build tag `barcode_gozxing`:
//
//	go build -tags=barcode_gozxing ./...
package barcode

import (
	"context"
	"image"
)

// Options controls backend decoding behavior.
type Options struct {
	// TryHarder enables more exhaustive search (slower but more robust).
	TryHarder bool

	// Multi enables multi-symbol decoding in a single image.
	Multi bool

	// ROI optionally restricts decoding to a sub-rectangle of the image.
	// If zero-sized or out of bounds, backends should ignore it.
	ROI image.Rectangle
}

// Point is an integer point in image coordinates.
type Point struct {
	X int
	Y int
}

// Result represents one decoded symbol.
type Result struct {
	Value  string
	Points []Point // Corner or key points if available
	BBox   image.Rectangle
}

// Backend is a pluggable PDF417 decoder implementation.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error)
}

// NewBackend returns the default backend implementation.
// The default build has no backend; enable one via build tags.
func NewBackend() (Backend, error) { return newDefaultBackend() }
