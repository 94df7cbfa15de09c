package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/barscan/internal/barcode"
	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/config"
	"github.com/MeKo-Tech/barscan/internal/detect"
	"github.com/MeKo-Tech/barscan/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// pointOutput is a corner coordinate in the CLI output.
type pointOutput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// scanOutput describes one detected symbol for the CLI output.
type scanOutput struct {
	File string `json:"file"`
	Page int    `json:"page,omitempty"`

	// Corners are the corrected codeword-area corners in original image
	// coordinates, ordered top-left, top-right, bottom-left, bottom-right.
	Corners     [4]pointOutput `json:"corners"`
	Dimension   int            `json:"dimension"`
	YDimension  int            `json:"y_dimension"`
	ModuleWidth float64        `json:"module_width"`
	GridWidth   int            `json:"grid_width"`
	GridHeight  int            `json:"grid_height"`
	Decoded     string         `json:"decoded,omitempty"`
}

// scanDecodedImage runs the detection pipeline on one decoded image.
// Oversized images are scaled down first and the reported corners are
// mapped back to the original coordinates.
func scanDecodedImage(img image.Image, cfg *config.Config) (*scanOutput, error) {
	constraints := cfg.ToImageConstraints()
	if err := utils.ValidateImageConstraints(img, constraints); err != nil {
		return nil, err
	}

	scaled, scale, err := utils.ResizeImage(img, constraints)
	if err != nil {
		return nil, err
	}

	m, err := bitmap.FromImage(scaled, cfg.ToBinarizeConfig())
	if err != nil {
		return nil, err
	}

	detector := detect.New(cfg.ToDetectConfig())
	res, err := detector.Detect(m, detect.Hints{})
	if err != nil {
		return nil, err
	}

	inv := 1.0 / scale
	corners := [4]detect.Point{
		res.Vertices.CodewordTopLeft(),
		res.Vertices.CodewordTopRight(),
		res.Vertices.CodewordBottomLeft(),
		res.Vertices.CodewordBottomRight(),
	}

	out := &scanOutput{
		Dimension:   res.Dimension,
		YDimension:  res.YDimension,
		ModuleWidth: res.ModuleWidth * inv,
		GridWidth:   res.Bits.Width(),
		GridHeight:  res.Bits.Height(),
	}
	for i, c := range corners {
		out.Corners[i] = pointOutput{X: c.X * inv, Y: c.Y * inv}
	}
	return out, nil
}

// formatResults renders the scan results in the requested output format.
func formatResults(results []*scanOutput, format string) (string, error) {
	if format == outputFormatJSON {
		bts, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(bts) + "\n", nil
	}

	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.File)
		if r.Page > 0 {
			fmt.Fprintf(&sb, " page %d", r.Page)
		}
		fmt.Fprintf(&sb, ": dimension=%d rows=%d module_width=%.2f grid=%dx%d",
			r.Dimension, r.YDimension, r.ModuleWidth, r.GridWidth, r.GridHeight)
		fmt.Fprintf(&sb, " corners=[(%.1f,%.1f) (%.1f,%.1f) (%.1f,%.1f) (%.1f,%.1f)]",
			r.Corners[0].X, r.Corners[0].Y, r.Corners[1].X, r.Corners[1].Y,
			r.Corners[2].X, r.Corners[2].Y, r.Corners[3].X, r.Corners[3].Y)
		if r.Decoded != "" {
			fmt.Fprintf(&sb, " decoded=%q", r.Decoded)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// decodeSymbol hands the region around the detected corners to the decode
// backend. Without a backend linked in, this returns ErrNoBackend.
func decodeSymbol(ctx context.Context, img image.Image, out *scanOutput) (string, error) {
	backend, err := barcode.NewBackend()
	if err != nil {
		return "", err
	}

	pts := make([]utils.Point, 0, len(out.Corners))
	for _, c := range out.Corners {
		pts = append(pts, utils.Point{X: c.X, Y: c.Y})
	}
	roi := utils.BoundingBox(pts).ToRect(img.Bounds())

	results, err := backend.Decode(ctx, img, barcode.Options{TryHarder: true, ROI: roi})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.New("decoder returned no result")
	}
	return results[0].Value, nil
}

// writeOverlay draws the detected corners onto a copy of the source image
// and writes it as a PNG into the given directory.
func writeOverlay(img image.Image, out *scanOutput, overlayDir, srcPath, colorHex string) (string, error) {
	col, err := config.ParseHexColor(colorHex)
	if err != nil {
		return "", err
	}

	dst := utils.ToRGBA(img)
	// Draw in perimeter order: top-left, top-right, bottom-right, bottom-left.
	quad := []utils.Point{
		{X: out.Corners[0].X, Y: out.Corners[0].Y},
		{X: out.Corners[1].X, Y: out.Corners[1].Y},
		{X: out.Corners[3].X, Y: out.Corners[3].Y},
		{X: out.Corners[2].X, Y: out.Corners[2].Y},
	}
	// Thin axis-aligned bounding box, then the quadrilateral and its corners.
	utils.DrawRect(dst, utils.BoundingBox(quad).ToRect(dst.Bounds()), col, 1)
	utils.DrawPolygon(dst, quad, col, 2)
	for _, p := range quad {
		utils.DrawMarker(dst, p, col, 4)
	}

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	if out.Page > 0 {
		base = fmt.Sprintf("%s_page%d", base, out.Page)
	}
	outPath := filepath.Join(overlayDir, base+"_overlay.png")
	if err := utils.SaveImage(dst, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
