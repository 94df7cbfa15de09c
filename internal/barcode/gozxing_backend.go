//go:build barcode_gozxing

package barcode

import (
	"context"
	"image"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/pdf417"
)

// newDefaultBackend returns the gozxing-backed implementation when the build tag is enabled.
func newDefaultBackend() (Backend, error) { return &gozxingBackend{}, nil }

type gozxingBackend struct{}

func (b *gozxingBackend) Decode(_ context.Context, img image.Image, opts Options) ([]Result, error) {
	if !opts.ROI.Empty() {
		if roiImg, ok := subImage(img, opts.ROI); ok {
			img = roiImg
		}
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_POSSIBLE_FORMATS: []gozxing.BarcodeFormat{
			gozxing.BarcodeFormat_PDF_417,
		},
	}
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bmp := gozxing.NewBinaryBitmap(common.NewHybridBinarizer(source))

	var results []*gozxing.Result
	var err error
	if opts.Multi {
		reader := multi.NewGenericMultipleBarcodeReader(pdf417.NewPDF417Reader())
		results, err = reader.DecodeMultiple(bmp, hints)
	} else {
		var r *gozxing.Result
		r, err = pdf417.NewPDF417Reader().Decode(bmp, hints)
		if err == nil && r != nil {
			results = []*gozxing.Result{r}
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		pts := r.GetResultPoints()
		var points []Point
		if len(pts) > 0 {
			points = make([]Point, 0, len(pts))
			for _, p := range pts {
				points = append(points, Point{X: int(p.GetX()), Y: int(p.GetY())})
			}
		}
		out = append(out, Result{
			Value:  r.GetText(),
			Points: points,
			BBox:   rectFromPoints(points),
		})
	}
	return out, nil
}

func rectFromPoints(pts []Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func subImage(img image.Image, roi image.Rectangle) (image.Image, bool) {
	roi = roi.Intersect(img.Bounds())
	if roi.Empty() {
		return nil, false
	}
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(roi), true
	}
	return nil, false
}
