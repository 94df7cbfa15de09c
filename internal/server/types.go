// Package server exposes the barcode detector over HTTP: multipart scan
// endpoints for images and PDFs, a WebSocket endpoint for streaming scans,
// health checks, and Prometheus metrics.
package server

import (
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/common"
	"github.com/MeKo-Tech/barscan/internal/detect"
	"github.com/MeKo-Tech/barscan/internal/utils"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	detector     *detect.Detector
	binarize     bitmap.BinarizeConfig
	constraints  utils.ImageConstraints
	corsOrigin   string
	maxUploadMB  int64
	timeoutSec   int
	overlayColor string
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	MaxUploadMB  int64
	TimeoutSec   int
	Detect       detect.Config
	Binarize     bitmap.BinarizeConfig
	Constraints  utils.ImageConstraints
	OverlayColor string
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// PointJSON is a 2D coordinate in the response payload.
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScanResult describes one detected symbol.
type ScanResult struct {
	// Corners are the corrected codeword-area corners in original image
	// coordinates, ordered top-left, top-right, bottom-left, bottom-right.
	Corners     [4]PointJSON `json:"corners"`
	Dimension   int          `json:"dimension"`
	YDimension  int          `json:"y_dimension"`
	ModuleWidth float64      `json:"module_width"`
	GridWidth   int          `json:"grid_width"`
	GridHeight  int          `json:"grid_height"`
	Page        int          `json:"page,omitempty"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Processing  struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"processing"`
}

// ScanResponse is the JSON envelope for scan endpoints.
type ScanResponse struct {
	Success bool          `json:"success"`
	Results []*ScanResult `json:"results,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// NewServer creates a new scan server instance.
func NewServer(config Config) (*Server, error) {
	if config.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("invalid max upload size: %d", config.MaxUploadMB)
	}
	return &Server{
		detector:     detect.New(config.Detect),
		binarize:     config.Binarize,
		constraints:  config.Constraints,
		corsOrigin:   config.CORSOrigin,
		maxUploadMB:  config.MaxUploadMB,
		timeoutSec:   config.TimeoutSec,
		overlayColor: config.OverlayColor,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/scan/image", s.corsMiddleware(s.scanImageHandler))
	mux.HandleFunc("/scan/pdf", s.corsMiddleware(s.scanPDFHandler))
	mux.HandleFunc("/ws/scan", s.scanWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// scanImage runs the detection pipeline on one decoded image. Oversized
// images are scaled down first and the reported corners are mapped back to
// the original coordinates.
func (s *Server) scanImage(img image.Image) (*ScanResult, error) {
	timer := common.NewTimer()

	if err := utils.ValidateImageConstraints(img, s.constraints); err != nil {
		return nil, err
	}

	scaled, scale, err := utils.ResizeImage(img, s.constraints)
	if err != nil {
		return nil, err
	}

	m, err := bitmap.FromImage(scaled, s.binarize)
	if err != nil {
		return nil, err
	}

	res, err := s.detector.Detect(m, detect.Hints{})
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

	out := &ScanResult{
		Dimension:   res.Dimension,
		YDimension:  res.YDimension,
		ModuleWidth: res.ModuleWidth * inv,
		GridWidth:   res.Bits.Width(),
		GridHeight:  res.Bits.Height(),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}
	for i, c := range corners {
		out.Corners[i] = PointJSON{X: c.X * inv, Y: c.Y * inv}
	}
	out.Processing.TotalMs = timer.Stop().Milliseconds()
	return out, nil
}

// isNotFound reports whether an error is a detection miss rather than an
// input or processing failure.
func isNotFound(err error) bool {
	return errors.Is(err, detect.ErrNotFound)
}
