package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/barscan/internal/pdfimg"
	"github.com/MeKo-Tech/barscan/internal/utils"
	"github.com/MeKo-Tech/barscan/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// scanImageHandler processes image scan requests.
func (s *Server) scanImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "body too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(len(imageData)))

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := s.scanImage(img)
	scanDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())

	if err != nil {
		if isNotFound(err) {
			scanRequestsTotal.WithLabelValues("image", "not_found").Inc()
			s.writeErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		scanRequestsTotal.WithLabelValues("image", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Scan failed: %v", err), http.StatusInternalServerError)
		return
	}
	scanRequestsTotal.WithLabelValues("image", "success").Inc()

	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}
	if format == "overlay" {
		s.handleOverlayOutput(w, r, img, result)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := ScanResponse{Success: true, Results: []*ScanResult{result}}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding scan response: %v\n", err)
	}
}

// handleOverlayOutput renders the detected corners onto the input image and
// returns it as PNG.
func (s *Server) handleOverlayOutput(w http.ResponseWriter, r *http.Request, img image.Image, result *ScanResult) {
	col := color.RGBA{255, 0, 0, 255}
	hex := r.FormValue("color")
	if hex == "" {
		hex = s.overlayColor
	}
	if parsed, ok := parseHexColor(hex); ok {
		col = parsed
	}

	dst := utils.ToRGBA(img)
	quad := []utils.Point{
		{X: result.Corners[0].X, Y: result.Corners[0].Y},
		{X: result.Corners[1].X, Y: result.Corners[1].Y},
		{X: result.Corners[3].X, Y: result.Corners[3].Y},
		{X: result.Corners[2].X, Y: result.Corners[2].Y},
	}
	utils.DrawPolygon(dst, quad, col, 2)
	for _, p := range quad {
		utils.DrawMarker(dst, p, col, 4)
	}

	w.Header().Set("Content-Type", "image/png")
	_ = png.Encode(w, dst)
}

// scanPDFHandler processes PDF scan requests. The uploaded PDF is saved to a
// temp file so pdfcpu can extract its page images.
func (s *Server) scanPDFHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "body too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		s.writeErrorResponse(w, "No PDF file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	tempDir, err := os.MkdirTemp("", "barscan-upload-*")
	if err != nil {
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	tempPath := filepath.Join(tempDir, "upload.pdf")
	out, err := os.Create(tempPath) //nolint:gosec // G304: path is inside our own temp dir
	if err != nil {
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	written, err := io.Copy(out, file)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(written))

	start := time.Now()
	pages, err := pdfimg.ExtractPageImages(tempPath, r.FormValue("pages"))
	if err != nil {
		scanRequestsTotal.WithLabelValues("pdf", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("PDF extraction failed: %v", err), http.StatusBadRequest)
		return
	}

	var results []*ScanResult
	for _, page := range pages {
		result, err := s.scanImage(page.Image)
		if err != nil {
			// Pages without a symbol are simply skipped
			continue
		}
		result.Page = page.Page
		results = append(results, result)
	}
	scanDuration.WithLabelValues("pdf").Observe(time.Since(start).Seconds())

	if len(results) == 0 {
		scanRequestsTotal.WithLabelValues("pdf", "not_found").Inc()
		s.writeErrorResponse(w, "no symbol found in any page", http.StatusNotFound)
		return
	}
	scanRequestsTotal.WithLabelValues("pdf", "success").Inc()

	w.Header().Set("Content-Type", "application/json")
	response := ScanResponse{Success: true, Results: results}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding scan response: %v\n", err)
	}
}

// parseHexColor parses colors like "#RRGGBB" or "RRGGBB".
func parseHexColor(s string) (color.RGBA, bool) {
	if s == "" {
		return color.RGBA{}, false
	}
	if s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return color.RGBA{}, false
	}
	//nolint:gosec // G115: parsed with %02x, always 0..255
	return color.RGBA{uint8(rv), uint8(gv), uint8(bv), 255}, true
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ScanResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
