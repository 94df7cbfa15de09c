package detect

import "errors"

// ErrNotFound is the sentinel wrapped by every detection failure. Callers
// that only need the category can use errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("pdf417 symbol not found")

// Reason identifies which stage of detection failed.
type Reason string

const (
	// ReasonNoVertices means neither orientation pass located the guard patterns.
	ReasonNoVertices Reason = "no vertices found"
	// ReasonGuardTooClose means an outer/inner vertex pair is too close
	// vertically for the guard patterns to be trustworthy.
	ReasonGuardTooClose Reason = "guard patterns too close together"
	// ReasonParallelLines means a crossing-point computation hit parallel lines.
	ReasonParallelLines Reason = "cannot intersect parallel boundary lines"
	// ReasonCrossingOutOfBounds means a corrected corner fell outside the image.
	ReasonCrossingOutOfBounds Reason = "crossing point outside image bounds"
	// ReasonModuleWidth means the estimated module width is below one pixel.
	ReasonModuleWidth Reason = "module width below one pixel"
	// ReasonDimension means the computed row dimension is below one.
	ReasonDimension Reason = "row dimension below one"
)

// NotFoundError reports a failed detection attempt. Every failure is
// terminal for that attempt; no stage substitutes default geometry.
type NotFoundError struct {
	Reason Reason
}

func (e *NotFoundError) Error() string {
	return "detect: " + string(e.Reason)
}

// Unwrap makes every NotFoundError match ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(reason Reason) error {
	return &NotFoundError{Reason: reason}
}
