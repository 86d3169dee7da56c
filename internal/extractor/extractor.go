// Package extractor talks to the face-detection sidecar that turns a photo
// into a face embedding. The service never runs inference itself.
package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/edulink/faceid/internal/embedding"
)

// Extractor produces a face embedding from raw image bytes.
//
// Exactly one face must be present in the image; anything else is a typed
// error so callers can tell the user to retake the photo.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte) (embedding.Vector, error)
}

var (
	// ErrNoFace means the detector found no face in the image.
	ErrNoFace = errors.New("no face detected in image")

	// ErrMultipleFaces means the detector found more than one face.
	// Use NewMultipleFacesError to carry the count.
	ErrMultipleFaces = errors.New("multiple faces detected in image")

	// ErrUnavailable means the extractor service could not produce an answer:
	// network failure, non-200 response, or a malformed response body.
	ErrUnavailable = errors.New("extractor service unavailable")
)

// MultipleFacesError carries the detected face count alongside ErrMultipleFaces.
type MultipleFacesError struct {
	Count int
}

func (e *MultipleFacesError) Error() string {
	return fmt.Sprintf("multiple faces detected in image: %d", e.Count)
}

func (e *MultipleFacesError) Unwrap() error {
	return ErrMultipleFaces
}

// NewMultipleFacesError builds a MultipleFacesError for the given count.
func NewMultipleFacesError(count int) error {
	return &MultipleFacesError{Count: count}
}
