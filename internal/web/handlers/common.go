// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/edulink/faceid/internal/extractor"
	"github.com/edulink/faceid/internal/store"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// decodeJSONBody parses a JSON request body into dst.
func decodeJSONBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondExtractorError maps extractor failures to HTTP statuses: input
// problems the user can fix by retaking the photo are 400 with a machine
// readable reason; a dead sidecar is 503.
func respondExtractorError(w http.ResponseWriter, err error) bool {
	var multi *extractor.MultipleFacesError
	switch {
	case errors.Is(err, extractor.ErrNoFace):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "no face detected in image",
			"reason": "no_face",
		})
	case errors.As(err, &multi):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":       "multiple faces detected in image",
			"reason":      "multiple_faces",
			"faces_count": multi.Count,
		})
	case errors.Is(err, extractor.ErrMultipleFaces):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "multiple faces detected in image",
			"reason": "multiple_faces",
		})
	case errors.Is(err, extractor.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "face extractor unavailable, try again later")
	default:
		return false
	}
	return true
}

// respondStoreError maps repository failures.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "enrollment not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal error")
}

// decodeImage turns the face_image request field into raw bytes. The web UI
// sends canvas captures as data URLs, so a data:image/...;base64, prefix is
// tolerated and stripped.
func decodeImage(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
