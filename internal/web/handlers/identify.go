package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/edulink/faceid/internal/faceid"
)

// IdentifyHandler serves the live identification endpoint.
type IdentifyHandler struct {
	service *faceid.Service
}

// NewIdentifyHandler creates an identification handler.
func NewIdentifyHandler(service *faceid.Service) *IdentifyHandler {
	return &IdentifyHandler{service: service}
}

type identifyRequest struct {
	FaceImage string `json:"face_image"`
	Class     string `json:"class,omitempty"` // optional candidate filter
}

type identifyResponse struct {
	ScanID     string  `json:"scan_id"`
	Matched    bool    `json:"matched"`
	StudentID  string  `json:"student_id,omitempty"`
	Similarity float64 `json:"similarity"`
	Reason     string  `json:"reason"`
	Message    string  `json:"message,omitempty"`
}

// Identify handles POST /identify. Non-match outcomes are 200s with
// matched=false; only extractor and storage failures are error statuses.
func (h *IdentifyHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var req identifyRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.FaceImage == "" {
		respondError(w, http.StatusBadRequest, "face_image is required")
		return
	}

	image, err := decodeImage(req.FaceImage)
	if err != nil {
		respondError(w, http.StatusBadRequest, "face_image is not valid base64")
		return
	}

	scanID := uuid.New().String()

	result, err := h.service.Identify(r.Context(), image, req.Class)
	if err != nil {
		if respondExtractorError(w, err) {
			return
		}
		log.Printf("scan %s failed: %v", scanID, err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("scan %s: matched=%t student=%s similarity=%.4f reason=%s",
		scanID, result.Matched, sanitizeForLog(result.StudentID), result.Similarity, result.Reason)

	respondJSON(w, http.StatusOK, identifyResponse{
		ScanID:     scanID,
		Matched:    result.Matched,
		StudentID:  result.StudentID,
		Similarity: result.Similarity,
		Reason:     string(result.Reason),
		Message:    result.Message,
	})
}
