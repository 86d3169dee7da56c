package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edulink/faceid/internal/faceid"
)

// EnrollHandler serves the per-student face enrollment endpoints.
type EnrollHandler struct {
	service *faceid.Service
}

// NewEnrollHandler creates an enrollment handler.
func NewEnrollHandler(service *faceid.Service) *EnrollHandler {
	return &EnrollHandler{service: service}
}

type enrollRequest struct {
	FaceImage string `json:"face_image"` // base64, data-URL prefix tolerated
	Class     string `json:"class,omitempty"`
}

// Enroll handles PUT /students/{studentID}/face. Re-enrolling replaces the
// previous embedding wholesale.
func (h *EnrollHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if studentID == "" {
		respondError(w, http.StatusBadRequest, "student id is required")
		return
	}

	var req enrollRequest
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

	if err := h.service.Enroll(r.Context(), studentID, req.Class, image); err != nil {
		if respondExtractorError(w, err) {
			return
		}
		log.Printf("enroll %s failed: %v", sanitizeForLog(studentID), err)
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"student_id": studentID,
		"enrolled":   true,
	})
}

// Status handles GET /students/{studentID}/face.
func (h *EnrollHandler) Status(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")

	e, err := h.service.Store().Get(r.Context(), studentID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"student_id": e.StudentID,
		"class":      e.Class,
		"model":      e.Model,
		"dim":        e.Dim,
		"updated_at": e.UpdatedAt,
	})
}

// Unenroll handles DELETE /students/{studentID}/face.
func (h *EnrollHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")

	if err := h.service.Unenroll(r.Context(), studentID); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"student_id": studentID,
		"enrolled":   false,
	})
}
