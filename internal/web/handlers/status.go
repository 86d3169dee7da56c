package handlers

import (
	"net/http"

	"github.com/edulink/faceid/internal/faceid"
)

// StatusHandler serves the config and stats endpoints.
type StatusHandler struct {
	service *faceid.Service
	backend string
}

// NewStatusHandler creates a status handler. The backend label tells
// operators which store the service is running against.
func NewStatusHandler(service *faceid.Service, backend string) *StatusHandler {
	return &StatusHandler{service: service, backend: backend}
}

// Config handles GET /config.
func (h *StatusHandler) Config(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"similarity_threshold": h.service.Threshold(),
		"embedding_dim":        h.service.Dim(),
		"model_variant":        h.service.Model(),
		"backend":              h.backend,
	})
}

// Stats handles GET /stats.
func (h *StatusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Store().Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"enrolled_students": count,
	})
}
