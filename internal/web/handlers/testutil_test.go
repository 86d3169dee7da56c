package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/edulink/faceid/internal/embedding"
	"github.com/edulink/faceid/internal/faceid"
	"github.com/edulink/faceid/internal/store/mock"
)

// stubExtractor returns a fixed vector or error per call.
type stubExtractor struct {
	vec embedding.Vector
	err error
}

func (s *stubExtractor) Extract(ctx context.Context, imageData []byte) (embedding.Vector, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

// newTestRouter builds a router over a mock store and stub extractor.
func newTestRouter(t *testing.T, ext *stubExtractor, st *mock.Store) *chi.Mux {
	t.Helper()

	service := faceid.NewService(ext, st, 0.5, 2, "buffalo_l")

	enrollHandler := NewEnrollHandler(service)
	identifyHandler := NewIdentifyHandler(service)
	statusHandler := NewStatusHandler(service, "memory")

	r := chi.NewRouter()
	r.Get("/api/v1/health", HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", statusHandler.Config)
		r.Get("/stats", statusHandler.Stats)
		r.Put("/students/{studentID}/face", enrollHandler.Enroll)
		r.Get("/students/{studentID}/face", enrollHandler.Status)
		r.Delete("/students/{studentID}/face", enrollHandler.Unenroll)
		r.Post("/identify", identifyHandler.Identify)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// b64Image is a stand-in for an image upload; the stub extractor ignores it.
func b64Image() string {
	return base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))
}
