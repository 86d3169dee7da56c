package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/edulink/faceid/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	enrollHandler := handlers.NewEnrollHandler(s.service)
	identifyHandler := handlers.NewIdentifyHandler(s.service)
	statusHandler := handlers.NewStatusHandler(s.service, s.backend)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", statusHandler.Config)
		r.Get("/stats", statusHandler.Stats)

		r.Put("/students/{studentID}/face", enrollHandler.Enroll)
		r.Get("/students/{studentID}/face", enrollHandler.Status)
		r.Delete("/students/{studentID}/face", enrollHandler.Unenroll)

		r.Post("/identify", identifyHandler.Identify)
	})
}
