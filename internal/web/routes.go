package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
	"github.com/appliedrecognition/face-template-r300/internal/web/handlers"
	"github.com/appliedrecognition/face-template-r300/internal/web/middleware"
)

func (s *Server) setupRoutes(extractor *facetemplate.Extractor, detector facetemplate.Detector) {
	templatesHandler := handlers.NewTemplatesHandler(extractor, detector)
	compareHandler := handlers.NewCompareHandler()

	// Health check (no auth required).
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPIKey(s.config.Web.APIKey))

			r.Post("/templates", templatesHandler.Extract)
			r.Post("/compare", compareHandler.Compare)
		})
	})
}
