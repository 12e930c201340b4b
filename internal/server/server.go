package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/greengp/platform/internal/auth"
	"github.com/greengp/platform/internal/logger"
	"github.com/greengp/platform/internal/reports"
	"github.com/greengp/platform/internal/store"
	"github.com/rs/zerolog"
)

// Server wires the HTTP API over the stores and services.
type Server struct {
	stores    *store.Stores
	auth      *auth.Service
	tokens    *auth.Tokens
	generator *reports.Generator
	version   string
}

// New creates a new server.
func New(stores *store.Stores, authService *auth.Service, tokens *auth.Tokens, generator *reports.Generator, version string) *Server {
	return &Server{
		stores:    stores,
		auth:      authService,
		tokens:    tokens,
		generator: generator,
		version:   version,
	}
}

// Handler returns the HTTP handler for the API. Public routes are the welcome
// page, health check, register, login and the published case studies;
// everything else sits behind the bearer-token gate.
func (s *Server) Handler(log zerolog.Logger) http.Handler {
	authed := s.tokens.Middleware()

	r := chi.NewRouter()
	r.Use(logger.Requests(log))

	r.Get("/", s.handleWelcome)
	r.Get("/api/health", s.handleHealth)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(authed).Get("/profile", s.handleProfile)
	})

	r.Route("/api/smme", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", s.handleCreateSMME)
		r.Get("/", s.handleListSMMEs)
		r.Get("/{id}", s.handleGetSMME)
		r.Put("/{id}", s.handleUpdateSMME)
		r.Delete("/{id}", s.handleDeleteSMME)
	})

	r.Route("/api/iot", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", s.handleCreateDevice)
		r.Get("/", s.handleListDevices)
		r.Get("/smme/{smmeID}", s.handleListDevicesBySMME)
		r.Get("/{id}", s.handleGetDevice)
		r.Put("/{id}", s.handleUpdateDevice)
		r.Delete("/{id}", s.handleDeleteDevice)
		r.Get("/{id}/readings", s.handleListReadings)
		r.Post("/{id}/readings", s.handleAppendReading)
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", s.handleCreateReport)
		r.Post("/generate", s.handleGenerateReport)
		r.Get("/", s.handleListReports)
		r.Get("/{id}", s.handleGetReport)
		r.Put("/{id}", s.handleUpdateReport)
		r.Delete("/{id}", s.handleDeleteReport)
	})

	r.Route("/api/case-studies", func(r chi.Router) {
		r.Get("/", s.handleListPublishedCaseStudies)
		r.Get("/{id}", s.handleGetPublishedCaseStudy)

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/my", s.handleListMyCaseStudies)
			r.Post("/", s.handleCreateCaseStudy)
			r.Put("/{id}", s.handleUpdateCaseStudy)
			r.Delete("/{id}", s.handleDeleteCaseStudy)
			r.Put("/{id}/publish", s.handlePublishCaseStudy)
		})
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(authed)
		r.Get("/dashboard", s.handleDashboardStats)
		r.Get("/performance", s.handlePerformanceTrends)
		r.Get("/location", s.handleLocationStats)
		r.Get("/sector", s.handleSectorStats)
		r.Get("/impact", s.handleImpactMetrics)
	})

	return r
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "GreenGP platform API",
		"version": s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
