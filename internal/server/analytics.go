package server

import (
	"net/http"

	"github.com/greengp/platform/internal/auth"
)

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	stats, err := s.stores.Analytics.DashboardStats(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePerformanceTrends(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	// timeRange is one of 7d, 30d or 90d; anything else falls back to 30 days.
	days := 30
	switch r.URL.Query().Get("timeRange") {
	case "7d":
		days = 7
	case "90d":
		days = 90
	}

	trends, err := s.stores.Analytics.PerformanceTrends(r.Context(), principal.UserID, days)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, trends)
}

func (s *Server) handleLocationStats(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	stats, err := s.stores.Analytics.LocationStats(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSectorStats(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	stats, err := s.stores.Analytics.SectorStats(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImpactMetrics(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	metrics, err := s.stores.Analytics.ImpactMetrics(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
