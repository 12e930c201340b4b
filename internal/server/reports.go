package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/auth"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/reports"
)

type reportRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ReportType  string          `json:"report_type"`
	Parameters  json.RawMessage `json:"parameters"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title == "" || req.ReportType == "" {
		respondMessage(w, http.StatusBadRequest, "title and report_type are required")
		return
	}

	now := time.Now()
	report := &models.Report{
		ID:          uuid.Must(uuid.NewV7()),
		GeneratedBy: principal.UserID,
		Title:       req.Title,
		Description: req.Description,
		ReportType:  req.ReportType,
		Parameters:  req.Parameters,
		Status:      models.ReportStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.stores.Reports.Create(r.Context(), report); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title == "" || req.ReportType == "" {
		respondMessage(w, http.StatusBadRequest, "title and report_type are required")
		return
	}

	report, err := s.generator.Generate(r.Context(), principal.UserID, reports.GenerateParams{
		Title:       req.Title,
		Description: req.Description,
		ReportType:  req.ReportType,
		Parameters:  req.Parameters,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	all, err := s.stores.Reports.List(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := s.stores.Reports.Get(r.Context(), id, principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := s.stores.Reports.Get(r.Context(), id, principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if req.Title != "" {
		report.Title = req.Title
	}
	report.Description = req.Description

	if err := s.stores.Reports.Update(r.Context(), report); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.generator.Delete(r.Context(), id, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "report deleted")
}
