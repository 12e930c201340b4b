package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/auth"
	"github.com/greengp/platform/internal/models"
)

type caseStudyRequest struct {
	SMMEID        *uuid.UUID      `json:"smme_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Sector        string          `json:"sector"`
	ImpactMetrics json.RawMessage `json:"impact_metrics"`
	Content       string          `json:"content"`
}

func (s *Server) handleListPublishedCaseStudies(w http.ResponseWriter, r *http.Request) {
	published, err := s.stores.CaseStudies.ListPublished(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, published)
}

func (s *Server) handleGetPublishedCaseStudy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	cs, err := s.stores.CaseStudies.GetPublished(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, cs)
}

func (s *Server) handleListMyCaseStudies(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	mine, err := s.stores.CaseStudies.ListByAuthor(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mine)
}

func (s *Server) handleCreateCaseStudy(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req caseStudyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title == "" {
		respondMessage(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now()
	cs := &models.CaseStudy{
		ID:            uuid.Must(uuid.NewV7()),
		AuthorID:      principal.UserID,
		SMMEID:        req.SMMEID,
		Title:         req.Title,
		Description:   req.Description,
		Sector:        req.Sector,
		ImpactMetrics: req.ImpactMetrics,
		Content:       req.Content,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.stores.CaseStudies.Create(r.Context(), cs); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, cs)
}

func (s *Server) handleUpdateCaseStudy(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req caseStudyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title == "" {
		respondMessage(w, http.StatusBadRequest, "title is required")
		return
	}

	cs := &models.CaseStudy{
		ID:            id,
		AuthorID:      principal.UserID,
		SMMEID:        req.SMMEID,
		Title:         req.Title,
		Description:   req.Description,
		Sector:        req.Sector,
		ImpactMetrics: req.ImpactMetrics,
		Content:       req.Content,
	}

	if err := s.stores.CaseStudies.Update(r.Context(), cs); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, cs)
}

func (s *Server) handleDeleteCaseStudy(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.stores.CaseStudies.Delete(r.Context(), id, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "case study deleted")
}

func (s *Server) handlePublishCaseStudy(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.stores.CaseStudies.Publish(r.Context(), id, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	cs, err := s.stores.CaseStudies.GetPublished(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, cs)
}
