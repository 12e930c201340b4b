package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/auth"
	"github.com/greengp/platform/internal/models"
)

type smmeRequest struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Sector           string     `json:"sector"`
	Location         string     `json:"location"`
	ContactPerson    string     `json:"contact_person"`
	ContactEmail     string     `json:"contact_email"`
	ContactPhone     string     `json:"contact_phone"`
	RegistrationDate *time.Time `json:"registration_date"`
	Status           string     `json:"status"`
}

func (s *Server) handleCreateSMME(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req smmeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	if req.Status == "" {
		req.Status = models.SMMEStatusActive
	}

	now := time.Now()
	smme := &models.SMME{
		ID:               uuid.Must(uuid.NewV7()),
		OwnerID:          principal.UserID,
		Name:             req.Name,
		Description:      req.Description,
		Sector:           req.Sector,
		Location:         req.Location,
		ContactPerson:    req.ContactPerson,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		RegistrationDate: req.RegistrationDate,
		Status:           req.Status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.stores.SMMEs.Create(r.Context(), smme); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, smme)
}

func (s *Server) handleListSMMEs(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	smmes, err := s.stores.SMMEs.List(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, smmes)
}

func (s *Server) handleGetSMME(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	smme, err := s.stores.SMMEs.Get(r.Context(), id, principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, smme)
}

func (s *Server) handleUpdateSMME(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req smmeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	smme, err := s.stores.SMMEs.Get(r.Context(), id, principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	smme.Name = req.Name
	smme.Description = req.Description
	smme.Sector = req.Sector
	smme.Location = req.Location
	smme.ContactPerson = req.ContactPerson
	smme.ContactEmail = req.ContactEmail
	smme.ContactPhone = req.ContactPhone
	smme.RegistrationDate = req.RegistrationDate
	if req.Status != "" {
		smme.Status = req.Status
	}

	if err := s.stores.SMMEs.Update(r.Context(), smme); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, smme)
}

func (s *Server) handleDeleteSMME(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.stores.SMMEs.Delete(r.Context(), id, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "smme deleted")
}
