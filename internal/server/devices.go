package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/auth"
	"github.com/greengp/platform/internal/models"
)

type deviceRequest struct {
	SMMEID           uuid.UUID  `json:"smme_id"`
	Name             string     `json:"device_name"`
	Type             string     `json:"device_type"`
	Serial           string     `json:"serial_number"`
	Location         string     `json:"location"`
	InstallationDate *time.Time `json:"installation_date"`
	Status           string     `json:"status"`
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req deviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.SMMEID == uuid.Nil || req.Name == "" || req.Serial == "" {
		respondMessage(w, http.StatusBadRequest, "smme_id, device_name and serial_number are required")
		return
	}

	if req.Status == "" {
		req.Status = models.DeviceStatusActive
	}

	now := time.Now()
	device := &models.Device{
		ID:               uuid.Must(uuid.NewV7()),
		SMMEID:           req.SMMEID,
		Name:             req.Name,
		Type:             req.Type,
		Serial:           req.Serial,
		Location:         req.Location,
		InstallationDate: req.InstallationDate,
		Status:           req.Status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.stores.Devices.Create(r.Context(), device, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, device)
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	devices, err := s.stores.Devices.List(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, devices)
}

func (s *Server) handleListDevicesBySMME(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	smmeID, ok := pathUUID(w, r, "smmeID")
	if !ok {
		return
	}

	devices, err := s.stores.Devices.ListBySMME(r.Context(), smmeID, principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, devices)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	device, err := s.stores.Devices.Get(r.Context(), id, principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, device)
}

func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req deviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := s.stores.Devices.Get(r.Context(), id, principal.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	device.Name = req.Name
	device.Type = req.Type
	if req.Serial != "" {
		device.Serial = req.Serial
	}
	device.Location = req.Location
	device.InstallationDate = req.InstallationDate
	if req.Status != "" {
		device.Status = req.Status
	}

	if err := s.stores.Devices.Update(r.Context(), device, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, device)
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.stores.Devices.Delete(r.Context(), id, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "device deleted")
}

func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	// timeRange is a trailing window in hours; absent means everything.
	var within time.Duration
	if v := r.URL.Query().Get("timeRange"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			respondMessage(w, http.StatusBadRequest, "timeRange must be a positive number of hours")
			return
		}
		within = time.Duration(hours) * time.Hour
	}

	readings, err := s.stores.Readings.ListByDevice(r.Context(), id, principal.UserID, within)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, readings)
}

type readingRequest struct {
	Value       float64    `json:"value"`
	ReadingType string     `json:"reading_type"`
	Timestamp   *time.Time `json:"timestamp"`
}

func (s *Server) handleAppendReading(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req readingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ReadingType == "" {
		respondMessage(w, http.StatusBadRequest, "reading_type is required")
		return
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	reading := &models.Reading{
		ID:          uuid.Must(uuid.NewV7()),
		DeviceID:    id,
		Value:       req.Value,
		ReadingType: req.ReadingType,
		Timestamp:   timestamp,
	}

	if err := s.stores.Readings.Append(r.Context(), reading, principal.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, reading)
}
