package models

import (
	"time"

	"github.com/google/uuid"
)

// SMME status values.
const (
	SMMEStatusActive   = "active"
	SMMEStatusInactive = "inactive"
)

// SMME represents a small, medium or micro enterprise record. SMMEs are owned
// directly by a user; all access is filtered by OwnerID.
type SMME struct {
	ID               uuid.UUID  `json:"id"` // UUIDv7
	OwnerID          uuid.UUID  `json:"owner_id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Sector           string     `json:"sector,omitempty"`
	Location         string     `json:"location,omitempty"`
	ContactPerson    string     `json:"contact_person,omitempty"`
	ContactEmail     string     `json:"contact_email,omitempty"`
	ContactPhone     string     `json:"contact_phone,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Status           string     `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
