package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated principal in the system. Each user is the
// root of an ownership subtree: SMMEs, their devices and readings, reports and
// case studies all trace back to a user.
type User struct {
	ID           uuid.UUID `json:"id"` // UUIDv7
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"` // Unique login identity
	PasswordHash string    `json:"-"`     // bcrypt hash, never serialized
	Organization string    `json:"organization,omitempty"`
	Role         string    `json:"role,omitempty"`
	Phone        string    `json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
