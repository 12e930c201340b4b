package models

import (
	"time"

	"github.com/google/uuid"
)

// Device status values.
const (
	DeviceStatusActive   = "active"
	DeviceStatusInactive = "inactive"
	DeviceStatusFaulty   = "faulty"
)

// Device represents an IoT device installed at an SMME. Devices have no owner
// field of their own; ownership is transitive through the parent SMME, and
// every access re-checks that chain.
type Device struct {
	ID               uuid.UUID  `json:"id"` // UUIDv7
	SMMEID           uuid.UUID  `json:"smme_id"`
	Name             string     `json:"device_name"`
	Type             string     `json:"device_type,omitempty"`
	Serial           string     `json:"serial_number"` // Unique across all tenants
	Location         string     `json:"location,omitempty"`
	InstallationDate *time.Time `json:"installation_date,omitempty"`
	Status           string     `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reading is a single sensor sample reported by a device. Readings are
// append-only and attributed through exactly one device.
type Reading struct {
	ID          uuid.UUID `json:"id"` // UUIDv7
	DeviceID    uuid.UUID `json:"device_id"`
	Value       float64   `json:"value"`
	ReadingType string    `json:"reading_type"` // e.g. "energy", "efficiency", "carbon"
	Timestamp   time.Time `json:"timestamp"`
}
