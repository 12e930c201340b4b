package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Report status values. Reports are created pending and move to completed or
// failed once generation finishes.
const (
	ReportStatusPending   = "pending"
	ReportStatusCompleted = "completed"
	ReportStatusFailed    = "failed"
)

// Report represents a generated report owned by the requesting user. The
// Parameters payload is opaque to the core; it is stored and returned as-is.
type Report struct {
	ID          uuid.UUID       `json:"id"` // UUIDv7
	GeneratedBy uuid.UUID       `json:"generated_by"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ReportType  string          `json:"report_type"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Status      string          `json:"status"`
	FilePath    string          `json:"file_path,omitempty"` // Artifact on disk, removed with the record

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
