package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CaseStudy represents an authored success story. Case studies start as
// drafts visible only to their author; publishing is a one-way transition
// after which the case study is readable by any principal.
type CaseStudy struct {
	ID            uuid.UUID       `json:"id"` // UUIDv7
	AuthorID      uuid.UUID       `json:"author_id"`
	SMMEID        *uuid.UUID      `json:"smme_id,omitempty"` // Optional link to the subject SMME
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Sector        string          `json:"sector,omitempty"`
	ImpactMetrics json.RawMessage `json:"impact_metrics,omitempty"`
	Content       string          `json:"content,omitempty"`
	Published     bool            `json:"published"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
