package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/store"
)

// ReportStore implements store.ReportStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type ReportStore struct {
	mu sync.RWMutex

	reports map[uuid.UUID]*models.Report // id -> Report
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[uuid.UUID]*models.Report),
	}
}

// Create creates a new report in memory.
func (s *ReportStore) Create(ctx context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *report
	s.reports[report.ID] = &clone
	return nil
}

// Get retrieves a report generated by ownerID.
func (s *ReportStore) Get(ctx context.Context, id, ownerID uuid.UUID) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, exists := s.reports[id]
	if !exists || report.GeneratedBy != ownerID {
		return nil, store.ErrNotFound
	}

	clone := *report
	return &clone, nil
}

// List returns all reports generated by ownerID, newest first.
func (s *ReportStore) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Report
	for _, report := range s.reports {
		if report.GeneratedBy != ownerID {
			continue
		}
		clone := *report
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Update replaces a report's fields, keyed by (id, generated_by).
func (s *ReportStore) Update(ctx context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.reports[report.ID]
	if !exists || existing.GeneratedBy != report.GeneratedBy {
		return store.ErrNotFound
	}

	clone := *report
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	s.reports[report.ID] = &clone

	return nil
}

// Delete removes a report and returns its artifact path.
func (s *ReportStore) Delete(ctx context.Context, id, ownerID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.reports[id]
	if !exists || existing.GeneratedBy != ownerID {
		return "", store.ErrNotFound
	}

	delete(s.reports, id)
	return existing.FilePath, nil
}
