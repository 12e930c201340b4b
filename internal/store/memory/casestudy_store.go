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

// CaseStudyStore implements store.CaseStudyStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type CaseStudyStore struct {
	mu sync.RWMutex

	caseStudies map[uuid.UUID]*models.CaseStudy // id -> CaseStudy
}

// NewCaseStudyStore creates a new in-memory case study store.
func NewCaseStudyStore() *CaseStudyStore {
	return &CaseStudyStore{
		caseStudies: make(map[uuid.UUID]*models.CaseStudy),
	}
}

// Create creates a new draft case study in memory.
func (s *CaseStudyStore) Create(ctx context.Context, cs *models.CaseStudy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *cs
	s.caseStudies[cs.ID] = &clone
	return nil
}

// GetPublished retrieves a published case study. Drafts are invisible here
// regardless of who asks.
func (s *CaseStudyStore) GetPublished(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, exists := s.caseStudies[id]
	if !exists || !cs.Published {
		return nil, store.ErrNotFound
	}

	clone := *cs
	return &clone, nil
}

// ListPublished returns all published case studies, newest first.
func (s *CaseStudyStore) ListPublished(ctx context.Context) ([]*models.CaseStudy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.CaseStudy
	for _, cs := range s.caseStudies {
		if !cs.Published {
			continue
		}
		clone := *cs
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// ListByAuthor returns all of one author's case studies, drafts included.
func (s *CaseStudyStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.CaseStudy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.CaseStudy
	for _, cs := range s.caseStudies {
		if cs.AuthorID != authorID {
			continue
		}
		clone := *cs
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Update replaces a case study's editable fields, keyed by (id, author).
func (s *CaseStudyStore) Update(ctx context.Context, cs *models.CaseStudy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.caseStudies[cs.ID]
	if !exists || existing.AuthorID != cs.AuthorID {
		return store.ErrNotFound
	}

	clone := *cs
	clone.CreatedAt = existing.CreatedAt
	clone.Published = existing.Published
	clone.PublishedAt = existing.PublishedAt
	clone.UpdatedAt = time.Now()
	s.caseStudies[cs.ID] = &clone

	return nil
}

// Delete removes a case study, keyed by (id, author).
func (s *CaseStudyStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.caseStudies[id]
	if !exists || existing.AuthorID != authorID {
		return store.ErrNotFound
	}

	delete(s.caseStudies, id)
	return nil
}

// Publish transitions a draft to published. Wrong author, missing row and an
// already-published case study all report the same ErrNotFound.
func (s *CaseStudyStore) Publish(ctx context.Context, id, authorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.caseStudies[id]
	if !exists || existing.AuthorID != authorID || existing.Published {
		return store.ErrNotFound
	}

	now := time.Now()
	existing.Published = true
	existing.PublishedAt = &now
	existing.UpdatedAt = now

	return nil
}
