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

// SMMEStore implements store.SMMEStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type SMMEStore struct {
	mu sync.RWMutex

	smmes map[uuid.UUID]*models.SMME // id -> SMME
}

// NewSMMEStore creates a new in-memory SMME store.
func NewSMMEStore() *SMMEStore {
	return &SMMEStore{
		smmes: make(map[uuid.UUID]*models.SMME),
	}
}

// Create creates a new SMME in memory.
func (s *SMMEStore) Create(ctx context.Context, smme *models.SMME) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *smme
	s.smmes[smme.ID] = &clone
	return nil
}

// Get retrieves an SMME owned by ownerID. A missing row and a row owned by a
// different user report the same ErrNotFound.
func (s *SMMEStore) Get(ctx context.Context, id, ownerID uuid.UUID) (*models.SMME, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	smme, exists := s.smmes[id]
	if !exists || smme.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}

	clone := *smme
	return &clone, nil
}

// List returns all SMMEs owned by ownerID, newest first.
func (s *SMMEStore) List(ctx context.Context, ownerID uuid.UUID) ([]*models.SMME, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SMME
	for _, smme := range s.smmes {
		if smme.OwnerID != ownerID {
			continue
		}
		clone := *smme
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Update replaces an SMME's fields, keyed by (id, owner).
func (s *SMMEStore) Update(ctx context.Context, smme *models.SMME) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.smmes[smme.ID]
	if !exists || existing.OwnerID != smme.OwnerID {
		return store.ErrNotFound
	}

	clone := *smme
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	s.smmes[smme.ID] = &clone

	return nil
}

// Delete removes an SMME, keyed by (id, owner).
func (s *SMMEStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.smmes[id]
	if !exists || existing.OwnerID != ownerID {
		return store.ErrNotFound
	}

	delete(s.smmes, id)
	return nil
}

// owned reports whether the SMME exists and belongs to ownerID.
func (s *SMMEStore) owned(id, ownerID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	smme, exists := s.smmes[id]
	return exists && smme.OwnerID == ownerID
}

// snapshot returns a copy of all SMMEs, for analytics aggregation.
func (s *SMMEStore) snapshot() []*models.SMME {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.SMME, 0, len(s.smmes))
	for _, smme := range s.smmes {
		clone := *smme
		out = append(out, &clone)
	}
	return out
}
