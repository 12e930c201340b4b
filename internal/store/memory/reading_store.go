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

// maxReadings caps the number of rows a single listing returns.
const maxReadings = 1000

// ReadingStore implements store.ReadingStore using in-memory storage. The
// full user -> SMME -> device chain is re-verified on every call.
// This implementation is for testing only - data is lost on restart.
type ReadingStore struct {
	mu sync.RWMutex

	readings map[uuid.UUID][]*models.Reading // device id -> readings

	devices *DeviceStore
}

// NewReadingStore creates a new in-memory reading store backed by the given
// device store for ownership-chain checks.
func NewReadingStore(devices *DeviceStore) *ReadingStore {
	return &ReadingStore{
		readings: make(map[uuid.UUID][]*models.Reading),
		devices:  devices,
	}
}

// Append records a reading for an owned device.
func (s *ReadingStore) Append(ctx context.Context, reading *models.Reading, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.devices.owned(reading.DeviceID, ownerID) {
		return store.ErrNotFound
	}

	clone := *reading
	s.readings[reading.DeviceID] = append(s.readings[reading.DeviceID], &clone)

	return nil
}

// ListByDevice returns readings for an owned device, newest first, capped at
// 1000 rows. A non-zero within narrows results to the trailing window.
func (s *ReadingStore) ListByDevice(ctx context.Context, deviceID, ownerID uuid.UUID, within time.Duration) ([]*models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.devices.owned(deviceID, ownerID) {
		return nil, store.ErrNotFound
	}

	var cutoff time.Time
	if within > 0 {
		cutoff = time.Now().Add(-within)
	}

	var out []*models.Reading
	for _, reading := range s.readings[deviceID] {
		if within > 0 && reading.Timestamp.Before(cutoff) {
			continue
		}
		clone := *reading
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if len(out) > maxReadings {
		out = out[:maxReadings]
	}

	return out, nil
}

// snapshot returns a copy of all readings, for analytics aggregation.
func (s *ReadingStore) snapshot() []*models.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Reading
	for _, list := range s.readings {
		for _, reading := range list {
			clone := *reading
			out = append(out, &clone)
		}
	}
	return out
}
