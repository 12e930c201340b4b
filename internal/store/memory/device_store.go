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

// DeviceStore implements store.DeviceStore using in-memory storage. Ownership
// is resolved through the SMME store on every call, mirroring the join the
// SQL implementation performs.
// This implementation is for testing only - data is lost on restart.
type DeviceStore struct {
	mu sync.RWMutex

	devices         map[uuid.UUID]*models.Device // id -> Device
	devicesBySerial map[string]uuid.UUID         // serial -> device id

	smmes *SMMEStore
}

// NewDeviceStore creates a new in-memory device store backed by the given
// SMME store for ownership-chain checks.
func NewDeviceStore(smmes *SMMEStore) *DeviceStore {
	return &DeviceStore{
		devices:         make(map[uuid.UUID]*models.Device),
		devicesBySerial: make(map[string]uuid.UUID),
		smmes:           smmes,
	}
}

// Create inserts a device only if the parent SMME is owned by ownerID. The
// ownership check and the insert happen under one lock, matching the atomic
// insert-if-parent-owned statement in the SQL store.
func (s *DeviceStore) Create(ctx context.Context, device *models.Device, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.smmes.owned(device.SMMEID, ownerID) {
		return store.ErrNotFound
	}

	if _, exists := s.devicesBySerial[device.Serial]; exists {
		return store.ErrSerialExists
	}

	clone := *device
	s.devices[device.ID] = &clone
	s.devicesBySerial[device.Serial] = device.ID

	return nil
}

// Get retrieves a device reachable from ownerID's SMMEs.
func (s *DeviceStore) Get(ctx context.Context, id, ownerID uuid.UUID) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	device, exists := s.devices[id]
	if !exists || !s.smmes.owned(device.SMMEID, ownerID) {
		return nil, store.ErrNotFound
	}

	clone := *device
	return &clone, nil
}

// List returns all devices reachable from ownerID's SMMEs, newest first.
func (s *DeviceStore) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Device
	for _, device := range s.devices {
		if !s.smmes.owned(device.SMMEID, ownerID) {
			continue
		}
		clone := *device
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// ListBySMME returns the devices of one owned SMME, newest first.
func (s *DeviceStore) ListBySMME(ctx context.Context, smmeID, ownerID uuid.UUID) ([]*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.smmes.owned(smmeID, ownerID) {
		return nil, store.ErrNotFound
	}

	var out []*models.Device
	for _, device := range s.devices {
		if device.SMMEID != smmeID {
			continue
		}
		clone := *device
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Update replaces a device's fields, re-checking the ownership chain.
func (s *DeviceStore) Update(ctx context.Context, device *models.Device, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.devices[device.ID]
	if !exists || !s.smmes.owned(existing.SMMEID, ownerID) {
		return store.ErrNotFound
	}

	if other, taken := s.devicesBySerial[device.Serial]; taken && other != device.ID {
		return store.ErrSerialExists
	}

	clone := *device
	clone.SMMEID = existing.SMMEID // devices are not reparented on update
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()

	delete(s.devicesBySerial, existing.Serial)
	s.devices[device.ID] = &clone
	s.devicesBySerial[clone.Serial] = device.ID

	return nil
}

// Delete removes a device, re-checking the ownership chain.
func (s *DeviceStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.devices[id]
	if !exists || !s.smmes.owned(existing.SMMEID, ownerID) {
		return store.ErrNotFound
	}

	delete(s.devicesBySerial, existing.Serial)
	delete(s.devices, id)

	return nil
}

// owned reports whether the device is reachable from ownerID's SMMEs.
func (s *DeviceStore) owned(id, ownerID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	device, exists := s.devices[id]
	return exists && s.smmes.owned(device.SMMEID, ownerID)
}

// snapshot returns a copy of all devices, for analytics aggregation.
func (s *DeviceStore) snapshot() []*models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Device, 0, len(s.devices))
	for _, device := range s.devices {
		clone := *device
		out = append(out, &clone)
	}
	return out
}
