package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DeviceStore implements store.DeviceStore using PostgreSQL. Devices carry no
// owner column; every query joins through the parent SMME so the ownership
// chain is enforced by the store itself.
type DeviceStore struct {
	pool *pgxpool.Pool
}

// NewDeviceStore creates a new PostgreSQL-backed device store.
func NewDeviceStore(pool *pgxpool.Pool) *DeviceStore {
	return &DeviceStore{pool: pool}
}

const deviceColumns = `
	d.id, d.smme_id, d.name, d.type, d.serial_number,
	d.location, d.installation_date, d.status, d.created_at, d.updated_at
`

func scanDevice(row pgx.Row) (*models.Device, error) {
	var d models.Device
	err := row.Scan(
		&d.ID,
		&d.SMMEID,
		&d.Name,
		&d.Type,
		&d.Serial,
		&d.Location,
		&d.InstallationDate,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a device under an SMME owned by ownerID. The ownership
// predicate is embedded in the INSERT itself (insert-if-parent-owned), so the
// parent check and the insert cannot observe different states. Zero rows
// inserted means the parent is absent or foreign; either way nothing was
// written.
func (s *DeviceStore) Create(ctx context.Context, device *models.Device, ownerID uuid.UUID) error {
	query := `
		INSERT INTO devices (
			id, smme_id, name, type, serial_number,
			location, installation_date, status, created_at, updated_at
		)
		SELECT $1, s.id, $3, $4, $5, $6, $7, $8, $9, $10
		FROM smmes s
		WHERE s.id = $2 AND s.owner_id = $11
	`

	result, err := s.pool.Exec(ctx, query,
		device.ID,
		device.SMMEID,
		device.Name,
		device.Type,
		device.Serial,
		device.Location,
		device.InstallationDate,
		device.Status,
		device.CreatedAt,
		device.UpdatedAt,
		ownerID,
	)
	if err != nil {
		if mapped := mapPostgresError(err); errors.Is(mapped, store.ErrSerialExists) {
			return store.ErrSerialExists
		}
		return fmt.Errorf("failed to create device: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	log.Debug().
		Str("device_id", device.ID.String()).
		Str("smme_id", device.SMMEID.String()).
		Msg("Created device")

	return nil
}

// Get retrieves a device reachable from ownerID's SMMEs.
func (s *DeviceStore) Get(ctx context.Context, id, ownerID uuid.UUID) (*models.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		JOIN smmes s ON d.smme_id = s.id
		WHERE d.id = $1 AND s.owner_id = $2
	`

	device, err := scanDevice(s.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", mapPostgresError(err))
	}

	return device, nil
}

// List returns all devices reachable from ownerID's SMMEs, newest first.
func (s *DeviceStore) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		JOIN smmes s ON d.smme_id = s.id
		WHERE s.owner_id = $1
		ORDER BY d.created_at DESC
	`

	return s.queryDevices(ctx, query, ownerID)
}

// ListBySMME returns the devices of one owned SMME, newest first. Listing a
// foreign SMME is indistinguishable from listing a missing one.
func (s *DeviceStore) ListBySMME(ctx context.Context, smmeID, ownerID uuid.UUID) ([]*models.Device, error) {
	// Verify the parent is owned so an empty device list and a foreign SMME
	// do not look alike to the caller.
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM smmes WHERE id = $1 AND owner_id = $2)`,
		smmeID, ownerID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to verify smme ownership: %w", mapPostgresError(err))
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		JOIN smmes s ON d.smme_id = s.id
		WHERE d.smme_id = $1 AND s.owner_id = $2
		ORDER BY d.created_at DESC
	`

	return s.queryDevices(ctx, query, smmeID, ownerID)
}

func (s *DeviceStore) queryDevices(ctx context.Context, query string, args ...any) ([]*models.Device, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var devices []*models.Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating devices: %w", err)
	}

	return devices, nil
}

// Update replaces a device's fields, re-checking the ownership chain in the
// UPDATE's own predicate. Devices are not reparented on update.
func (s *DeviceStore) Update(ctx context.Context, device *models.Device, ownerID uuid.UUID) error {
	device.UpdatedAt = time.Now()

	query := `
		UPDATE devices d SET
			name = $3,
			type = $4,
			serial_number = $5,
			location = $6,
			installation_date = $7,
			status = $8,
			updated_at = $9
		FROM smmes s
		WHERE d.id = $1 AND d.smme_id = s.id AND s.owner_id = $2
	`

	result, err := s.pool.Exec(ctx, query,
		device.ID,
		ownerID,
		device.Name,
		device.Type,
		device.Serial,
		device.Location,
		device.InstallationDate,
		device.Status,
		device.UpdatedAt,
	)
	if err != nil {
		if mapped := mapPostgresError(err); errors.Is(mapped, store.ErrSerialExists) {
			return store.ErrSerialExists
		}
		return fmt.Errorf("failed to update device: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Delete removes a device, re-checking the ownership chain.
func (s *DeviceStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `
		DELETE FROM devices d
		USING smmes s
		WHERE d.id = $1 AND d.smme_id = s.id AND s.owner_id = $2
	`

	result, err := s.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	log.Debug().
		Str("device_id", id.String()).
		Msg("Deleted device")

	return nil
}
