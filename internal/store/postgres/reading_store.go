package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxReadings caps the number of rows a single listing returns.
const maxReadings = 1000

// ReadingStore implements store.ReadingStore using PostgreSQL. Both the
// append and the listing re-verify the user -> SMME -> device chain in the
// statement's own predicates.
type ReadingStore struct {
	pool *pgxpool.Pool
}

// NewReadingStore creates a new PostgreSQL-backed reading store.
func NewReadingStore(pool *pgxpool.Pool) *ReadingStore {
	return &ReadingStore{pool: pool}
}

// Append records a reading for an owned device. The ownership predicate is
// embedded in the INSERT, so a reading can never attach to a foreign device.
func (s *ReadingStore) Append(ctx context.Context, reading *models.Reading, ownerID uuid.UUID) error {
	query := `
		INSERT INTO readings (id, device_id, value, reading_type, ts)
		SELECT $1, d.id, $3, $4, $5
		FROM devices d
		JOIN smmes s ON d.smme_id = s.id
		WHERE d.id = $2 AND s.owner_id = $6
	`

	result, err := s.pool.Exec(ctx, query,
		reading.ID,
		reading.DeviceID,
		reading.Value,
		reading.ReadingType,
		reading.Timestamp,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to append reading: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// ListByDevice returns readings for an owned device, newest first, capped at
// 1000 rows. A non-zero within narrows results to the trailing window.
func (s *ReadingStore) ListByDevice(ctx context.Context, deviceID, ownerID uuid.UUID, within time.Duration) ([]*models.Reading, error) {
	// Verify the chain up front so an empty result set and a foreign device
	// do not look alike to the caller.
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM devices d
			JOIN smmes s ON d.smme_id = s.id
			WHERE d.id = $1 AND s.owner_id = $2
		)
	`, deviceID, ownerID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to verify device ownership: %w", mapPostgresError(err))
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	query := `
		SELECT id, device_id, value, reading_type, ts
		FROM readings
		WHERE device_id = $1
	`
	args := []any{deviceID}

	if within > 0 {
		query += ` AND ts >= $2`
		args = append(args, time.Now().Add(-within))
	}

	query += fmt.Sprintf(` ORDER BY ts DESC LIMIT %d`, maxReadings)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var readings []*models.Reading
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.ID, &r.DeviceID, &r.Value, &r.ReadingType, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating readings: %w", err)
	}

	return readings, nil
}
