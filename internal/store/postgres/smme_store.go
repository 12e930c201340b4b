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

// SMMEStore implements store.SMMEStore using PostgreSQL. Every query other
// than Create carries the owner_id predicate; an empty result is reported as
// store.ErrNotFound without distinguishing absence from foreign ownership.
type SMMEStore struct {
	pool *pgxpool.Pool
}

// NewSMMEStore creates a new PostgreSQL-backed SMME store.
func NewSMMEStore(pool *pgxpool.Pool) *SMMEStore {
	return &SMMEStore{pool: pool}
}

const smmeColumns = `
	id, owner_id, name, description, sector, location,
	contact_person, contact_email, contact_phone,
	registration_date, status, created_at, updated_at
`

func scanSMME(row pgx.Row) (*models.SMME, error) {
	var m models.SMME
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Name,
		&m.Description,
		&m.Sector,
		&m.Location,
		&m.ContactPerson,
		&m.ContactEmail,
		&m.ContactPhone,
		&m.RegistrationDate,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new SMME for its owner.
func (s *SMMEStore) Create(ctx context.Context, smme *models.SMME) error {
	query := `
		INSERT INTO smmes (
			id, owner_id, name, description, sector, location,
			contact_person, contact_email, contact_phone,
			registration_date, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		smme.ID,
		smme.OwnerID,
		smme.Name,
		smme.Description,
		smme.Sector,
		smme.Location,
		smme.ContactPerson,
		smme.ContactEmail,
		smme.ContactPhone,
		smme.RegistrationDate,
		smme.Status,
		smme.CreatedAt,
		smme.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create smme: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("smme_id", smme.ID.String()).
		Str("owner_id", smme.OwnerID.String()).
		Msg("Created SMME")

	return nil
}

// Get retrieves an SMME owned by ownerID.
func (s *SMMEStore) Get(ctx context.Context, id, ownerID uuid.UUID) (*models.SMME, error) {
	query := `SELECT ` + smmeColumns + ` FROM smmes WHERE id = $1 AND owner_id = $2`

	smme, err := scanSMME(s.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get smme: %w", mapPostgresError(err))
	}

	return smme, nil
}

// List returns all SMMEs owned by ownerID, newest first.
func (s *SMMEStore) List(ctx context.Context, ownerID uuid.UUID) ([]*models.SMME, error) {
	query := `SELECT ` + smmeColumns + ` FROM smmes WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list smmes: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var smmes []*models.SMME
	for rows.Next() {
		smme, err := scanSMME(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan smme: %w", err)
		}
		smmes = append(smmes, smme)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating smmes: %w", err)
	}

	return smmes, nil
}

// Update replaces an SMME's fields, keyed by (id, owner_id).
func (s *SMMEStore) Update(ctx context.Context, smme *models.SMME) error {
	smme.UpdatedAt = time.Now()

	query := `
		UPDATE smmes SET
			name = $3,
			description = $4,
			sector = $5,
			location = $6,
			contact_person = $7,
			contact_email = $8,
			contact_phone = $9,
			registration_date = $10,
			status = $11,
			updated_at = $12
		WHERE id = $1 AND owner_id = $2
	`

	result, err := s.pool.Exec(ctx, query,
		smme.ID,
		smme.OwnerID,
		smme.Name,
		smme.Description,
		smme.Sector,
		smme.Location,
		smme.ContactPerson,
		smme.ContactEmail,
		smme.ContactPhone,
		smme.RegistrationDate,
		smme.Status,
		smme.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update smme: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Delete removes an SMME, keyed by (id, owner_id). Devices and readings
// underneath it go with it via ON DELETE CASCADE.
func (s *SMMEStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM smmes WHERE id = $1 AND owner_id = $2`

	result, err := s.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete smme: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	log.Debug().
		Str("smme_id", id.String()).
		Msg("Deleted SMME")

	return nil
}
