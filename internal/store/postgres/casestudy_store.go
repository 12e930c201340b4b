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

// CaseStudyStore implements store.CaseStudyStore using PostgreSQL. Draft rows
// are scoped to author_id; published rows are readable without a principal.
type CaseStudyStore struct {
	pool *pgxpool.Pool
}

// NewCaseStudyStore creates a new PostgreSQL-backed case study store.
func NewCaseStudyStore(pool *pgxpool.Pool) *CaseStudyStore {
	return &CaseStudyStore{pool: pool}
}

const caseStudyColumns = `
	id, author_id, smme_id, title, description, sector,
	impact_metrics, content, published, published_at, created_at, updated_at
`

func scanCaseStudy(row pgx.Row) (*models.CaseStudy, error) {
	var cs models.CaseStudy
	var impactMetrics []byte
	err := row.Scan(
		&cs.ID,
		&cs.AuthorID,
		&cs.SMMEID,
		&cs.Title,
		&cs.Description,
		&cs.Sector,
		&impactMetrics,
		&cs.Content,
		&cs.Published,
		&cs.PublishedAt,
		&cs.CreatedAt,
		&cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cs.ImpactMetrics = impactMetrics
	return &cs, nil
}

// Create inserts a new case study as a draft.
func (s *CaseStudyStore) Create(ctx context.Context, cs *models.CaseStudy) error {
	query := `
		INSERT INTO case_studies (
			id, author_id, smme_id, title, description, sector,
			impact_metrics, content, published, published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, NULL, $9, $10)
	`

	impactMetrics := cs.ImpactMetrics
	if len(impactMetrics) == 0 {
		impactMetrics = []byte("{}")
	}

	_, err := s.pool.Exec(ctx, query,
		cs.ID,
		cs.AuthorID,
		cs.SMMEID,
		cs.Title,
		cs.Description,
		cs.Sector,
		impactMetrics,
		cs.Content,
		cs.CreatedAt,
		cs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create case study: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("case_study_id", cs.ID.String()).
		Msg("Created case study")

	return nil
}

// GetPublished retrieves a case study only if it has been published.
func (s *CaseStudyStore) GetPublished(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error) {
	query := `SELECT ` + caseStudyColumns + ` FROM case_studies WHERE id = $1 AND published`

	cs, err := scanCaseStudy(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case study: %w", mapPostgresError(err))
	}

	return cs, nil
}

// ListPublished returns all published case studies, newest publication first.
func (s *CaseStudyStore) ListPublished(ctx context.Context) ([]*models.CaseStudy, error) {
	query := `SELECT ` + caseStudyColumns + ` FROM case_studies WHERE published ORDER BY published_at DESC`

	return s.list(ctx, query)
}

// ListByAuthor returns all of a user's case studies, drafts included.
func (s *CaseStudyStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.CaseStudy, error) {
	query := `SELECT ` + caseStudyColumns + ` FROM case_studies WHERE author_id = $1 ORDER BY created_at DESC`

	return s.list(ctx, query, authorID)
}

func (s *CaseStudyStore) list(ctx context.Context, query string, args ...any) ([]*models.CaseStudy, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list case studies: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var caseStudies []*models.CaseStudy
	for rows.Next() {
		cs, err := scanCaseStudy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case study: %w", err)
		}
		caseStudies = append(caseStudies, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating case studies: %w", err)
	}

	return caseStudies, nil
}

// Update replaces a case study's editable fields, keyed by (id, author_id).
// The published flag and timestamp are never touched here; publishing only
// happens through Publish.
func (s *CaseStudyStore) Update(ctx context.Context, cs *models.CaseStudy) error {
	cs.UpdatedAt = time.Now()

	query := `
		UPDATE case_studies SET
			smme_id = $3,
			title = $4,
			description = $5,
			sector = $6,
			impact_metrics = $7,
			content = $8,
			updated_at = $9
		WHERE id = $1 AND author_id = $2
	`

	impactMetrics := cs.ImpactMetrics
	if len(impactMetrics) == 0 {
		impactMetrics = []byte("{}")
	}

	result, err := s.pool.Exec(ctx, query,
		cs.ID,
		cs.AuthorID,
		cs.SMMEID,
		cs.Title,
		cs.Description,
		cs.Sector,
		impactMetrics,
		cs.Content,
		cs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update case study: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Delete removes a case study authored by authorID.
func (s *CaseStudyStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	query := `DELETE FROM case_studies WHERE id = $1 AND author_id = $2`

	result, err := s.pool.Exec(ctx, query, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete case study: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Publish flips a draft to published. The draft-state check rides in the
// UPDATE predicate, so a concurrent or repeated publish affects zero rows and
// reports ErrNotFound.
func (s *CaseStudyStore) Publish(ctx context.Context, id, authorID uuid.UUID) error {
	query := `
		UPDATE case_studies SET
			published = true,
			published_at = now(),
			updated_at = now()
		WHERE id = $1 AND author_id = $2 AND NOT published
	`

	result, err := s.pool.Exec(ctx, query, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to publish case study: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	log.Debug().
		Str("case_study_id", id.String()).
		Msg("Published case study")

	return nil
}
