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

// ReportStore implements store.ReportStore using PostgreSQL, scoped by the
// generated_by column.
type ReportStore struct {
	pool *pgxpool.Pool
}

// NewReportStore creates a new PostgreSQL-backed report store.
func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

const reportColumns = `
	id, generated_by, title, description, report_type,
	parameters, status, file_path, created_at, updated_at
`

func scanReport(row pgx.Row) (*models.Report, error) {
	var r models.Report
	var parameters []byte
	err := row.Scan(
		&r.ID,
		&r.GeneratedBy,
		&r.Title,
		&r.Description,
		&r.ReportType,
		&parameters,
		&r.Status,
		&r.FilePath,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Parameters = parameters
	return &r, nil
}

// Create inserts a new report for its generating user.
func (s *ReportStore) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (
			id, generated_by, title, description, report_type,
			parameters, status, file_path, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	parameters := report.Parameters
	if len(parameters) == 0 {
		parameters = []byte("{}")
	}

	_, err := s.pool.Exec(ctx, query,
		report.ID,
		report.GeneratedBy,
		report.Title,
		report.Description,
		report.ReportType,
		parameters,
		report.Status,
		report.FilePath,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("report_id", report.ID.String()).
		Str("report_type", report.ReportType).
		Msg("Created report")

	return nil
}

// Get retrieves a report generated by ownerID.
func (s *ReportStore) Get(ctx context.Context, id, ownerID uuid.UUID) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1 AND generated_by = $2`

	report, err := scanReport(s.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", mapPostgresError(err))
	}

	return report, nil
}

// List returns all reports generated by ownerID, newest first.
func (s *ReportStore) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE generated_by = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// Update replaces a report's mutable fields, keyed by (id, generated_by).
func (s *ReportStore) Update(ctx context.Context, report *models.Report) error {
	report.UpdatedAt = time.Now()

	query := `
		UPDATE reports SET
			title = $3,
			description = $4,
			status = $5,
			file_path = $6,
			updated_at = $7
		WHERE id = $1 AND generated_by = $2
	`

	result, err := s.pool.Exec(ctx, query,
		report.ID,
		report.GeneratedBy,
		report.Title,
		report.Description,
		report.Status,
		report.FilePath,
		report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Delete removes a report and returns the artifact path recorded on it.
func (s *ReportStore) Delete(ctx context.Context, id, ownerID uuid.UUID) (string, error) {
	query := `DELETE FROM reports WHERE id = $1 AND generated_by = $2 RETURNING file_path`

	var filePath string
	err := s.pool.QueryRow(ctx, query, id, ownerID).Scan(&filePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("failed to delete report: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("report_id", id.String()).
		Msg("Deleted report")

	return filePath, nil
}
