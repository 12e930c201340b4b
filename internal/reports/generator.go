package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/store"
	"github.com/rs/zerolog/log"
)

// Generator produces report artifacts on disk. Each generated report is
// recorded through the report store and its JSON artifact written under a
// configured directory; deleting the report removes the artifact too.
type Generator struct {
	reports   store.ReportStore
	analytics store.AnalyticsStore
	dir       string

	now func() time.Time
}

// NewGenerator creates a report generator that writes artifacts under dir.
func NewGenerator(reports store.ReportStore, analytics store.AnalyticsStore, dir string) *Generator {
	return &Generator{
		reports:   reports,
		analytics: analytics,
		dir:       dir,
		now:       time.Now,
	}
}

// GenerateParams describes the report to produce.
type GenerateParams struct {
	Title       string
	Description string
	ReportType  string
	Parameters  json.RawMessage
}

// artifact is the JSON document written to disk for a generated report.
type artifact struct {
	ReportID    uuid.UUID       `json:"report_id"`
	Title       string          `json:"title"`
	ReportType  string          `json:"report_type"`
	GeneratedAt time.Time       `json:"generated_at"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`

	Dashboard *models.DashboardStats `json:"dashboard,omitempty"`
	Impact    *models.ImpactMetrics  `json:"impact,omitempty"`
	Trends    []*models.TrendPoint   `json:"trends,omitempty"`
}

// Generate creates a pending report record, writes its artifact and marks the
// record completed. If writing the artifact fails, the record is kept and
// marked failed so the caller can see what happened.
func (g *Generator) Generate(ctx context.Context, ownerID uuid.UUID, params GenerateParams) (*models.Report, error) {
	now := g.now()
	report := &models.Report{
		ID:          uuid.Must(uuid.NewV7()),
		GeneratedBy: ownerID,
		Title:       params.Title,
		Description: params.Description,
		ReportType:  params.ReportType,
		Parameters:  params.Parameters,
		Status:      models.ReportStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := g.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	filePath, err := g.writeArtifact(ctx, ownerID, report)
	if err != nil {
		report.Status = models.ReportStatusFailed
		if updateErr := g.reports.Update(ctx, report); updateErr != nil {
			log.Error().Err(updateErr).
				Str("report_id", report.ID.String()).
				Msg("Failed to mark report as failed")
		}
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report.Status = models.ReportStatusCompleted
	report.FilePath = filePath
	if err := g.reports.Update(ctx, report); err != nil {
		return nil, err
	}

	log.Info().
		Str("report_id", report.ID.String()).
		Str("report_type", report.ReportType).
		Str("file_path", filePath).
		Msg("Generated report")

	return report, nil
}

func (g *Generator) writeArtifact(ctx context.Context, ownerID uuid.UUID, report *models.Report) (string, error) {
	doc := artifact{
		ReportID:    report.ID,
		Title:       report.Title,
		ReportType:  report.ReportType,
		GeneratedAt: g.now(),
		Parameters:  report.Parameters,
	}

	switch report.ReportType {
	case "impact":
		impact, err := g.analytics.ImpactMetrics(ctx, ownerID)
		if err != nil {
			return "", err
		}
		doc.Impact = impact
	case "performance":
		trends, err := g.analytics.PerformanceTrends(ctx, ownerID, 30)
		if err != nil {
			return "", err
		}
		doc.Trends = trends
	default:
		dashboard, err := g.analytics.DashboardStats(ctx, ownerID)
		if err != nil {
			return "", err
		}
		doc.Dashboard = dashboard
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report artifact: %w", err)
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filePath := filepath.Join(g.dir, fmt.Sprintf("report_%d.json", g.now().UnixNano()))
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report artifact: %w", err)
	}

	return filePath, nil
}

// Delete removes a report record along with its artifact. A missing artifact
// file is not an error; the row is authoritative.
func (g *Generator) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	filePath, err := g.reports.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if filePath == "" {
		return nil
	}

	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).
			Str("file_path", filePath).
			Msg("Failed to remove report artifact")
	}

	return nil
}
