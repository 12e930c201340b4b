package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsStore implements store.AnalyticsStore with aggregate queries over
// the ownership subtree. Every query anchors at smmes.owner_id so one user's
// figures never include another tenant's rows.
type AnalyticsStore struct {
	pool *pgxpool.Pool
}

// NewAnalyticsStore creates a new PostgreSQL-backed analytics store.
func NewAnalyticsStore(pool *pgxpool.Pool) *AnalyticsStore {
	return &AnalyticsStore{pool: pool}
}

// DashboardStats counts the user's SMMEs, devices, active devices and
// readings over the last 24 hours.
func (s *AnalyticsStore) DashboardStats(ctx context.Context, ownerID uuid.UUID) (*models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM smmes WHERE owner_id = $1),
			(SELECT count(*) FROM devices d
				JOIN smmes s ON d.smme_id = s.id
				WHERE s.owner_id = $1),
			(SELECT count(*) FROM devices d
				JOIN smmes s ON d.smme_id = s.id
				WHERE s.owner_id = $1 AND d.status = 'active'),
			(SELECT count(*) FROM readings r
				JOIN devices d ON r.device_id = d.id
				JOIN smmes s ON d.smme_id = s.id
				WHERE s.owner_id = $1 AND r.ts >= now() - interval '24 hours')
	`

	var stats models.DashboardStats
	err := s.pool.QueryRow(ctx, query, ownerID).Scan(
		&stats.TotalSMMEs,
		&stats.TotalDevices,
		&stats.ActiveDevices,
		&stats.RecentReadings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", mapPostgresError(err))
	}

	return &stats, nil
}

// PerformanceTrends groups the user's readings by day over the trailing
// window, newest day first.
func (s *AnalyticsStore) PerformanceTrends(ctx context.Context, ownerID uuid.UUID, days int) ([]*models.TrendPoint, error) {
	query := `
		SELECT date_trunc('day', r.ts) AS day, count(*), avg(r.value)
		FROM readings r
		JOIN devices d ON r.device_id = d.id
		JOIN smmes s ON d.smme_id = s.id
		WHERE s.owner_id = $1 AND r.ts >= now() - make_interval(days => $2)
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err := s.pool.Query(ctx, query, ownerID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get performance trends: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var trends []*models.TrendPoint
	for rows.Next() {
		var point models.TrendPoint
		if err := rows.Scan(&point.Date, &point.ReadingCount, &point.AvgValue); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		trends = append(trends, &point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend points: %w", err)
	}

	return trends, nil
}

// LocationStats aggregates SMME, device and reading figures per location.
func (s *AnalyticsStore) LocationStats(ctx context.Context, ownerID uuid.UUID) ([]*models.LocationStat, error) {
	query := `
		SELECT
			s.location,
			count(DISTINCT s.id),
			count(DISTINCT d.id),
			coalesce(avg(r.value), 0)
		FROM smmes s
		LEFT JOIN devices d ON d.smme_id = s.id
		LEFT JOIN readings r ON r.device_id = d.id
		WHERE s.owner_id = $1
		GROUP BY s.location
		ORDER BY count(DISTINCT s.id) DESC
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get location stats: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var stats []*models.LocationStat
	for rows.Next() {
		var stat models.LocationStat
		if err := rows.Scan(&stat.Location, &stat.SMMECount, &stat.DeviceCount, &stat.AvgReading); err != nil {
			return nil, fmt.Errorf("failed to scan location stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location stats: %w", err)
	}

	return stats, nil
}

// SectorStats aggregates SMME, device and reading figures per sector.
func (s *AnalyticsStore) SectorStats(ctx context.Context, ownerID uuid.UUID) ([]*models.SectorStat, error) {
	query := `
		SELECT
			s.sector,
			count(DISTINCT s.id),
			count(DISTINCT d.id),
			coalesce(avg(r.value), 0)
		FROM smmes s
		LEFT JOIN devices d ON d.smme_id = s.id
		LEFT JOIN readings r ON r.device_id = d.id
		WHERE s.owner_id = $1
		GROUP BY s.sector
		ORDER BY count(DISTINCT s.id) DESC
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sector stats: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var stats []*models.SectorStat
	for rows.Next() {
		var stat models.SectorStat
		if err := rows.Scan(&stat.Sector, &stat.SMMECount, &stat.DeviceCount, &stat.AvgReading); err != nil {
			return nil, fmt.Errorf("failed to scan sector stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sector stats: %w", err)
	}

	return stats, nil
}

// ImpactMetrics sums energy savings and carbon reduction and averages
// efficiency readings over the trailing 30 days.
func (s *AnalyticsStore) ImpactMetrics(ctx context.Context, ownerID uuid.UUID) (*models.ImpactMetrics, error) {
	query := `
		SELECT
			coalesce(sum(r.value) FILTER (WHERE r.reading_type = 'energy'), 0),
			coalesce(avg(r.value) FILTER (WHERE r.reading_type = 'efficiency'), 0),
			coalesce(sum(r.value) FILTER (WHERE r.reading_type = 'carbon'), 0)
		FROM readings r
		JOIN devices d ON r.device_id = d.id
		JOIN smmes s ON d.smme_id = s.id
		WHERE s.owner_id = $1 AND r.ts >= now() - interval '30 days'
	`

	metrics := &models.ImpactMetrics{Period: "30 days"}
	err := s.pool.QueryRow(ctx, query, ownerID).Scan(
		&metrics.EnergySavings,
		&metrics.AvgEfficiency,
		&metrics.CarbonReduction,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get impact metrics: %w", mapPostgresError(err))
	}

	return metrics, nil
}
