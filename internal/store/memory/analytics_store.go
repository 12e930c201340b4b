package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
)

// AnalyticsStore implements store.AnalyticsStore by aggregating over the
// in-memory entity stores. Aggregation works on point-in-time snapshots so no
// locks are held across stores.
// This implementation is for testing only.
type AnalyticsStore struct {
	smmes    *SMMEStore
	devices  *DeviceStore
	readings *ReadingStore
}

// NewAnalyticsStore creates an analytics store over the given entity stores.
func NewAnalyticsStore(smmes *SMMEStore, devices *DeviceStore, readings *ReadingStore) *AnalyticsStore {
	return &AnalyticsStore{smmes: smmes, devices: devices, readings: readings}
}

// ownedSubtree captures one user's SMMEs, devices and readings.
type ownedSubtree struct {
	smmes    []*models.SMME
	devices  []*models.Device
	readings []*models.Reading

	deviceSMME map[uuid.UUID]uuid.UUID // device id -> smme id
}

func (s *AnalyticsStore) subtree(ownerID uuid.UUID) *ownedSubtree {
	sub := &ownedSubtree{deviceSMME: make(map[uuid.UUID]uuid.UUID)}

	ownedSMMEs := make(map[uuid.UUID]bool)
	for _, smme := range s.smmes.snapshot() {
		if smme.OwnerID != ownerID {
			continue
		}
		ownedSMMEs[smme.ID] = true
		sub.smmes = append(sub.smmes, smme)
	}

	ownedDevices := make(map[uuid.UUID]bool)
	for _, device := range s.devices.snapshot() {
		if !ownedSMMEs[device.SMMEID] {
			continue
		}
		ownedDevices[device.ID] = true
		sub.deviceSMME[device.ID] = device.SMMEID
		sub.devices = append(sub.devices, device)
	}

	for _, reading := range s.readings.snapshot() {
		if !ownedDevices[reading.DeviceID] {
			continue
		}
		sub.readings = append(sub.readings, reading)
	}

	return sub
}

// DashboardStats counts the user's SMMEs, devices, active devices and
// readings over the last 24 hours.
func (s *AnalyticsStore) DashboardStats(ctx context.Context, ownerID uuid.UUID) (*models.DashboardStats, error) {
	sub := s.subtree(ownerID)

	stats := &models.DashboardStats{
		TotalSMMEs:   int64(len(sub.smmes)),
		TotalDevices: int64(len(sub.devices)),
	}

	for _, device := range sub.devices {
		if device.Status == models.DeviceStatusActive {
			stats.ActiveDevices++
		}
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	for _, reading := range sub.readings {
		if reading.Timestamp.After(cutoff) {
			stats.RecentReadings++
		}
	}

	return stats, nil
}

// PerformanceTrends groups the user's readings by day over the trailing
// window, newest day first.
func (s *AnalyticsStore) PerformanceTrends(ctx context.Context, ownerID uuid.UUID, days int) ([]*models.TrendPoint, error) {
	sub := s.subtree(ownerID)
	cutoff := time.Now().AddDate(0, 0, -days)

	byDay := make(map[time.Time]*models.TrendPoint)
	sums := make(map[time.Time]float64)
	for _, reading := range sub.readings {
		if reading.Timestamp.Before(cutoff) {
			continue
		}
		day := reading.Timestamp.UTC().Truncate(24 * time.Hour)
		point, exists := byDay[day]
		if !exists {
			point = &models.TrendPoint{Date: day}
			byDay[day] = point
		}
		point.ReadingCount++
		sums[day] += reading.Value
	}

	out := make([]*models.TrendPoint, 0, len(byDay))
	for day, point := range byDay {
		point.AvgValue = sums[day] / float64(point.ReadingCount)
		out = append(out, point)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	return out, nil
}

// LocationStats aggregates SMME, device and reading figures per location.
func (s *AnalyticsStore) LocationStats(ctx context.Context, ownerID uuid.UUID) ([]*models.LocationStat, error) {
	sub := s.subtree(ownerID)

	smmeLocation := make(map[uuid.UUID]string)
	byLocation := make(map[string]*models.LocationStat)
	for _, smme := range sub.smmes {
		smmeLocation[smme.ID] = smme.Location
		stat, exists := byLocation[smme.Location]
		if !exists {
			stat = &models.LocationStat{Location: smme.Location}
			byLocation[smme.Location] = stat
		}
		stat.SMMECount++
	}

	deviceLocation := make(map[uuid.UUID]string)
	for _, device := range sub.devices {
		location := smmeLocation[device.SMMEID]
		deviceLocation[device.ID] = location
		byLocation[location].DeviceCount++
	}

	sums := make(map[string]float64)
	counts := make(map[string]int64)
	for _, reading := range sub.readings {
		location := deviceLocation[reading.DeviceID]
		sums[location] += reading.Value
		counts[location]++
	}

	out := make([]*models.LocationStat, 0, len(byLocation))
	for location, stat := range byLocation {
		if counts[location] > 0 {
			stat.AvgReading = sums[location] / float64(counts[location])
		}
		out = append(out, stat)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SMMECount > out[j].SMMECount
	})

	return out, nil
}

// SectorStats aggregates SMME, device and reading figures per sector.
func (s *AnalyticsStore) SectorStats(ctx context.Context, ownerID uuid.UUID) ([]*models.SectorStat, error) {
	sub := s.subtree(ownerID)

	smmeSector := make(map[uuid.UUID]string)
	bySector := make(map[string]*models.SectorStat)
	for _, smme := range sub.smmes {
		smmeSector[smme.ID] = smme.Sector
		stat, exists := bySector[smme.Sector]
		if !exists {
			stat = &models.SectorStat{Sector: smme.Sector}
			bySector[smme.Sector] = stat
		}
		stat.SMMECount++
	}

	deviceSector := make(map[uuid.UUID]string)
	for _, device := range sub.devices {
		sector := smmeSector[device.SMMEID]
		deviceSector[device.ID] = sector
		bySector[sector].DeviceCount++
	}

	sums := make(map[string]float64)
	counts := make(map[string]int64)
	for _, reading := range sub.readings {
		sector := deviceSector[reading.DeviceID]
		sums[sector] += reading.Value
		counts[sector]++
	}

	out := make([]*models.SectorStat, 0, len(bySector))
	for sector, stat := range bySector {
		if counts[sector] > 0 {
			stat.AvgReading = sums[sector] / float64(counts[sector])
		}
		out = append(out, stat)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SMMECount > out[j].SMMECount
	})

	return out, nil
}

// ImpactMetrics sums energy savings and carbon reduction and averages
// efficiency readings over the trailing 30 days.
func (s *AnalyticsStore) ImpactMetrics(ctx context.Context, ownerID uuid.UUID) (*models.ImpactMetrics, error) {
	sub := s.subtree(ownerID)
	cutoff := time.Now().AddDate(0, 0, -30)

	metrics := &models.ImpactMetrics{Period: "30 days"}

	var efficiencySum float64
	var efficiencyCount int64
	for _, reading := range sub.readings {
		if reading.Timestamp.Before(cutoff) {
			continue
		}
		switch reading.ReadingType {
		case "energy":
			metrics.EnergySavings += reading.Value
		case "efficiency":
			efficiencySum += reading.Value
			efficiencyCount++
		case "carbon":
			metrics.CarbonReduction += reading.Value
		}
	}

	if efficiencyCount > 0 {
		metrics.AvgEfficiency = efficiencySum / float64(efficiencyCount)
	}

	return metrics, nil
}
