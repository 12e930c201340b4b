package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/stretchr/testify/require"
)

func seedSubtree(t *testing.T, smmes *SMMEStore, devices *DeviceStore, readings *ReadingStore, owner uuid.UUID) *models.Device {
	t.Helper()
	ctx := context.Background()

	smme := newTestSMME(owner, "Green Farms")
	require.NoError(t, smmes.Create(ctx, smme))

	// UUIDv7 leads with timestamp bits, so owners created in the same
	// millisecond share a prefix; the random tail keeps serials unique.
	device := newTestDevice(smme.ID, "SN-"+owner.String()[24:])
	require.NoError(t, devices.Create(ctx, device, owner))

	now := time.Now()
	for i, rt := range []string{"energy", "efficiency", "carbon"} {
		reading := newTestReading(device.ID, float64((i+1)*10), now.Add(-time.Duration(i)*time.Hour))
		reading.ReadingType = rt
		require.NoError(t, readings.Append(ctx, reading, owner))
	}

	return device
}

func TestAnalyticsStore_DashboardStats(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	smmes := NewSMMEStore()
	devices := NewDeviceStore(smmes)
	readings := NewReadingStore(devices)
	analytics := NewAnalyticsStore(smmes, devices, readings)

	first := seedSubtree(t, smmes, devices, readings, owner)
	second := seedSubtree(t, smmes, devices, readings, other)
	require.NotEqual(t, first.Serial, second.Serial)

	stats, err := analytics.DashboardStats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalSMMEs)
	require.Equal(t, int64(1), stats.TotalDevices)
	require.Equal(t, int64(1), stats.ActiveDevices)
	require.Equal(t, int64(3), stats.RecentReadings)
}

func TestAnalyticsStore_ImpactMetrics(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())

	smmes := NewSMMEStore()
	devices := NewDeviceStore(smmes)
	readings := NewReadingStore(devices)
	analytics := NewAnalyticsStore(smmes, devices, readings)

	seedSubtree(t, smmes, devices, readings, owner)

	metrics, err := analytics.ImpactMetrics(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, float64(10), metrics.EnergySavings)
	require.Equal(t, float64(20), metrics.AvgEfficiency)
	require.Equal(t, float64(30), metrics.CarbonReduction)
	require.Equal(t, "30 days", metrics.Period)
}

func TestAnalyticsStore_SectorStats(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	smmes := NewSMMEStore()
	devices := NewDeviceStore(smmes)
	readings := NewReadingStore(devices)
	analytics := NewAnalyticsStore(smmes, devices, readings)

	seedSubtree(t, smmes, devices, readings, owner)
	seedSubtree(t, smmes, devices, readings, other)

	stats, err := analytics.SectorStats(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, "agriculture", stats[0].Sector)
	require.Equal(t, int64(1), stats[0].SMMECount)
	require.Equal(t, int64(1), stats[0].DeviceCount)
	require.Equal(t, float64(20), stats[0].AvgReading)
}

func TestAnalyticsStore_PerformanceTrends(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())

	smmes := NewSMMEStore()
	devices := NewDeviceStore(smmes)
	readings := NewReadingStore(devices)
	analytics := NewAnalyticsStore(smmes, devices, readings)

	device := seedSubtree(t, smmes, devices, readings, owner)

	// One reading well outside the window.
	old := newTestReading(device.ID, 500, time.Now().AddDate(0, 0, -60))
	require.NoError(t, readings.Append(ctx, old, owner))

	trends, err := analytics.PerformanceTrends(ctx, owner, 30)
	require.NoError(t, err)
	require.NotEmpty(t, trends)
	for _, point := range trends {
		require.NotEqual(t, float64(500), point.AvgValue)
	}
}
