package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/store"
	"github.com/stretchr/testify/require"
)

func newTestReading(deviceID uuid.UUID, value float64, at time.Time) *models.Reading {
	return &models.Reading{
		ID:          uuid.Must(uuid.NewV7()),
		DeviceID:    deviceID,
		Value:       value,
		ReadingType: "energy",
		Timestamp:   at,
	}
}

func TestReadingStore(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	smmes := NewSMMEStore()
	devices := NewDeviceStore(smmes)
	readings := NewReadingStore(devices)

	smme := newTestSMME(owner, "Green Farms")
	require.NoError(t, smmes.Create(ctx, smme))

	device := newTestDevice(smme.ID, "SN-R1")
	require.NoError(t, devices.Create(ctx, device, owner))

	t.Run("append for owned device", func(t *testing.T) {
		require.NoError(t, readings.Append(ctx, newTestReading(device.ID, 10, time.Now()), owner))
	})

	t.Run("append through another user's chain fails", func(t *testing.T) {
		err := readings.Append(ctx, newTestReading(device.ID, 99, time.Now()), other)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list is newest first", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, readings.Append(ctx, newTestReading(device.ID, 20, now.Add(-2*time.Hour)), owner))
		require.NoError(t, readings.Append(ctx, newTestReading(device.ID, 30, now.Add(-time.Hour)), owner))

		got, err := readings.ListByDevice(ctx, device.ID, owner, 0)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(got), 3)
		for i := 1; i < len(got); i++ {
			require.False(t, got[i].Timestamp.After(got[i-1].Timestamp))
		}
	})

	t.Run("time window filters old readings", func(t *testing.T) {
		got, err := readings.ListByDevice(ctx, device.ID, owner, 90*time.Minute)
		require.NoError(t, err)
		for _, reading := range got {
			require.NotEqual(t, float64(20), reading.Value)
		}
	})

	t.Run("another user cannot list", func(t *testing.T) {
		_, err := readings.ListByDevice(ctx, device.ID, other, 0)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
