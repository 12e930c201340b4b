//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/store"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresStores(t *testing.T, ctx context.Context) (*store.Stores, func()) {
	// Start postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := NewPool(ctx, &PoolConfig{ConnString: connString})
	require.NoError(t, err)

	err = RunMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return NewStores(pool), cleanup
}

func createUser(t *testing.T, ctx context.Context, stores *store.Stores, email string) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		ID:           uuid.Must(uuid.NewV7()),
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, stores.Users.Create(ctx, user))
	return user
}

func createSMME(t *testing.T, ctx context.Context, stores *store.Stores, ownerID uuid.UUID, name string) *models.SMME {
	t.Helper()

	now := time.Now()
	smme := &models.SMME{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   ownerID,
		Name:      name,
		Sector:    "agriculture",
		Location:  "Cape Town",
		Status:    models.SMMEStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.SMMEs.Create(ctx, smme))
	return smme
}

func TestIntegration_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	alice := createUser(t, ctx, stores, "alice@example.com")
	bob := createUser(t, ctx, stores, "bob@example.com")

	aliceSMME := createSMME(t, ctx, stores, alice.ID, "Alice Farm")
	bobSMME := createSMME(t, ctx, stores, bob.ID, "Bob Bakery")

	t.Run("duplicate email", func(t *testing.T) {
		dup := &models.User{
			ID:           uuid.Must(uuid.NewV7()),
			FullName:     "Alice Again",
			Email:        "alice@example.com",
			PasswordHash: "x",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		err := stores.Users.Create(ctx, dup)
		require.ErrorIs(t, err, store.ErrEmailTaken)
	})

	t.Run("smme invisible across tenants", func(t *testing.T) {
		got, err := stores.SMMEs.Get(ctx, aliceSMME.ID, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "Alice Farm", got.Name)

		_, err = stores.SMMEs.Get(ctx, aliceSMME.ID, bob.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("cross-tenant update and delete affect nothing", func(t *testing.T) {
		stolen := *aliceSMME
		stolen.OwnerID = bob.ID
		err := stores.SMMEs.Update(ctx, &stolen)
		require.ErrorIs(t, err, store.ErrNotFound)

		err = stores.SMMEs.Delete(ctx, aliceSMME.ID, bob.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = stores.SMMEs.Get(ctx, aliceSMME.ID, alice.ID)
		require.NoError(t, err)
	})

	t.Run("device under foreign smme is rejected", func(t *testing.T) {
		device := &models.Device{
			ID:        uuid.Must(uuid.NewV7()),
			SMMEID:    bobSMME.ID,
			Name:      "Sneaky Sensor",
			Serial:    "SN-FOREIGN-1",
			Status:    models.DeviceStatusActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		err := stores.Devices.Create(ctx, device, alice.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("serial conflicts across tenants", func(t *testing.T) {
		aliceDevice := &models.Device{
			ID:        uuid.Must(uuid.NewV7()),
			SMMEID:    aliceSMME.ID,
			Name:      "Energy Meter",
			Serial:    "SN-SHARED",
			Status:    models.DeviceStatusActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, stores.Devices.Create(ctx, aliceDevice, alice.ID))

		bobDevice := &models.Device{
			ID:        uuid.Must(uuid.NewV7()),
			SMMEID:    bobSMME.ID,
			Name:      "Energy Meter",
			Serial:    "SN-SHARED",
			Status:    models.DeviceStatusActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		err := stores.Devices.Create(ctx, bobDevice, bob.ID)
		require.ErrorIs(t, err, store.ErrSerialExists)
	})

	t.Run("readings follow the ownership chain", func(t *testing.T) {
		device := &models.Device{
			ID:        uuid.Must(uuid.NewV7()),
			SMMEID:    aliceSMME.ID,
			Name:      "Carbon Sensor",
			Serial:    "SN-READINGS",
			Status:    models.DeviceStatusActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, stores.Devices.Create(ctx, device, alice.ID))

		reading := &models.Reading{
			ID:          uuid.Must(uuid.NewV7()),
			DeviceID:    device.ID,
			Value:       42.5,
			ReadingType: "energy",
			Timestamp:   time.Now(),
		}
		require.NoError(t, stores.Readings.Append(ctx, reading, alice.ID))

		// Bob cannot append to or read from Alice's device.
		foreign := &models.Reading{
			ID:          uuid.Must(uuid.NewV7()),
			DeviceID:    device.ID,
			Value:       1,
			ReadingType: "energy",
			Timestamp:   time.Now(),
		}
		err := stores.Readings.Append(ctx, foreign, bob.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = stores.Readings.ListByDevice(ctx, device.ID, bob.ID, 0)
		require.ErrorIs(t, err, store.ErrNotFound)

		readings, err := stores.Readings.ListByDevice(ctx, device.ID, alice.ID, 0)
		require.NoError(t, err)
		require.Len(t, readings, 1)
		require.Equal(t, 42.5, readings[0].Value)
	})
}

func TestIntegration_CaseStudyPublish(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	author := createUser(t, ctx, stores, "author@example.com")
	reader := createUser(t, ctx, stores, "reader@example.com")

	now := time.Now()
	cs := &models.CaseStudy{
		ID:        uuid.Must(uuid.NewV7()),
		AuthorID:  author.ID,
		Title:     "Solar Savings",
		Sector:    "energy",
		Content:   "Cut consumption by a third.",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.CaseStudies.Create(ctx, cs))

	t.Run("draft is not publicly visible", func(t *testing.T) {
		_, err := stores.CaseStudies.GetPublished(ctx, cs.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		mine, err := stores.CaseStudies.ListByAuthor(ctx, author.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
	})

	t.Run("only the author can publish", func(t *testing.T) {
		err := stores.CaseStudies.Publish(ctx, cs.ID, reader.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("publish is one-way and once-only", func(t *testing.T) {
		require.NoError(t, stores.CaseStudies.Publish(ctx, cs.ID, author.ID))

		got, err := stores.CaseStudies.GetPublished(ctx, cs.ID)
		require.NoError(t, err)
		require.True(t, got.Published)
		require.NotNil(t, got.PublishedAt)

		err = stores.CaseStudies.Publish(ctx, cs.ID, author.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update cannot flip the published flag back", func(t *testing.T) {
		edited := *cs
		edited.Title = "Solar Savings, Revised"
		edited.Published = false
		require.NoError(t, stores.CaseStudies.Update(ctx, &edited))

		got, err := stores.CaseStudies.GetPublished(ctx, cs.ID)
		require.NoError(t, err)
		require.Equal(t, "Solar Savings, Revised", got.Title)
		require.True(t, got.Published)
	})
}

func TestIntegration_ReportLifecycle(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	user := createUser(t, ctx, stores, "reports@example.com")
	other := createUser(t, ctx, stores, "other@example.com")

	now := time.Now()
	report := &models.Report{
		ID:          uuid.Must(uuid.NewV7()),
		GeneratedBy: user.ID,
		Title:       "Monthly Energy",
		ReportType:  "energy",
		Parameters:  []byte(`{"days":30}`),
		Status:      models.ReportStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, stores.Reports.Create(ctx, report))

	t.Run("status transition", func(t *testing.T) {
		report.Status = models.ReportStatusCompleted
		report.FilePath = "/tmp/reports/report_1.json"
		require.NoError(t, stores.Reports.Update(ctx, report))

		got, err := stores.Reports.Get(ctx, report.ID, user.ID)
		require.NoError(t, err)
		require.Equal(t, models.ReportStatusCompleted, got.Status)
		require.Equal(t, "/tmp/reports/report_1.json", got.FilePath)
	})

	t.Run("foreign delete fails", func(t *testing.T) {
		_, err := stores.Reports.Delete(ctx, report.ID, other.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete returns artifact path", func(t *testing.T) {
		filePath, err := stores.Reports.Delete(ctx, report.ID, user.ID)
		require.NoError(t, err)
		require.Equal(t, "/tmp/reports/report_1.json", filePath)

		_, err = stores.Reports.Get(ctx, report.ID, user.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestIntegration_Analytics(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	user := createUser(t, ctx, stores, "analytics@example.com")
	other := createUser(t, ctx, stores, "noise@example.com")

	smme := createSMME(t, ctx, stores, user.ID, "Analytics Farm")
	otherSMME := createSMME(t, ctx, stores, other.ID, "Noise Bakery")

	device := &models.Device{
		ID:        uuid.Must(uuid.NewV7()),
		SMMEID:    smme.ID,
		Name:      "Meter",
		Serial:    "SN-AN-1",
		Status:    models.DeviceStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, stores.Devices.Create(ctx, device, user.ID))

	noiseDevice := &models.Device{
		ID:        uuid.Must(uuid.NewV7()),
		SMMEID:    otherSMME.ID,
		Name:      "Noise Meter",
		Serial:    "SN-AN-2",
		Status:    models.DeviceStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, stores.Devices.Create(ctx, noiseDevice, other.ID))

	for i, rt := range []string{"energy", "efficiency", "carbon"} {
		reading := &models.Reading{
			ID:          uuid.Must(uuid.NewV7()),
			DeviceID:    device.ID,
			Value:       float64(10 * (i + 1)),
			ReadingType: rt,
			Timestamp:   time.Now(),
		}
		require.NoError(t, stores.Readings.Append(ctx, reading, user.ID))
	}

	// A reading belonging to the other tenant must not leak into aggregates.
	noise := &models.Reading{
		ID:          uuid.Must(uuid.NewV7()),
		DeviceID:    noiseDevice.ID,
		Value:       1000,
		ReadingType: "energy",
		Timestamp:   time.Now(),
	}
	require.NoError(t, stores.Readings.Append(ctx, noise, other.ID))

	t.Run("dashboard stats", func(t *testing.T) {
		stats, err := stores.Analytics.DashboardStats(ctx, user.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, stats.TotalSMMEs)
		require.EqualValues(t, 1, stats.TotalDevices)
		require.EqualValues(t, 1, stats.ActiveDevices)
		require.EqualValues(t, 3, stats.RecentReadings)
	})

	t.Run("performance trends", func(t *testing.T) {
		trends, err := stores.Analytics.PerformanceTrends(ctx, user.ID, 7)
		require.NoError(t, err)
		require.Len(t, trends, 1)
		require.EqualValues(t, 3, trends[0].ReadingCount)
		require.InDelta(t, 20.0, trends[0].AvgValue, 0.001)
	})

	t.Run("location stats", func(t *testing.T) {
		stats, err := stores.Analytics.LocationStats(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		require.Equal(t, "Cape Town", stats[0].Location)
		require.EqualValues(t, 1, stats[0].SMMECount)
		require.EqualValues(t, 1, stats[0].DeviceCount)
	})

	t.Run("impact metrics", func(t *testing.T) {
		metrics, err := stores.Analytics.ImpactMetrics(ctx, user.ID)
		require.NoError(t, err)
		require.InDelta(t, 10.0, metrics.EnergySavings, 0.001)
		require.InDelta(t, 20.0, metrics.AvgEfficiency, 0.001)
		require.InDelta(t, 30.0, metrics.CarbonReduction, 0.001)
		require.Equal(t, "30 days", metrics.Period)
	})
}
