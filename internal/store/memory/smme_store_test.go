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

func newTestSMME(ownerID uuid.UUID, name string) *models.SMME {
	now := time.Now()
	return &models.SMME{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   ownerID,
		Name:      name,
		Sector:    "agriculture",
		Location:  "Gauteng",
		Status:    models.SMMEStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSMMEStore_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	st := NewSMMEStore()
	smme := newTestSMME(owner, "Green Farms")
	require.NoError(t, st.Create(ctx, smme))

	t.Run("owner can read", func(t *testing.T) {
		got, err := st.Get(ctx, smme.ID, owner)
		require.NoError(t, err)
		require.Equal(t, "Green Farms", got.Name)
	})

	t.Run("another user sees not found", func(t *testing.T) {
		_, err := st.Get(ctx, smme.ID, other)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("another user cannot update", func(t *testing.T) {
		stolen := *smme
		stolen.OwnerID = other
		stolen.Name = "Hijacked"
		require.ErrorIs(t, st.Update(ctx, &stolen), store.ErrNotFound)

		got, err := st.Get(ctx, smme.ID, owner)
		require.NoError(t, err)
		require.Equal(t, "Green Farms", got.Name)
	})

	t.Run("another user cannot delete", func(t *testing.T) {
		require.ErrorIs(t, st.Delete(ctx, smme.ID, other), store.ErrNotFound)

		_, err := st.Get(ctx, smme.ID, owner)
		require.NoError(t, err)
	})

	t.Run("list never crosses tenants", func(t *testing.T) {
		require.NoError(t, st.Create(ctx, newTestSMME(other, "Other Biz")))

		mine, err := st.List(ctx, owner)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, smme.ID, mine[0].ID)
	})
}

func TestSMMEStore_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())

	st := NewSMMEStore()
	smme := newTestSMME(owner, "Original")
	require.NoError(t, st.Create(ctx, smme))

	t.Run("owner updates fields", func(t *testing.T) {
		smme.Name = "Renamed"
		require.NoError(t, st.Update(ctx, smme))

		got, err := st.Get(ctx, smme.ID, owner)
		require.NoError(t, err)
		require.Equal(t, "Renamed", got.Name)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, st.Delete(ctx, smme.ID, owner))

		_, err := st.Get(ctx, smme.ID, owner)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete again reports not found", func(t *testing.T) {
		require.ErrorIs(t, st.Delete(ctx, smme.ID, owner), store.ErrNotFound)
	})
}
