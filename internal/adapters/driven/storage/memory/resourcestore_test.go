package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

func seedResources(t *testing.T, store *ResourceStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, store.Save(context.Background(), domain.Resource{
			ID:       id,
			Type:     "ec2-instance",
			Category: domain.CategoryUncategorized,
		}))
	}
}

func TestResourceStore_SaveAndGet(t *testing.T) {
	store := NewResourceStore()
	ctx := context.Background()

	r := domain.Resource{ID: "i-1", Type: "ec2-instance", Tags: map[string]string{"env": "prod"}}
	require.NoError(t, store.Save(ctx, r))

	// Mutating the caller's map must not leak into the store.
	r.Tags["env"] = "dev"

	got, err := store.Get(ctx, "i-1")
	require.NoError(t, err)
	assert.Equal(t, "prod", got.Tags["env"])

	got.Tags["env"] = "staging"
	again, err := store.Get(ctx, "i-1")
	require.NoError(t, err)
	assert.Equal(t, "prod", again.Tags["env"])
}

func TestResourceStore_GetNotFound(t *testing.T) {
	_, err := NewResourceStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResourceStore_ListOrderedByID(t *testing.T) {
	store := NewResourceStore()
	seedResources(t, store, "c", "a", "b")

	list, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestResourceStore_ListAfter(t *testing.T) {
	store := NewResourceStore()
	ctx := context.Background()
	require.NoError(t, store.SaveBatch(ctx, []domain.Resource{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}))

	first, err := store.ListAfter(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "b", first[1].ID)

	rest, err := store.ListAfter(ctx, first[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "c", rest[0].ID)

	none, err := store.ListAfter(ctx, "d", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestResourceStore_SaveDiscovered(t *testing.T) {
	store := NewResourceStore()
	ctx := context.Background()
	categorized := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, domain.Resource{
		ID: "a", Type: "ec2-instance", Name: "old-name",
		Category: domain.CategoryNew, CategorizedAt: categorized, CategoryNotes: "keep",
	}))

	added, err := store.SaveDiscovered(ctx, []domain.Resource{
		{ID: "a", Type: "ec2-instance", Name: "new-name", Category: domain.CategoryOld},
		{ID: "b", Type: "ebs-volume", Category: domain.CategoryOld, CategoryNotes: "dropped"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	a, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new-name", a.Name)
	assert.Equal(t, domain.CategoryNew, a.Category)
	assert.Equal(t, categorized, a.CategorizedAt)
	assert.Equal(t, "keep", a.CategoryNotes)

	b, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryUncategorized, b.Category)
	assert.Empty(t, b.CategoryNotes)
}
