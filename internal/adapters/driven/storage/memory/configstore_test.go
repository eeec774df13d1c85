package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Seed(t *testing.T) {
	seed := map[string]any{"bulk.max_items": 50}
	store := NewConfigStore(seed, map[string]any{"bulk.warn_threshold": 10})

	val, ok := store.Get("bulk.max_items")
	assert.True(t, ok)
	assert.Equal(t, 50, val)
	val, _ = store.Get("bulk.warn_threshold")
	assert.Equal(t, 10, val)

	// The seed map is copied.
	seed["bulk.max_items"] = 1
	val, _ = store.Get("bulk.max_items")
	assert.Equal(t, 50, val)
}

func TestConfigStore_SetManyAndDelete(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("collector.gcp_project", "acme"))
	require.NoError(t, store.SetMany(map[string]any{
		"collector.gcp_project": "acme-prod",
		"list.page_size":        25,
	}))

	val, _ := store.Get("collector.gcp_project")
	assert.Equal(t, "acme-prod", val)
	val, _ = store.Get("list.page_size")
	assert.Equal(t, 25, val)

	require.NoError(t, store.Delete("list.page_size"))
	_, ok := store.Get("list.page_size")
	assert.False(t, ok)
	assert.NoError(t, store.Delete("missing"))
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("list.page_size", 10))

	assert.NoError(t, store.Load())
	val, _ := store.Get("list.page_size")
	assert.Equal(t, 10, val)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("bulk.max_items", n)
			_, _ = store.Get("bulk.max_items")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("bulk.max_items")
	assert.True(t, ok)
}
