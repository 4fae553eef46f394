package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("render.format", "html"))
	require.NoError(t, store.Set("render.format", "plain"))

	val, ok := store.Get("render.format")
	assert.True(t, ok)
	assert.Equal(t, "plain", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", int64(12)))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("l", []any{"a", "b"}))
	require.NoError(t, store.Set("d", "45s"))

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 12, store.GetInt("i"))
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("l"))
	assert.Equal(t, 45*time.Second, store.GetDuration("d"))

	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_KeysSorted(t *testing.T) {
	store := NewConfigStore()
	for _, k := range []string{"search.limit", "cache.ttl", "highlight.max_matches"} {
		require.NoError(t, store.Set(k, 1))
	}

	assert.Equal(t, []string{"cache.ttl", "highlight.max_matches", "search.limit"}, store.Keys())
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("shared", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("shared")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	_, ok := store.Get("shared")
	assert.True(t, ok)
}
