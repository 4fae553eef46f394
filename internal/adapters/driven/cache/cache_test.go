package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *manualClock {
	return &manualClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTTLCache_GetSet(t *testing.T) {
	c := New(time.Minute, 4)

	_, ok := c.Get("doc-1")
	assert.False(t, ok)

	c.Set("doc-1", "Concrete shall reach 32 MPa.")
	got, ok := c.Get("doc-1")
	require.True(t, ok)
	assert.Equal(t, "Concrete shall reach 32 MPa.", got)

	c.Set("doc-1", "updated")
	got, _ = c.Get("doc-1")
	assert.Equal(t, "updated", got)
	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_Expiry(t *testing.T) {
	clock := newClock()
	c := New(time.Minute, 4, WithClock(clock))

	c.Set("doc-1", "a")
	clock.Advance(59 * time.Second)
	_, ok := c.Get("doc-1")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("doc-1")
	assert.False(t, ok, "entry expires exactly at ttl")
	assert.Zero(t, c.Len())

	t.Run("set refreshes expiry", func(t *testing.T) {
		c.Set("doc-2", "b")
		clock.Advance(40 * time.Second)
		c.Set("doc-2", "c")
		clock.Advance(40 * time.Second)
		got, ok := c.Get("doc-2")
		require.True(t, ok)
		assert.Equal(t, "c", got)
	})

	t.Run("len drops expired entries", func(t *testing.T) {
		c.Purge()
		c.Set("x", "1")
		clock.Advance(30 * time.Second)
		c.Set("y", "2")
		clock.Advance(30 * time.Second)
		assert.Equal(t, 1, c.Len())
	})
}

func TestTTLCache_ZeroTTLNeverExpires(t *testing.T) {
	clock := newClock()
	c := New(0, 2, WithClock(clock))

	c.Set("doc-1", "a")
	clock.Advance(24 * time.Hour)
	_, ok := c.Get("doc-1")
	assert.True(t, ok)
}

func TestTTLCache_LRUEviction(t *testing.T) {
	c := New(time.Hour, 2)

	c.Set("a", "1")
	c.Set("b", "2")
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestTTLCache_DeleteAndPurge(t *testing.T) {
	c := New(time.Hour, 8)
	for i := range 5 {
		c.Set(fmt.Sprintf("doc-%d", i), "x")
	}

	c.Delete("doc-2")
	c.Delete("missing")
	_, ok := c.Get("doc-2")
	assert.False(t, ok)
	assert.Equal(t, 4, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
	c.Set("doc-9", "y")
	assert.Equal(t, 1, c.Len())
}

func TestNew_DefaultCapacity(t *testing.T) {
	c := New(time.Hour, 0)
	for i := range DefaultMaxEntries + 10 {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	assert.Equal(t, DefaultMaxEntries, c.Len())
}

func TestTTLCache_Concurrent(t *testing.T) {
	c := New(time.Hour, 16)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (n+j)%20)
				c.Set(key, "v")
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
