// Package cache provides a bounded, expiring ContentCache.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
)

// Ensure TTLCache implements the interface.
var _ driven.ContentCache = (*TTLCache)(nil)

// DefaultMaxEntries is used when a non-positive capacity is given.
const DefaultMaxEntries = 64

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type entry struct {
	key     string
	value   string
	expires time.Time
}

// TTLCache is a least-recently-used cache whose entries also expire after
// a fixed time to live. A zero TTL means entries never expire.
type TTLCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	clock      driven.Clock
	order      *list.List
	items      map[string]*list.Element
}

// Option configures a TTLCache.
type Option func(*TTLCache)

// WithClock sets the clock used for expiry.
func WithClock(clock driven.Clock) Option {
	return func(c *TTLCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New creates a cache holding at most maxEntries values for ttl each.
func New(ttl time.Duration, maxEntries int, opts ...Option) *TTLCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &TTLCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      systemClock{},
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key and marks it recently used.
// Expired entries are removed and reported as missing.
func (c *TTLCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	e := el.Value.(*entry)
	if c.expired(e) {
		c.remove(el)
		return "", false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry
// when the cache is full.
func (c *TTLCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.clock.Now().Add(c.ttl)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expires = expires
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: value, expires: expires})
	for c.order.Len() > c.maxEntries {
		c.remove(c.order.Back())
	}
}

// Delete removes key if present.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
}

// Purge removes every entry.
func (c *TTLCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Len returns the number of live entries. Expired entries are dropped first.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry)) {
			c.remove(el)
		}
		el = prev
	}
	return c.order.Len()
}

func (c *TTLCache) expired(e *entry) bool {
	return !e.expires.IsZero() && !c.clock.Now().Before(e.expires)
}

func (c *TTLCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
