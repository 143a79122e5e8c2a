// Package memory provides a bounded in-process cache used when Redis is
// disabled.  It keeps the same contract as the Redis cache: JSON-serialized
// values, TTL expiry, and miss-tolerant reads.
package memory

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

const defaultMaxEntries = 4096

type entry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// Cache is an LRU cache with per-entry TTL.  All methods are safe for
// concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxEntries int
	defaultTTL time.Duration
	now        func() time.Time
}

// NewCache constructs a Cache holding at most maxEntries values.  A
// non-positive maxEntries falls back to a sane bound.
func NewCache(maxEntries int, defaultTTL time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Cache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get unmarshals the cached value into dest; found is false on miss or
// expiry.
func (c *Cache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeLocked(el)
		c.mu.Unlock()
		return false, nil
	}
	c.order.MoveToFront(el)
	data := e.data
	c.mu.Unlock()

	if err := json.Unmarshal(data, dest); err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "failed to decode cached value for %q", key)
	}
	return true, nil
}

// Set stores value under key for ttl, evicting the least recently used
// entry when the cache is full.
func (c *Cache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to encode value for %q", key)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.data = data
		e.expiresAt = c.now().Add(ttl)
		c.order.MoveToFront(el)
		return nil
	}

	for len(c.entries) >= c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}

	el := c.order.PushFront(&entry{key: key, data: data, expiresAt: c.now().Add(ttl)})
	c.entries[key] = el
	return nil
}

// Delete removes a key; missing keys are not an error.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
	return nil
}

// Len reports the current number of live entries, expired included until
// their next read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.entries, e.key)
}
