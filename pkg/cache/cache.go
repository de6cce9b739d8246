/*
 * Iptv-Addon is a self-hosted Stremio addon that aggregates Xtream-Codes
 * and M3U IPTV catalogs.
 * Copyright (C) 2026  Stremify
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package cache implements a bounded in-memory key-value store with
// per-entry TTL expiry and least-recently-used eviction. It is used both
// for raw provider payloads and for fully built addon catalogs, keyed by
// configuration fingerprint.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
	expiresAt  time.Time
}

// Cache is a TTL+LRU cache safe for concurrent use. Values are stored and
// returned as whole units; a Set replaces the previous value atomically.
type Cache[V any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration

	// ll front is the most recently used entry, back the least.
	ll    *list.List
	items map[string]*list.Element

	// now is replaceable in tests.
	now func() time.Time
}

// Stats reports cache configuration and current occupancy.
type Stats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"maxSize"`
	TTL     time.Duration `json:"ttl"`
}

// New creates a cache bounded to maxSize entries, each expiring ttl after
// insertion. A non-positive ttl makes every entry expire immediately.
func New[V any](maxSize int, ttl time.Duration) *Cache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache[V]{
		maxSize: maxSize,
		ttl:     ttl,
		ll:      list.New(),
		items:   make(map[string]*list.Element),
		now:     time.Now,
	}
}

// Get returns the value stored for key. An expired entry is evicted and
// reported absent. A hit refreshes the entry's recency, not its expiry.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	ent := el.Value.(*entry[V])
	if c.expired(ent) {
		c.removeElement(el)
		return zero, false
	}

	c.ll.MoveToFront(el)
	return ent.value, true
}

// Set stores value under key, replacing any previous entry and marking the
// key most recently used. When the insert would exceed capacity, the least
// recently used entry is evicted first.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	if c.ll.Len() >= c.maxSize {
		if oldest := c.ll.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	now := c.now()
	el := c.ll.PushFront(&entry[V]{
		key:        key,
		value:      value,
		insertedAt: now,
		expiresAt:  now.Add(c.ttl),
	})
	c.items[key] = el
}

// Delete removes the entry for key, if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Has reports whether key holds a live (non-expired) entry. Unlike Get it
// does not refresh recency.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	if c.expired(el.Value.(*entry[V])) {
		c.removeElement(el)
		return false
	}
	return true
}

// Size returns the number of entries currently stored, including any that
// have expired but not yet been touched.
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Keys returns the stored keys ordered from most to least recently used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}

// Stats returns the cache configuration and occupancy.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Size: c.ll.Len(), MaxSize: c.maxSize, TTL: c.ttl}
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element)
}

func (c *Cache[V]) expired(ent *entry[V]) bool {
	return !ent.expiresAt.After(c.now())
}

func (c *Cache[V]) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}
