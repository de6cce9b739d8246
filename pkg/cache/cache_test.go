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

package cache

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func newTestCache(maxSize int, ttl time.Duration) (*Cache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](maxSize, ttl)
	c.now = clk.Now
	return c, clk
}

func TestGetAfterSet(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get(k) = %q, %v; want v, true", got, ok)
	}
}

func TestZeroTTLExpiresImmediately(t *testing.T) {
	c, _ := newTestCache(10, 0)

	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Fatal("Get(k) returned a value for a zero-TTL cache")
	}
}

func TestExpiryAfterTTL(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)

	c.Set("k", "v")
	if !c.Has("k") {
		t.Fatal("Has(k) = false immediately after Set")
	}

	clk.Advance(time.Minute + time.Second)

	// Has moments before does not keep the entry alive.
	if c.Has("k") {
		t.Error("Has(k) = true after TTL elapsed")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Get(k) returned a value after TTL elapsed")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after expiry eviction, want 0", c.Size())
	}
}

func TestGetDoesNotRefreshExpiry(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)

	c.Set("k", "v")
	clk.Advance(45 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("Get(k) = absent before TTL elapsed")
	}

	// The earlier hit must not have extended the deadline.
	clk.Advance(30 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("Get(k) returned a value; hit refreshed expiry")
	}
}

func TestLRUEvictsFirstInserted(t *testing.T) {
	const capacity = 5
	c, _ := newTestCache(capacity, time.Hour)

	for i := 0; i < capacity+1; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}

	if c.Size() != capacity {
		t.Fatalf("Size() = %d, want %d", c.Size(), capacity)
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("k0 still present; expected it to be the evicted entry")
	}
	if _, ok := c.Get("k1"); !ok {
		t.Error("k1 missing; only the least recently used entry should be evicted")
	}
}

func TestGetRefreshesRecency(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // a becomes most recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction; it was the least recently used entry")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a evicted despite being recently used")
	}
}

func TestSetExistingKeyMovesToFront(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "1b") // refresh a
	c.Set("c", "3")  // evicts b

	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction after a was refreshed")
	}
	got, ok := c.Get("a")
	if !ok || got != "1b" {
		t.Errorf("Get(a) = %q, %v; want 1b, true", got, ok)
	}
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	c.Set("k", "v")
	c.Delete("k")
	if c.Has("k") {
		t.Error("Has(k) = true after Delete")
	}
	// Deleting an absent key is a no-op.
	c.Delete("missing")
}

func TestKeysOrderedByRecency(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")
	c.Get("a")

	keys := c.Keys()
	want := []string{"a", "c", "b"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestStats(t *testing.T) {
	c, _ := newTestCache(7, time.Minute)
	c.Set("k", "v")

	s := c.Stats()
	if s.Size != 1 || s.MaxSize != 7 || s.TTL != time.Minute {
		t.Errorf("Stats() = %+v", s)
	}
}
