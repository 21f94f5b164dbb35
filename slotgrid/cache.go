// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slotgrid

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// CacheMetrics receives grid cache lookups.
type CacheMetrics interface {
	ObserveGridCache(hit bool)
}

// CacheKey identifies one generated grid.
type CacheKey struct {
	Start    int64 // unix nanoseconds, UTC
	End      int64
	Duration int
	Timezone string
}

type windowKey struct {
	Start    int64
	End      int64
	Duration int
}

func (k CacheKey) window() windowKey {
	return windowKey{Start: k.Start, End: k.End, Duration: k.Duration}
}

// NewCacheKey normalizes its arguments into a CacheKey.
func NewCacheKey(start, end time.Time, durationMinutes int, tz string) CacheKey {
	if tz == "" {
		tz = "UTC"
	}
	return CacheKey{
		Start:    start.UTC().UnixNano(),
		End:      end.UTC().UnixNano(),
		Duration: durationMinutes,
		Timezone: tz,
	}
}

// Default cache bounds.
const (
	DefaultMaxGrids          = 256
	DefaultMaxZonesPerWindow = 8
)

// Cache memoizes generated grids. Grids are immutable once built, so a
// cached *Grid may be shared between requests.
//
// The cache holds at most maxGrids grids, and at most maxZones timezone
// variants of any one window. Past the zone cap, grids are built per call
// and not stored.
type Cache struct {
	grids    *xsync.Map[CacheKey, *Grid]
	metrics  CacheMetrics
	maxGrids int
	maxZones int
}

// NewCache creates an empty cache with the default bounds. metrics may be nil.
func NewCache(metrics CacheMetrics) *Cache {
	return NewCacheSize(metrics, DefaultMaxGrids, DefaultMaxZonesPerWindow)
}

// NewCacheSize creates an empty cache with explicit bounds.
func NewCacheSize(metrics CacheMetrics, maxGrids, maxZonesPerWindow int) *Cache {
	if maxGrids < 1 {
		maxGrids = 1
	}
	if maxZonesPerWindow < 1 {
		maxZonesPerWindow = 1
	}
	if maxZonesPerWindow > maxGrids {
		maxZonesPerWindow = maxGrids
	}
	return &Cache{
		grids:    xsync.NewMap[CacheKey, *Grid](),
		metrics:  metrics,
		maxGrids: maxGrids,
		maxZones: maxZonesPerWindow,
	}
}

// Get returns the grid for the given window, generating it on a miss.
// Errors are not cached.
func (c *Cache) Get(start, end time.Time, durationMinutes int, tz string) (*Grid, error) {
	key := NewCacheKey(start, end, durationMinutes, tz)
	if g, ok := c.grids.Load(key); ok {
		c.observe(true)
		return g, nil
	}
	c.observe(false)

	g, err := Generate(start, end, durationMinutes, tz)
	if err != nil {
		return nil, err
	}
	if !c.admit(key) {
		return g, nil
	}
	// Concurrent misses build equal grids; keep whichever landed first.
	actual, _ := c.grids.LoadOrStore(key, g)
	return actual, nil
}

// admit reports whether key may be stored, evicting one grid of another
// window when the cache is full. Bounds are approximate under concurrent
// misses.
func (c *Cache) admit(key CacheKey) bool {
	target := key.window()
	variants := 0
	var victim *CacheKey
	c.grids.Range(func(k CacheKey, _ *Grid) bool {
		if k.window() == target {
			variants++
		} else if victim == nil {
			v := k
			victim = &v
		}
		return true
	})
	if variants >= c.maxZones {
		return false
	}
	if c.grids.Size() >= c.maxGrids && victim != nil {
		c.grids.Delete(*victim)
	}
	return true
}

// InvalidateWindow drops every timezone variant of a window.
func (c *Cache) InvalidateWindow(start, end time.Time, durationMinutes int) {
	target := NewCacheKey(start, end, durationMinutes, "").window()
	c.grids.Range(func(key CacheKey, _ *Grid) bool {
		if key.window() == target {
			c.grids.Delete(key)
		}
		return true
	})
}

// Len returns the number of cached grids.
func (c *Cache) Len() int {
	return c.grids.Size()
}

func (c *Cache) observe(hit bool) {
	if c.metrics != nil {
		c.metrics.ObserveGridCache(hit)
	}
}
