// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode caches the geocoding lookups of a weather provider.
package geocode

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

// coordPrecision is the precision used to quantize coordinates (0.01 degrees ≈ 1.1 km)
const coordPrecision = 1e-2

// Default lifetimes of cache entries with and without results.
const (
	DefaultTTLHit  = time.Hour * 24
	DefaultTTLMiss = time.Minute * 10
)

type reverseKey struct {
	LatQ int32
	LonQ int32
}

type cacheEntry struct {
	Candidates []weather.LocationCandidate
	Expiry     time.Time
}

// CachedProvider wraps a weather.Provider and caches its geocoding results. Reverse lookups
// are keyed by coordinates quantized to about a kilometer, searches by the normalized query.
// All weather lookups are passed through.
type CachedProvider struct {
	weather.Provider
	ttlHit  time.Duration
	ttlMiss time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	reverse map[reverseKey]cacheEntry
	search  map[string]cacheEntry
}

func NewCachedProvider(provider weather.Provider, ttlHit, ttlMiss time.Duration) *CachedProvider {
	return &CachedProvider{
		Provider: provider,
		ttlHit:   ttlHit,
		ttlMiss:  ttlMiss,
		now:      time.Now,
		reverse:  make(map[reverseKey]cacheEntry),
		search:   make(map[string]cacheEntry),
	}
}

// ReverseGeocode returns the cached places near lat/lon or asks the wrapped provider.
// Failed lookups are not cached.
func (c *CachedProvider) ReverseGeocode(ctx context.Context, lat, lon float64) ([]weather.LocationCandidate, error) {
	key := reverseKey{LatQ: quantizeCoord(lat), LonQ: quantizeCoord(lon)}

	c.mu.RLock()
	entry, ok := c.reverse[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.Expiry) {
		return clone(entry.Candidates), nil
	}

	candidates, err := c.Provider.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return candidates, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reverse[key] = c.entry(candidates)
	return clone(candidates), nil
}

// SearchLocations returns the cached candidates for query or asks the wrapped provider.
// Failed lookups are not cached.
func (c *CachedProvider) SearchLocations(ctx context.Context, query string) ([]weather.LocationCandidate, error) {
	key := strings.ToLower(strings.Join(strings.Fields(query), " "))

	c.mu.RLock()
	entry, ok := c.search[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.Expiry) {
		return clone(entry.Candidates), nil
	}

	candidates, err := c.Provider.SearchLocations(ctx, query)
	if err != nil {
		return candidates, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.search[key] = c.entry(candidates)
	return clone(candidates), nil
}

func (c *CachedProvider) entry(candidates []weather.LocationCandidate) cacheEntry {
	ttl := c.ttlHit
	if len(candidates) == 0 {
		ttl = c.ttlMiss
	}
	return cacheEntry{
		Candidates: clone(candidates),
		Expiry:     c.now().Add(ttl),
	}
}

func clone(candidates []weather.LocationCandidate) []weather.LocationCandidate {
	return append([]weather.LocationCandidate(nil), candidates...)
}

func quantizeCoord(val float64) int32 {
	return int32(math.Round(val / coordPrecision))
}
