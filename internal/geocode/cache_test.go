// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	testHitTTL  = time.Hour
	testMissTTL = time.Minute
)

var (
	testCoords = weather.Coordinates{Lat: 52.5129, Lon: 13.3910}
	testPlace  = weather.LocationCandidate{Name: "Berlin", Country: "DE", State: "Berlin", Coordinates: testCoords}
)

type mockProvider struct {
	weather.Provider
	reverseCalls int
	searchCalls  int
}

func (m *mockProvider) ReverseGeocode(_ context.Context, lat, lon float64) ([]weather.LocationCandidate, error) {
	m.reverseCalls++
	if lat == 1 && lon == -1 {
		return nil, errors.New("lookup intentionally failed")
	}
	if lat == 0 && lon == 0 {
		return nil, nil
	}
	return []weather.LocationCandidate{testPlace}, nil
}

func (m *mockProvider) SearchLocations(_ context.Context, query string) ([]weather.LocationCandidate, error) {
	m.searchCalls++
	if query == "fail" {
		return nil, errors.New("lookup intentionally failed")
	}
	return []weather.LocationCandidate{testPlace}, nil
}

func (m *mockProvider) UVIndex(context.Context, float64, float64) (weather.UVReading, error) {
	return weather.UVReading{Value: 4}, nil
}

// testCache returns a cache with a controllable clock.
func testCache() (*CachedProvider, *mockProvider, *time.Time) {
	mock := &mockProvider{}
	cache := NewCachedProvider(mock, testHitTTL, testMissTTL)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, mock, &now
}

func TestCachedProvider_ReverseGeocode(t *testing.T) {
	t.Run("nearby coordinates are answered from the cache", func(t *testing.T) {
		cache, mock, _ := testCache()
		for _, coords := range []weather.Coordinates{testCoords, {Lat: 52.5131, Lon: 13.3908}} {
			places, err := cache.ReverseGeocode(t.Context(), coords.Lat, coords.Lon)
			if err != nil {
				t.Fatalf("failed to reverse geocode: %s", err)
			}
			if len(places) != 1 || places[0].Name != "Berlin" {
				t.Errorf("expected Berlin, got %+v", places)
			}
		}
		if mock.reverseCalls != 1 {
			t.Errorf("expected 1 provider call, got %d", mock.reverseCalls)
		}
	})
	t.Run("distant coordinates are looked up", func(t *testing.T) {
		cache, mock, _ := testCache()
		_, _ = cache.ReverseGeocode(t.Context(), testCoords.Lat, testCoords.Lon)
		_, _ = cache.ReverseGeocode(t.Context(), testCoords.Lat+0.1, testCoords.Lon)
		if mock.reverseCalls != 2 {
			t.Errorf("expected 2 provider calls, got %d", mock.reverseCalls)
		}
	})
	t.Run("entries expire after their ttl", func(t *testing.T) {
		cache, mock, now := testCache()
		_, _ = cache.ReverseGeocode(t.Context(), testCoords.Lat, testCoords.Lon)
		*now = now.Add(testHitTTL + time.Second)
		_, _ = cache.ReverseGeocode(t.Context(), testCoords.Lat, testCoords.Lon)
		if mock.reverseCalls != 2 {
			t.Errorf("expected 2 provider calls, got %d", mock.reverseCalls)
		}
	})
	t.Run("empty results expire after the miss ttl", func(t *testing.T) {
		cache, mock, now := testCache()
		_, _ = cache.ReverseGeocode(t.Context(), 0, 0)
		*now = now.Add(testMissTTL / 2)
		_, _ = cache.ReverseGeocode(t.Context(), 0, 0)
		if mock.reverseCalls != 1 {
			t.Errorf("expected 1 provider call, got %d", mock.reverseCalls)
		}
		*now = now.Add(testMissTTL)
		_, _ = cache.ReverseGeocode(t.Context(), 0, 0)
		if mock.reverseCalls != 2 {
			t.Errorf("expected 2 provider calls, got %d", mock.reverseCalls)
		}
	})
	t.Run("failed lookups are not cached", func(t *testing.T) {
		cache, mock, _ := testCache()
		for range 2 {
			if _, err := cache.ReverseGeocode(t.Context(), 1, -1); err == nil {
				t.Error("expected lookup to fail, but didn't")
			}
		}
		if mock.reverseCalls != 2 {
			t.Errorf("expected 2 provider calls, got %d", mock.reverseCalls)
		}
	})
	t.Run("cached results cannot be modified by the caller", func(t *testing.T) {
		cache, _, _ := testCache()
		places, _ := cache.ReverseGeocode(t.Context(), testCoords.Lat, testCoords.Lon)
		places[0].Name = "changed"
		places, _ = cache.ReverseGeocode(t.Context(), testCoords.Lat, testCoords.Lon)
		if places[0].Name != "Berlin" {
			t.Errorf("expected cached name to be Berlin, got %s", places[0].Name)
		}
	})
}

func TestCachedProvider_SearchLocations(t *testing.T) {
	t.Run("normalized queries share a cache entry", func(t *testing.T) {
		cache, mock, _ := testCache()
		for _, query := range []string{"Berlin", "  berlin ", "BERLIN"} {
			if _, err := cache.SearchLocations(t.Context(), query); err != nil {
				t.Fatalf("failed to search: %s", err)
			}
		}
		if mock.searchCalls != 1 {
			t.Errorf("expected 1 provider call, got %d", mock.searchCalls)
		}
	})
	t.Run("failed searches are not cached", func(t *testing.T) {
		cache, mock, _ := testCache()
		for range 2 {
			if _, err := cache.SearchLocations(t.Context(), "fail"); err == nil {
				t.Error("expected search to fail, but didn't")
			}
		}
		if mock.searchCalls != 2 {
			t.Errorf("expected 2 provider calls, got %d", mock.searchCalls)
		}
	})
}

func TestCachedProvider_passthrough(t *testing.T) {
	cache, _, _ := testCache()
	reading, err := cache.UVIndex(t.Context(), 1, 2)
	if err != nil {
		t.Fatalf("failed to fetch UV index: %s", err)
	}
	if reading.Value != 4 {
		t.Errorf("expected UV index to be 4, got %f", reading.Value)
	}
}

func TestQuantizeCoord(t *testing.T) {
	tests := []struct {
		val  float64
		want int32
	}{
		{52.5129, 5251},
		{13.3910, 1339},
		{-0.1276, -13},
		{0, 0},
	}
	for _, tt := range tests {
		if got := quantizeCoord(tt.val); got != tt.want {
			t.Errorf("quantizeCoord(%f): expected %d, got %d", tt.val, tt.want, got)
		}
	}
}
