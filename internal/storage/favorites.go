// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

// Favorites persists the ordered list of saved locations as JSON.
type Favorites struct {
	mu    sync.Mutex
	store Store
}

func NewFavorites(store Store) *Favorites {
	return &Favorites{store: store}
}

// List returns the saved locations in the order they were added.
func (f *Favorites) List(ctx context.Context) ([]weather.LocationCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(ctx)
}

// Add appends a location unless a location with the same coordinates is already saved. It
// reports whether the list changed.
func (f *Favorites) Add(ctx context.Context, location weather.LocationCandidate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	locations, err := f.list(ctx)
	if err != nil {
		return false, err
	}
	for _, saved := range locations {
		if saved.Coordinates.Equal(location.Coordinates) {
			return false, nil
		}
	}
	return true, f.save(ctx, append(locations, location))
}

// Remove deletes the location with the given coordinates. It reports whether a location
// was removed.
func (f *Favorites) Remove(ctx context.Context, coords weather.Coordinates) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	locations, err := f.list(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]weather.LocationCandidate, 0, len(locations))
	for _, saved := range locations {
		if !saved.Coordinates.Equal(coords) {
			kept = append(kept, saved)
		}
	}
	if len(kept) == len(locations) {
		return false, nil
	}
	return true, f.save(ctx, kept)
}

func (f *Favorites) list(ctx context.Context) ([]weather.LocationCandidate, error) {
	raw, ok, err := f.store.Get(ctx, KeyFavorites)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []weather.LocationCandidate{}, nil
	}
	var locations []weather.LocationCandidate
	if err = json.Unmarshal([]byte(raw), &locations); err != nil {
		return nil, fmt.Errorf("%w: failed to decode saved locations: %w", ErrStorage, err)
	}
	return locations, nil
}

func (f *Favorites) save(ctx context.Context, locations []weather.LocationCandidate) error {
	data, err := json.Marshal(locations)
	if err != nil {
		return fmt.Errorf("failed to encode saved locations: %w", err)
	}
	return f.store.Set(ctx, KeyFavorites, string(data))
}
