// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package dashboard orchestrates the weather lookups for the selected location and keeps
// the most recent view of them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wneessen/weather-dashboard/internal/geolocate"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/storage"
	"github.com/wneessen/weather-dashboard/internal/telemetry"
	"github.com/wneessen/weather-dashboard/internal/vartype"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

var (
	ErrEmptyQuery          = errors.New("search query must not be empty")
	ErrNoLocation          = errors.New("no location selected")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrFavoritesDisabled   = errors.New("favorites storage is not configured")
	ErrGeolocationDisabled = errors.New("device geolocation is not configured")
)

// Snapshot is the result of a single load for the selected location.
type Snapshot struct {
	Location   weather.LocationCandidate
	Current    weather.CurrentConditions
	Forecast   weather.ForecastSeries
	UV         vartype.Variable[weather.UVReading]
	AirQuality vartype.Variable[weather.AirQualityReading]
	LoadedAt   time.Time

	// Stale is set when a newer load or a new selection superseded this one before it
	// completed. Stale snapshots are never committed.
	Stale bool
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithLocator enables device geolocation for LocateCurrent.
func WithLocator(locator *geolocate.Locator, policy geolocate.Policy) Option {
	return func(d *Dashboard) {
		d.locator = locator
		d.policy = policy
	}
}

// WithFavorites enables the favorites passthrough.
func WithFavorites(favorites *storage.Favorites) Option {
	return func(d *Dashboard) {
		d.favorites = favorites
	}
}

// WithRecorder records every committed load.
func WithRecorder(recorder *telemetry.Recorder) Option {
	return func(d *Dashboard) {
		d.recorder = recorder
	}
}

// WithResumeRefresh makes Watch refresh immediately when the system resumes from sleep.
func WithResumeRefresh() Option {
	return func(d *Dashboard) {
		d.resume = true
	}
}

type Dashboard struct {
	logger    *logger.Logger
	provider  weather.Provider
	locator   *geolocate.Locator
	policy    geolocate.Policy
	favorites *storage.Favorites
	recorder  *telemetry.Recorder
	resume    bool
	now       func() time.Time

	seq       atomic.Uint64
	recording sync.WaitGroup

	mu          sync.RWMutex
	location    weather.LocationCandidate
	hasLocation bool
	committed   uint64
	latest      *Snapshot
}

// New returns a Dashboard that loads its data from provider.
func New(log *logger.Logger, provider weather.Provider, opts ...Option) *Dashboard {
	dash := &Dashboard{
		logger:   log,
		provider: provider,
		policy:   geolocate.DefaultPolicy(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(dash)
	}
	return dash
}

// Select makes location the selected location. Loads that are still in flight for a
// previous selection will not be committed.
func (d *Dashboard) Select(location weather.LocationCandidate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = location
	d.hasLocation = true
	d.committed = d.seq.Add(1)
	d.latest = nil
	d.logger.Debug("location selected", slog.String("location", location.DisplayName()),
		slog.String("coordinates", location.Coordinates.String()))
}

// SelectCandidate selects the candidate at the zero-based index.
func (d *Dashboard) SelectCandidate(candidates []weather.LocationCandidate, index int) (weather.LocationCandidate, error) {
	if index < 0 || index >= len(candidates) {
		return weather.LocationCandidate{}, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidSelection,
			index, len(candidates))
	}
	d.Select(candidates[index])
	return candidates[index], nil
}

// Location returns the selected location, if any.
func (d *Dashboard) Location() (weather.LocationCandidate, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.location, d.hasLocation
}

// Latest returns the most recently committed snapshot.
func (d *Dashboard) Latest() (Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.latest == nil {
		return Snapshot{}, false
	}
	return *d.latest, true
}

// Search looks up locations matching query.
func (d *Dashboard) Search(ctx context.Context, query string) ([]weather.LocationCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return d.provider.SearchLocations(ctx, query)
}

// LocateCurrent determines the device location, names it by reverse geocoding and selects
// it. If the reverse lookup finds no place, the coordinates are used as the name.
func (d *Dashboard) LocateCurrent(ctx context.Context) (weather.LocationCandidate, error) {
	if d.locator == nil {
		return weather.LocationCandidate{}, ErrGeolocationDisabled
	}
	fix, err := d.locator.Locate(ctx, d.policy)
	if err != nil {
		return weather.LocationCandidate{}, fmt.Errorf("failed to determine device location: %w", err)
	}
	d.logger.Debug("device location determined", slog.String("source", fix.Source),
		slog.Float64("accuracy", fix.AccuracyMeters))

	coords := fix.Coordinates
	places, err := d.provider.ReverseGeocode(ctx, coords.Lat, coords.Lon)
	if err != nil {
		return weather.LocationCandidate{}, err
	}
	location := weather.LocationCandidate{
		Name:        fmt.Sprintf("%.2f, %.2f", coords.Lat, coords.Lon),
		Coordinates: coords,
	}
	if len(places) > 0 {
		location = places[0]
		location.Coordinates = coords
	}
	d.Select(location)
	return location, nil
}

// Load fetches the current conditions and the forecast for the selected location. UV index
// and air quality are fetched alongside; their failures are logged and leave the respective
// field unset. The returned snapshot is committed unless it was superseded, in which case
// it is marked Stale.
func (d *Dashboard) Load(ctx context.Context) (Snapshot, error) {
	location, token, ok := d.reserve()
	if !ok {
		return Snapshot{}, ErrNoLocation
	}
	lat, lon := location.Coordinates.Lat, location.Coordinates.Lon
	snap := Snapshot{Location: location}

	var optional sync.WaitGroup
	optional.Go(func() {
		reading, err := d.provider.UVIndex(ctx, lat, lon)
		if err != nil {
			d.logger.Debug("UV index unavailable", logger.Err(err))
			return
		}
		snap.UV.Set(reading)
	})
	optional.Go(func() {
		reading, err := d.provider.AirQuality(ctx, lat, lon)
		if err != nil {
			d.logger.Debug("air quality unavailable", logger.Err(err))
			return
		}
		snap.AirQuality.Set(reading)
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		current, err := d.provider.CurrentConditions(groupCtx, lat, lon)
		if err != nil {
			return err
		}
		snap.Current = current
		return nil
	})
	group.Go(func() error {
		forecast, err := d.provider.Forecast(groupCtx, lat, lon)
		if err != nil {
			return err
		}
		snap.Forecast = forecast
		return nil
	})
	err := group.Wait()
	optional.Wait()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load weather for %s: %w", location.DisplayName(), err)
	}
	snap.LoadedAt = d.now()

	if !d.commit(token, &snap) {
		d.logger.Debug("discarding superseded weather data", slog.String("location", location.DisplayName()))
		return snap, nil
	}
	if d.recorder.Enabled() {
		entry := telemetry.EntryFromConditions(snap.Current)
		d.recording.Go(func() {
			d.recorder.Record(ctx, entry)
		})
	}
	return snap, nil
}

// Close waits for pending telemetry records to be sent.
func (d *Dashboard) Close() {
	d.recording.Wait()
}

// reserve returns the selected location together with a load token. Both are taken under
// the same lock, so a concurrent Select either happens before and is loaded, or after and
// invalidates the token.
func (d *Dashboard) reserve() (weather.LocationCandidate, uint64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.hasLocation {
		return weather.LocationCandidate{}, 0, false
	}
	return d.location, d.seq.Add(1), true
}

func (d *Dashboard) commit(token uint64, snap *Snapshot) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if token <= d.committed {
		snap.Stale = true
		return false
	}
	d.committed = token
	committed := *snap
	d.latest = &committed
	return true
}

// Favorites returns the saved locations.
func (d *Dashboard) Favorites(ctx context.Context) ([]weather.LocationCandidate, error) {
	if d.favorites == nil {
		return nil, ErrFavoritesDisabled
	}
	return d.favorites.List(ctx)
}

// SaveFavorite saves location. It reports false if a location with the same coordinates
// was already saved.
func (d *Dashboard) SaveFavorite(ctx context.Context, location weather.LocationCandidate) (bool, error) {
	if d.favorites == nil {
		return false, ErrFavoritesDisabled
	}
	return d.favorites.Add(ctx, location)
}

// RemoveFavorite removes the saved location with the given coordinates.
func (d *Dashboard) RemoveFavorite(ctx context.Context, coords weather.Coordinates) (bool, error) {
	if d.favorites == nil {
		return false, ErrFavoritesDisabled
	}
	return d.favorites.Remove(ctx, coords)
}

// SelectFavorite selects the saved location at the zero-based index.
func (d *Dashboard) SelectFavorite(ctx context.Context, index int) (weather.LocationCandidate, error) {
	favorites, err := d.Favorites(ctx)
	if err != nil {
		return weather.LocationCandidate{}, err
	}
	return d.SelectCandidate(favorites, index)
}
