// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geolocate determines the device location from a chain of local and remote sources.
package geolocate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

// Accuracy values in meters for sources that do not report their own accuracy.
const (
	AccuracyFile    = 5
	AccuracyZip     = 3000
	AccuracyCity    = 15000
	AccuracyRegion  = 100000
	AccuracyCountry = 300000
	AccuracyUnknown = 1000000
	TruncPrecision  = 4
)

// Default policy values.
const (
	DefaultTimeout = time.Second * 10
	DefaultMaxAge  = time.Minute * 5
)

// ErrLocationUnavailable is returned when no source could determine the location.
var ErrLocationUnavailable = errors.New("location unavailable")

// Fix is a single location determination.
type Fix struct {
	Coordinates    weather.Coordinates
	AccuracyMeters float64
	Source         string
	At             time.Time
}

// Source is a single way of determining the device location.
type Source interface {
	Name() string
	Locate(ctx context.Context) (Fix, error)
}

// Policy controls a single Locate call.
type Policy struct {
	// HighAccuracy queries all sources and picks the most accurate fix. Otherwise the first
	// source that succeeds wins.
	HighAccuracy bool
	// Timeout bounds the whole lookup.
	Timeout time.Duration
	// MaxAge is the maximum age of a previous fix that may be returned without a lookup.
	MaxAge time.Duration
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{HighAccuracy: true, Timeout: DefaultTimeout, MaxAge: DefaultMaxAge}
}

// Locator performs single-shot location lookups over a list of sources. It remembers the
// last fix so that repeated lookups within the policy's MaxAge are answered locally.
type Locator struct {
	logger  *logger.Logger
	sources []Source
	now     func() time.Time

	mu   sync.Mutex
	last *Fix
}

// New returns a Locator querying the given sources. For non high-accuracy lookups the
// sources are tried in the given order.
func New(log *logger.Logger, sources ...Source) *Locator {
	return &Locator{
		logger:  log,
		sources: sources,
		now:     time.Now,
	}
}

// Locate returns the device location according to policy.
func (l *Locator) Locate(ctx context.Context, policy Policy) (Fix, error) {
	if fix, ok := l.cached(policy.MaxAge); ok {
		l.logger.Debug("using cached location fix", slog.String("source", fix.Source))
		return fix, nil
	}
	if len(l.sources) == 0 {
		return Fix{}, fmt.Errorf("%w: no location sources configured", ErrLocationUnavailable)
	}

	timeout := policy.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var fix Fix
	var err error
	if policy.HighAccuracy {
		fix, err = l.locateBest(ctx)
	} else {
		fix, err = l.locateFirst(ctx)
	}
	if err != nil {
		return Fix{}, err
	}

	l.mu.Lock()
	l.last = &fix
	l.mu.Unlock()
	return fix, nil
}

func (l *Locator) cached(maxAge time.Duration) (Fix, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil || maxAge <= 0 {
		return Fix{}, false
	}
	if l.now().Sub(l.last.At) > maxAge {
		return Fix{}, false
	}
	return *l.last, true
}

// locateFirst tries the sources one after another and returns the first valid fix.
func (l *Locator) locateFirst(ctx context.Context) (Fix, error) {
	errs := make([]error, 0, len(l.sources))
	for _, source := range l.sources {
		fix, err := l.query(ctx, source)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return fix, nil
	}
	return Fix{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, errors.Join(errs...))
}

// locateBest queries all sources concurrently and returns the fix with the best accuracy.
func (l *Locator) locateBest(ctx context.Context) (Fix, error) {
	fixes := make([]*Fix, len(l.sources))
	errs := make([]error, len(l.sources))

	var group errgroup.Group
	for i, source := range l.sources {
		group.Go(func() error {
			fix, err := l.query(ctx, source)
			if err != nil {
				errs[i] = err
				return nil
			}
			fixes[i] = &fix
			return nil
		})
	}
	_ = group.Wait()

	var best *Fix
	for _, fix := range fixes {
		if fix == nil {
			continue
		}
		if best == nil || fix.AccuracyMeters < best.AccuracyMeters {
			best = fix
		}
	}
	if best == nil {
		return Fix{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, errors.Join(errs...))
	}
	return *best, nil
}

func (l *Locator) query(ctx context.Context, source Source) (Fix, error) {
	fix, err := source.Locate(ctx)
	if err != nil {
		l.logger.Debug("location source failed", slog.String("source", source.Name()), logger.Err(err))
		return Fix{}, fmt.Errorf("%s: %w", source.Name(), err)
	}
	if !fix.Coordinates.Valid() {
		return Fix{}, fmt.Errorf("%s: invalid coordinates %s", source.Name(), fix.Coordinates)
	}
	if fix.Source == "" {
		fix.Source = source.Name()
	}
	if fix.At.IsZero() {
		fix.At = l.now()
	}
	if fix.AccuracyMeters <= 0 {
		fix.AccuracyMeters = AccuracyUnknown
	}
	l.logger.Debug("location source returned fix", slog.String("source", fix.Source),
		slog.String("coordinates", fix.Coordinates.String()), slog.Float64("accuracy", fix.AccuracyMeters))
	return fix, nil
}

// Truncate cuts x to the given number of decimals.
func Truncate(x float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Trunc(x*p) / p
}
