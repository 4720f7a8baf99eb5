// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geolocate

import (
	"context"
	"fmt"
	"math"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	gpsdSourceName = "gpsd"

	// DefaultGPSDAddress is the address gpsd listens on by default.
	DefaultGPSDAddress = "localhost:2947"

	fallbackAccuracy3DFix = 10
	fallbackAccuracy2DFix = 25
)

// GPSDSource waits for the first TPV report with at least a 2D fix from a gpsd daemon.
type GPSDSource struct {
	addr string
}

func NewGPSDSource(addr string) *GPSDSource {
	if addr == "" {
		addr = DefaultGPSDAddress
	}
	return &GPSDSource{addr: addr}
}

func (s *GPSDSource) Name() string {
	return gpsdSourceName
}

func (s *GPSDSource) Locate(ctx context.Context) (Fix, error) {
	session, err := gpsd.Dial(s.addr)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to connect to gpsd at %q: %w", s.addr, err)
	}

	// The filter keeps firing until the session ends, only the first fix is of interest
	fixes := make(chan Fix, 1)
	session.AddFilter("TPV", func(r interface{}) {
		tpv, ok := r.(*gpsd.TPVReport)
		if !ok || tpv.Mode < gpsd.Mode2D {
			return
		}
		fix := Fix{
			Coordinates: weather.Coordinates{
				Lat: Truncate(tpv.Lat, TruncPrecision),
				Lon: Truncate(tpv.Lon, TruncPrecision),
			},
			AccuracyMeters: horizontalAccuracy(tpv),
			Source:         gpsdSourceName,
		}
		select {
		case fixes <- fix:
		default:
		}
	})

	// go-gpsd has no Close(), the connection is torn down when the watch ends
	done := session.Watch()
	select {
	case <-ctx.Done():
		return Fix{}, fmt.Errorf("no GPS fix received: %w", ctx.Err())
	case <-done:
		return Fix{}, fmt.Errorf("gpsd connection at %q closed before a fix was received", s.addr)
	case fix := <-fixes:
		return fix, nil
	}
}

func horizontalAccuracy(tpv *gpsd.TPVReport) float64 {
	switch {
	case tpv.Epx > 0 && tpv.Epy > 0:
		return math.Hypot(tpv.Epx, tpv.Epy)
	case tpv.Mode >= gpsd.Mode3D:
		return fallbackAccuracy3DFix
	default:
		return fallbackAccuracy2DFix
	}
}
