// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package format

import (
	"testing"
	"time"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

func TestIsNight(t *testing.T) {
	rise := time.Date(2025, 6, 1, 4, 45, 0, 0, time.UTC)
	set := time.Date(2025, 6, 1, 20, 10, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before sunrise", rise.Add(-time.Minute), true},
		{"at noon", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), false},
		{"after sunset", set.Add(time.Minute), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNight(tc.now, rise, set); got != tc.want {
				t.Errorf("expected %t, got %t", tc.want, got)
			}
		})
	}
}

func TestIsNightAt(t *testing.T) {
	london := weather.Coordinates{Lat: 51.5074, Lon: -0.1278}
	t.Run("noon in london is day", func(t *testing.T) {
		if IsNightAt(london, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
			t.Error("expected noon to be daytime")
		}
	})
	t.Run("two in the morning in london is night", func(t *testing.T) {
		if !IsNightAt(london, time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC)) {
			t.Error("expected 2am to be nighttime")
		}
	})
	t.Run("polar night and midnight sun", func(t *testing.T) {
		svalbard := weather.Coordinates{Lat: 78.22, Lon: 15.65}
		if !IsNightAt(svalbard, time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC)) {
			t.Error("expected polar night in december")
		}
		if IsNightAt(svalbard, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)) {
			t.Error("expected midnight sun in june")
		}
	})
}

func TestSolarTimes(t *testing.T) {
	rise, set := SolarTimes(weather.Coordinates{Lat: 51.5074, Lon: -0.1278}, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if rise.IsZero() || set.IsZero() {
		t.Fatal("expected sunrise and sunset in london")
	}
	if !rise.Before(set) {
		t.Errorf("expected sunrise %s before sunset %s", rise, set)
	}
	if rise.Hour() < 3 || rise.Hour() > 5 {
		t.Errorf("expected sunrise between 3 and 5 UTC, got %s", rise)
	}
}
