// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package format

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

// IsNight reports whether now lies before sunrise or after sunset.
func IsNight(now, sunrise, sunset time.Time) bool {
	return now.Before(sunrise) || now.After(sunset)
}

// SolarTimes computes sunrise and sunset for the calendar day of day (UTC) at the given
// coordinates. During polar day or polar night both times are zero.
func SolarTimes(coords weather.Coordinates, day time.Time) (time.Time, time.Time) {
	day = day.UTC()
	return sunrise.SunriseSunset(coords.Lat, coords.Lon, day.Year(), day.Month(), day.Day())
}

// IsNightAt reports whether t lies outside the computed daylight hours at the given
// coordinates. The polar cases are decided by the season of the hemisphere.
func IsNightAt(coords weather.Coordinates, t time.Time) bool {
	rise, set := SolarTimes(coords, t)
	if rise.IsZero() || set.IsZero() {
		return !polarDay(coords.Lat, t)
	}
	return IsNight(t, rise, set)
}

// polarDay reports whether a zero sunrise at lat and t means midnight sun rather than
// polar night.
func polarDay(lat float64, t time.Time) bool {
	summer := t.UTC().Month() >= time.April && t.UTC().Month() <= time.September
	if lat < 0 {
		return !summer
	}
	return summer
}
