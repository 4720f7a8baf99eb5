// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package format provides the pure formatting and classification helpers used to present
// weather data. None of the functions perform I/O or keep state.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Unit selects the temperature display unit.
type Unit int

const (
	Metric Unit = iota
	Imperial
)

const iconBaseURL = "https://openweathermap.org/img/wn/"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// ParseUnit maps a unit name from the configuration to a Unit. Anything except "imperial"
// is treated as metric.
func ParseUnit(name string) Unit {
	if strings.EqualFold(strings.TrimSpace(name), "imperial") {
		return Imperial
	}
	return Metric
}

// Symbol returns the temperature unit symbol.
func (u Unit) Symbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// Round rounds half away from negative infinity, i.e. 2.5 becomes 3 and -2.5 becomes -2.
func Round(val float64) float64 {
	return math.Floor(val + 0.5)
}

// RoundTo rounds val to the given number of decimals using Round.
func RoundTo(val float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return Round(val*factor) / factor
}

// CelsiusToFahrenheit converts a Celsius value to Fahrenheit.
func CelsiusToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// FormatTemperature renders a Celsius temperature as an integer in the requested unit,
// e.g. "21°C" or "70°F".
func FormatTemperature(celsius float64, unit Unit) string {
	val := celsius
	if unit == Imperial {
		val = CelsiusToFahrenheit(celsius)
	}
	return fmt.Sprintf("%d%s", int(Round(val)), unit.Symbol())
}

// FormatTime renders the wall clock time (24h, "15:04") at a location with the given UTC
// offset in seconds.
func FormatTime(t time.Time, utcOffset int) string {
	return t.In(time.FixedZone("", utcOffset)).Format("15:04")
}

// FormatDate renders a short date like "Mon, Jan 2" in the given location.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("Mon, Jan 2")
}

// FormatWindSpeed renders a wind speed in m/s with one decimal.
func FormatWindSpeed(speed float64) string {
	return fmt.Sprintf("%.1f m/s", RoundTo(speed, 1))
}

// IconURL returns the provider's icon image URL for a condition icon code.
func IconURL(code string, large bool) string {
	size := ""
	if large {
		size = "@2x"
	}
	return iconBaseURL + code + size + ".png"
}

// WindDirection maps a meteorological wind direction in degrees to a 16 point compass label.
func WindDirection(deg float64) string {
	idx := int(Round(deg / 22.5))
	return compassPoints[((idx%16)+16)%16]
}

// Animation returns the animation style token for a condition category.
func Animation(category string) string {
	switch strings.ToLower(category) {
	case "clouds", "snow":
		return "animate-float"
	case "rain", "drizzle":
		return "animate-bounce"
	case "thunderstorm", "mist", "fog", "haze":
		return "animate-pulse"
	default:
		return "animate-weather-pulse"
	}
}

// Background returns the background style token for a condition category.
func Background(category string, night bool) string {
	category = strings.ToLower(category)
	if night {
		switch category {
		case "clear":
			return "bg-gradient-to-br from-indigo-900 via-purple-900 to-pink-900"
		case "clouds":
			return "bg-gradient-storm"
		case "rain", "drizzle", "thunderstorm":
			return "bg-gradient-to-br from-gray-900 via-blue-900 to-indigo-900"
		default:
			return "bg-gradient-atmospheric"
		}
	}

	switch category {
	case "clouds":
		return "bg-gradient-to-br from-gray-600 via-blue-700 to-blue-800"
	case "rain", "drizzle":
		return "bg-gradient-to-br from-gray-700 via-blue-800 to-blue-900"
	case "thunderstorm":
		return "bg-gradient-storm"
	case "snow":
		return "bg-gradient-to-br from-blue-200 via-blue-300 to-blue-400"
	default:
		return "bg-gradient-sky"
	}
}
