// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package format

import (
	"math"
)

// Color tokens used by Level.
const (
	ColorSuccess     = "success"
	ColorWarning     = "warning"
	ColorDestructive = "destructive"
	ColorMuted       = "muted"
)

// Level is the result of a classification: a label, a color token and a short advice.
type Level struct {
	Level       string
	Color       string
	Description string
}

// ComfortFunc classifies a temperature (°C) and relative humidity (%) into a comfort level.
type ComfortFunc func(tempC, humidity float64) Level

// ComfortFormula returns the comfort classification for the given formula name. "legacy"
// selects LegacyComfortIndex, everything else ComfortIndex.
func ComfortFormula(name string) ComfortFunc {
	if name == "legacy" {
		return LegacyComfortIndex
	}
	return ComfortIndex
}

// ComfortIndex classifies the heat index of the given temperature (°C) and relative humidity.
func ComfortIndex(tempC, humidity float64) Level {
	return comfortLevel(HeatIndex(tempC, humidity))
}

// LegacyComfortIndex applies the simple heat index formula directly to the Celsius value
// without converting it to Fahrenheit first. Most realistic inputs rate as comfortable.
func LegacyComfortIndex(tempC, humidity float64) Level {
	index := tempC + 0.5*(tempC+61.0+(tempC-68.0)*1.2+humidity*0.094)
	return comfortLevel(index)
}

// HeatIndex returns the NWS heat index in °F for a temperature in °C and a relative humidity
// in percent. Below 80°F the simple Steadman approximation is used, above it the Rothfusz
// regression with the NWS humidity adjustments.
func HeatIndex(tempC, humidity float64) float64 {
	t := CelsiusToFahrenheit(tempC)
	rh := humidity

	simple := 0.5 * (t + 61.0 + (t-68.0)*1.2 + rh*0.094)
	if (simple+t)/2 < 80 {
		return simple
	}

	hi := -42.379 + 2.04901523*t + 10.14333127*rh - 0.22475541*t*rh - 0.00683783*t*t -
		0.05481717*rh*rh + 0.00122874*t*t*rh + 0.00085282*t*rh*rh - 0.00000199*t*t*rh*rh
	switch {
	case rh < 13 && t >= 80 && t <= 112:
		hi -= ((13 - rh) / 4) * math.Sqrt((17-math.Abs(t-95))/17)
	case rh > 85 && t >= 80 && t <= 87:
		hi += ((rh - 85) / 10) * ((87 - t) / 5)
	}
	return hi
}

func comfortLevel(index float64) Level {
	switch {
	case index < 80:
		return Level{"Comfortable", ColorSuccess, "Pleasant conditions"}
	case index < 90:
		return Level{"Caution", ColorWarning, "Possible fatigue with prolonged exposure"}
	case index < 105:
		return Level{"Extreme Caution", ColorDestructive, "Heat exhaustion possible"}
	default:
		return Level{"Danger", ColorDestructive, "Heat stroke highly likely"}
	}
}

// UVLevel classifies a UV index value.
func UVLevel(uv float64) Level {
	switch {
	case uv < 3:
		return Level{"Low", ColorSuccess, "Minimal protection required"}
	case uv < 6:
		return Level{"Moderate", ColorWarning, "Some protection required"}
	case uv < 8:
		return Level{"High", ColorDestructive, "Protection essential"}
	case uv < 11:
		return Level{"Very High", ColorDestructive, "Extra protection required"}
	default:
		return Level{"Extreme", ColorDestructive, "Avoid sun exposure"}
	}
}

// AirQualityLevel classifies an air quality index on the 1 to 5 scale.
func AirQualityLevel(aqi int) Level {
	switch aqi {
	case 1:
		return Level{"Good", ColorSuccess, "Air quality is satisfactory"}
	case 2:
		return Level{"Fair", ColorWarning, "Acceptable air quality"}
	case 3:
		return Level{"Moderate", ColorWarning, "Sensitive individuals may experience symptoms"}
	case 4:
		return Level{"Poor", ColorDestructive, "Everyone may experience symptoms"}
	case 5:
		return Level{"Very Poor", ColorDestructive, "Health warnings"}
	default:
		return Level{"Unknown", ColorMuted, "No data available"}
	}
}
