// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/vorlif/spreak/localize"

var moonPhaseIcons = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// conditionIcons maps the icon code without its day/night suffix to a day and a night icon.
var conditionIcons = map[string]map[bool]string{
	"01": {true: "☀️", false: "🌙"},
	"02": {true: "🌤️", false: "☁️"},
	"03": {true: "⛅", false: "☁️"},
	"04": {true: "☁️", false: "☁️"},
	"09": {true: "🌧️", false: "🌧️"},
	"10": {true: "🌦️", false: "🌧️"},
	"11": {true: "⛈️", false: "⛈️"},
	"13": {true: "🌨️", false: "🌨️"},
	"50": {true: "🌫️", false: "🌫️"},
}

var windDirIcons = map[string]string{
	"N":  "↓",
	"NE": "↙",
	"E":  "←",
	"SE": "↖",
	"S":  "↑",
	"SW": "↗",
	"W":  "→",
	"NW": "↘",
}

var i18nVars = map[string]localize.MsgID{
	"temp":            "Temperature",
	"feelslike":       "Feels like",
	"humidity":        "Humidity",
	"pressure":        "Pressure",
	"visibility":      "Visibility",
	"wind":            "Wind",
	"gust":            "Gusts",
	"comfort":         "Comfort",
	"uvindex":         "UV index",
	"airquality":      "Air quality",
	"precipitation":   "Precipitation",
	"forecast":        "Forecast",
	"nexthours":       "Next hours",
	"winddist":        "Wind directions",
	"updated":         "Updated",
	"sunrise":         "Sunrise",
	"sunset":          "Sunset",
	"moonphase":       "Moonphase",
	"new moon":        "New moon",
	"waxing crescent": "Waxing crescent",
	"first quarter":   "First quarter",
	"waxing gibbous":  "Waxing gibbous",
	"full moon":       "Full moon",
	"waning gibbous":  "Waning gibbous",
	"third quarter":   "Third quarter",
	"waning crescent": "Waning crescent",
	"comfortable":     "Comfortable",
	"caution":         "Caution",
	"extreme caution": "Extreme caution",
	"danger":          "Danger",
	"low":             "Low",
	"moderate":        "Moderate",
	"high":            "High",
	"very high":       "Very high",
	"extreme":         "Extreme",
	"good":            "Good",
	"fair":            "Fair",
	"poor":            "Poor",
	"very poor":       "Very poor",
	"unknown":         "Unknown",
}
