// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"

	"github.com/wneessen/weather-dashboard/internal/format"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"temp":          p.temp,
		"wind":          format.FormatWindSpeed,
		"windDir":       format.WindDirection,
		"windIcon":      windDirIcon,
		"icon":          conditionIcon,
		"iconURL":       format.IconURL,
		"clock":         format.FormatTime,
		"percent":       percent,
		"first":         first,
		"pad":           pad,
		"timeFormat":    p.timeFormat,
		"localizedTime": p.localizedTime,
		"localizedDate": p.localizedDate,
		"natural":       p.natural,
		"floatFormat":   p.floatFormat,
		"loc":           p.loc,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

func (p *Presenter) temp(celsius float64) string {
	return format.FormatTemperature(celsius, p.unit)
}

func (p *Presenter) loc(val string) string {
	val = strings.ToLower(val)
	if raw, ok := i18nVars[val]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

func (p *Presenter) localizedTime(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

func (p *Presenter) localizedDate(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.MonthDayFormat)
}

func (p *Presenter) natural(val time.Time) string {
	if val.IsZero() {
		return "-"
	}
	return p.humanizer.NaturalTime(val)
}

func (p *Presenter) timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func (p *Presenter) floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, format.RoundTo(val, precision))
}

// conditionIcon returns the emoji for a provider icon code like "10n". Codes ending in "n"
// get the night variant.
func conditionIcon(code string) string {
	if len(code) < 2 {
		return "❓"
	}
	icons, ok := conditionIcons[code[:2]]
	if !ok {
		return "❓"
	}
	return icons[!strings.HasSuffix(code, "n")]
}

func windDirIcon(deg float64) string {
	idx := int(format.Round(deg / 45))
	sectors := [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	return windDirIcons[sectors[((idx%8)+8)%8]]
}

func percent(ratio float64) string {
	return fmt.Sprintf("%d%%", int(format.Round(ratio*100)))
}

func first(points []format.ChartPoint, n int) []format.ChartPoint {
	return points[:max(0, min(n, len(points)))]
}

// pad fills val with spaces up to the given display width. Wide characters such as emoji
// count with their terminal width.
func pad(val string, width int) string {
	return runewidth.FillRight(val, width)
}
