// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter turns dashboard snapshots into localized text output.
package presenter

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/dashboard"
	"github.com/wneessen/weather-dashboard/internal/format"
	"github.com/wneessen/weather-dashboard/internal/vartype"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

// CurrentView wraps the current conditions with presentation related fields.
type CurrentView struct {
	weather.CurrentConditions

	Night      bool
	Comfort    format.Level
	IconURL    string
	Animation  string
	Background string
}

// DayView is a single day of the forecast table.
type DayView struct {
	format.DaySummary

	Label   string
	Sunrise time.Time
	Sunset  time.Time
}

type TemplateContext struct {
	Location   weather.LocationCandidate
	UpdateTime time.Time
	TempUnit   string

	Current CurrentView
	Days    []DayView
	Chart   []format.ChartPoint
	Wind    []format.WindShare

	UV              vartype.VarFloat64
	UVLevel         format.Level
	AirQuality      vartype.VarInt
	AirQualityLevel format.Level
	Pollutants      weather.Components

	MoonPhase     string
	MoonPhaseIcon string
}

type Presenter struct {
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	unit      format.Unit
	comfort   format.ComfortFunc
	days      int

	TextTemplate      *template.Template
	DashboardTemplate *template.Template
}

// New parses the configured templates and verifies that they render.
func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	collection := humanize.MustNew(humanize.WithLocale(de.New()))
	pres := &Presenter{
		localizer: loc,
		humanizer: collection.CreateHumanizer(loc.Language()),
		unit:      format.ParseUnit(conf.Units),
		comfort:   format.ComfortFormula(conf.Display.ComfortFormula),
		days:      conf.Display.ForecastDays,
	}

	var err error
	pres.TextTemplate, err = template.New("text").Funcs(pres.templateFuncMap()).Parse(conf.Display.TextTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	pres.DashboardTemplate, err = template.New("dashboard").Funcs(pres.templateFuncMap()).
		Parse(conf.Display.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	if _, err = pres.Render(pres.BuildContext(dashboard.Snapshot{})); err != nil {
		return nil, err
	}
	return pres, nil
}

// BuildContext prepares the template context for a snapshot.
func (p *Presenter) BuildContext(snap dashboard.Snapshot) TemplateContext {
	current := snap.Current
	tplCtx := TemplateContext{
		Location:   snap.Location,
		UpdateTime: snap.LoadedAt,
		TempUnit:   p.unit.Symbol(),
		Current: CurrentView{
			CurrentConditions: current,
			Night:             isNight(current, snap.LoadedAt),
			Comfort:           p.comfort(current.Temperature, current.Humidity),
			IconURL:           format.IconURL(current.Condition.Icon, true),
			Animation:         format.Animation(current.Condition.Category),
		},
		AirQualityLevel: format.AirQualityLevel(0),
	}
	tplCtx.Current.Background = format.Background(current.Condition.Category, tplCtx.Current.Night)

	loc := snap.Forecast.Location()
	for i, day := range format.GroupByDay(snap.Forecast.Points, loc) {
		if i == p.days {
			break
		}
		sunrise, sunset := format.SolarTimes(snap.Forecast.City.Coordinates, day.Date.Add(time.Hour*12))
		tplCtx.Days = append(tplCtx.Days, DayView{
			DaySummary: day,
			Label:      format.FormatDate(day.Date, loc),
			Sunrise:    sunrise,
			Sunset:     sunset,
		})
	}
	tplCtx.Chart = format.ChartSeries(snap.Forecast.Points, format.ChartPoints)
	tplCtx.Wind = format.WindDistribution(tplCtx.Chart)

	if snap.UV.IsSet() {
		tplCtx.UV.Set(snap.UV.Value().Value)
		tplCtx.UVLevel = format.UVLevel(snap.UV.Value().Value)
	}
	if snap.AirQuality.IsSet() {
		reading := snap.AirQuality.Value()
		tplCtx.AirQuality.Set(reading.Index)
		tplCtx.AirQualityLevel = format.AirQualityLevel(reading.Index)
		tplCtx.Pollutants = reading.Components
	}

	moonTime := current.ObservedAt
	if moonTime.IsZero() {
		moonTime = snap.LoadedAt
	}
	moon := moonphase.New(moonTime)
	tplCtx.MoonPhase = moon.PhaseName()
	tplCtx.MoonPhaseIcon = moonPhaseIcons[tplCtx.MoonPhase]

	return tplCtx
}

// Render executes both templates. The result holds the "text" and the "dashboard" output.
func (p *Presenter) Render(tplCtx TemplateContext) (map[string]string, error) {
	output := make(map[string]string, 2)
	templates := map[string]*template.Template{
		"text":      p.TextTemplate,
		"dashboard": p.DashboardTemplate,
	}
	for name, tpl := range templates {
		buf := bytes.NewBuffer(nil)
		if err := tpl.Execute(buf, tplCtx); err != nil {
			return nil, fmt.Errorf("failed to render %s template: %w", name, err)
		}
		output[name] = buf.String()
	}
	return output, nil
}

// isNight decides whether it is night at the location at time now, using the reported sun
// times or the computed ones when the provider reported none. A zero now falls back to the
// observation time.
func isNight(current weather.CurrentConditions, now time.Time) bool {
	if now.IsZero() {
		now = current.ObservedAt
	}
	if current.Sunrise.IsZero() || current.Sunset.IsZero() {
		return format.IsNightAt(current.Coordinates, now)
	}
	return format.IsNight(now, current.Sunrise, current.Sunset)
}
