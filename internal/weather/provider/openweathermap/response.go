// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/vartype"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

var (
	errMissingCoord     = errors.New("missing coord")
	errMissingMain      = errors.New("missing main")
	errMissingCondition = errors.New("missing weather condition")
	errMissingCity      = errors.New("missing city")
	errMissingValue     = errors.New("missing value")
)

type coord struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (c *coord) validate() error {
	if c == nil || c.Lat == nil || c.Lon == nil {
		return errMissingCoord
	}
	return nil
}

func (c *coord) toModel() weather.Coordinates {
	return weather.Coordinates{Lat: *c.Lat, Lon: *c.Lon}
}

type condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (c condition) toModel() weather.Condition {
	return weather.Condition{ID: c.ID, Category: c.Main, Description: c.Description, Icon: c.Icon}
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type wind struct {
	Speed float64  `json:"speed"`
	Deg   float64  `json:"deg"`
	Gust  *float64 `json:"gust"`
}

func (w wind) toModel() weather.Wind {
	return weather.Wind{Speed: w.Speed, Direction: w.Deg, Gust: vartype.FromPointer(w.Gust)}
}

type volume struct {
	ThreeHours *float64 `json:"3h"`
}

func (v *volume) toModel() vartype.VarFloat64 {
	if v == nil {
		return vartype.VarFloat64{}
	}
	return vartype.FromPointer(v.ThreeHours)
}

type currentResponse struct {
	Coord      *coord      `json:"coord"`
	Weather    []condition `json:"weather"`
	Main       *mainBlock  `json:"main"`
	Visibility float64     `json:"visibility"`
	Wind       wind        `json:"wind"`
	Dt         int64       `json:"dt"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

func (r *currentResponse) validate() error {
	if err := r.Coord.validate(); err != nil {
		return err
	}
	if r.Main == nil {
		return errMissingMain
	}
	if len(r.Weather) == 0 {
		return errMissingCondition
	}
	return nil
}

func (r *currentResponse) toModel() weather.CurrentConditions {
	return weather.CurrentConditions{
		Name:        r.Name,
		Country:     r.Sys.Country,
		Coordinates: r.Coord.toModel(),
		Temperature: r.Main.Temp,
		FeelsLike:   r.Main.FeelsLike,
		TempMin:     r.Main.TempMin,
		TempMax:     r.Main.TempMax,
		Humidity:    r.Main.Humidity,
		Pressure:    r.Main.Pressure,
		Visibility:  r.Visibility,
		Wind:        r.Wind.toModel(),
		Condition:   r.Weather[0].toModel(),
		Sunrise:     unixTime(r.Sys.Sunrise),
		Sunset:      unixTime(r.Sys.Sunset),
		UTCOffset:   r.Timezone,
		ObservedAt:  unixTime(r.Dt),
	}
}

type forecastEntry struct {
	Dt         int64       `json:"dt"`
	Main       *mainBlock  `json:"main"`
	Weather    []condition `json:"weather"`
	Wind       wind        `json:"wind"`
	Visibility float64     `json:"visibility"`
	Pop        float64     `json:"pop"`
	Rain       *volume     `json:"rain"`
	Snow       *volume     `json:"snow"`
}

type forecastResponse struct {
	List []forecastEntry `json:"list"`
	City *struct {
		Name     string `json:"name"`
		Coord    *coord `json:"coord"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
		Sunrise  int64  `json:"sunrise"`
		Sunset   int64  `json:"sunset"`
	} `json:"city"`
}

func (r *forecastResponse) validate() error {
	if r.City == nil {
		return errMissingCity
	}
	if err := r.City.Coord.validate(); err != nil {
		return fmt.Errorf("city: %w", err)
	}
	for i, entry := range r.List {
		if entry.Main == nil {
			return fmt.Errorf("list[%d]: %w", i, errMissingMain)
		}
		if len(entry.Weather) == 0 {
			return fmt.Errorf("list[%d]: %w", i, errMissingCondition)
		}
	}
	return nil
}

func (r *forecastResponse) toModel() weather.ForecastSeries {
	series := weather.ForecastSeries{
		City: weather.City{
			Name:        r.City.Name,
			Country:     r.City.Country,
			Coordinates: r.City.Coord.toModel(),
			UTCOffset:   r.City.Timezone,
			Sunrise:     unixTime(r.City.Sunrise),
			Sunset:      unixTime(r.City.Sunset),
		},
	}

	entries := r.List
	if len(entries) > weather.MaxForecastPoints {
		entries = entries[:weather.MaxForecastPoints]
	}
	series.Points = make([]weather.ForecastPoint, 0, len(entries))
	for _, entry := range entries {
		series.Points = append(series.Points, weather.ForecastPoint{
			Time:        unixTime(entry.Dt),
			Temperature: entry.Main.Temp,
			FeelsLike:   entry.Main.FeelsLike,
			TempMin:     entry.Main.TempMin,
			TempMax:     entry.Main.TempMax,
			Humidity:    entry.Main.Humidity,
			Pressure:    entry.Main.Pressure,
			Visibility:  entry.Visibility,
			Pop:         entry.Pop,
			Wind:        entry.Wind.toModel(),
			Condition:   entry.Weather[0].toModel(),
			Rain3h:      entry.Rain.toModel(),
			Snow3h:      entry.Snow.toModel(),
		})
	}
	return series
}

type geoEntry struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Lat        *float64          `json:"lat"`
	Lon        *float64          `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}

type geoResponse []geoEntry

func (r geoResponse) validate() error {
	for i, entry := range r {
		if entry.Lat == nil || entry.Lon == nil {
			return fmt.Errorf("entry %d: %w", i, errMissingCoord)
		}
	}
	return nil
}

// toModel converts up to limit entries, preferring the local name in the client language.
func (r geoResponse) toModel(lang language.Tag, limit int) []weather.LocationCandidate {
	base, _ := lang.Base()
	candidates := make([]weather.LocationCandidate, 0, min(len(r), limit))
	for _, entry := range r {
		if len(candidates) == limit {
			break
		}
		name := entry.Name
		if local, ok := entry.LocalNames[base.String()]; ok && local != "" {
			name = local
		}
		candidates = append(candidates, weather.LocationCandidate{
			Name:        name,
			Country:     entry.Country,
			State:       entry.State,
			Coordinates: weather.Coordinates{Lat: *entry.Lat, Lon: *entry.Lon},
		})
	}
	return candidates
}

type uviResponse struct {
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
	Date  int64    `json:"date"`
	Value *float64 `json:"value"`
}

func (r *uviResponse) validate() error {
	if r.Value == nil {
		return errMissingValue
	}
	if *r.Value < 0 {
		return fmt.Errorf("negative UV index: %f", *r.Value)
	}
	return nil
}

func (r *uviResponse) toModel() weather.UVReading {
	return weather.UVReading{
		Coordinates: weather.Coordinates{Lat: r.Lat, Lon: r.Lon},
		Value:       *r.Value,
		Time:        unixTime(r.Date),
	}
}

type airResponse struct {
	Coord *coord `json:"coord"`
	List  []struct {
		Dt   int64 `json:"dt"`
		Main *struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO   float64 `json:"no"`
			NO2  float64 `json:"no2"`
			O3   float64 `json:"o3"`
			SO2  float64 `json:"so2"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
			NH3  float64 `json:"nh3"`
		} `json:"components"`
	} `json:"list"`
}

func (r *airResponse) validate() error {
	if err := r.Coord.validate(); err != nil {
		return err
	}
	if r.List[0].Main == nil {
		return errMissingMain
	}
	return nil
}

func (r *airResponse) toModel() weather.AirQualityReading {
	entry := r.List[0]
	return weather.AirQualityReading{
		Coordinates: r.Coord.toModel(),
		Index:       entry.Main.AQI,
		Time:        unixTime(entry.Dt),
		Components:  weather.Components(entry.Components),
	}
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
