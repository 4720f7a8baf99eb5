// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package weather holds the provider independent weather data model and the Provider
// interface the dashboard depends on.
package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/weather-dashboard/internal/vartype"
)

// MaxForecastPoints is the number of 3-hourly points covering five days.
const MaxForecastPoints = 40

// Provider is implemented by the weather API backend.
type Provider interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64) (ForecastSeries, error)
	SearchLocations(ctx context.Context, query string) ([]LocationCandidate, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) ([]LocationCandidate, error)
	UVIndex(ctx context.Context, lat, lon float64) (UVReading, error)
	AirQuality(ctx context.Context, lat, lon float64) (AirQualityReading, error)
}

// Coordinates represents a geographic position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Equal reports whether both coordinates denote exactly the same position.
func (c Coordinates) Equal(other Coordinates) bool {
	return c.Lat == other.Lat && c.Lon == other.Lon
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// LocationCandidate is a named place as returned by the geocoding endpoints.
type LocationCandidate struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	State       string      `json:"state,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// DisplayName returns the "Name, Country" label used for a selected location.
func (l LocationCandidate) DisplayName() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// Condition describes the weather condition as classified by the provider.
type Condition struct {
	ID          int
	Category    string
	Description string
	Icon        string
}

type Wind struct {
	Speed     float64
	Direction float64
	Gust      vartype.VarFloat64
}

// CurrentConditions is the observation for a single location at a single point in time.
type CurrentConditions struct {
	Name        string
	Country     string
	Coordinates Coordinates
	Temperature float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Humidity    float64
	Pressure    float64
	Visibility  float64
	Wind        Wind
	Condition   Condition
	Sunrise     time.Time
	Sunset      time.Time
	// UTCOffset is the location's offset from UTC in seconds.
	UTCOffset  int
	ObservedAt time.Time
}

// Location returns a fixed time zone matching the location's UTC offset.
func (c CurrentConditions) Location() *time.Location {
	return time.FixedZone("", c.UTCOffset)
}

// ForecastPoint is one 3-hourly forecast entry.
type ForecastPoint struct {
	Time        time.Time
	Temperature float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Humidity    float64
	Pressure    float64
	Visibility  float64
	// Pop is the probability of precipitation in the range [0, 1].
	Pop       float64
	Wind      Wind
	Condition Condition
	Rain3h    vartype.VarFloat64
	Snow3h    vartype.VarFloat64
}

// RainVolume returns the rain volume of the last 3 hours in mm. An absent value counts as zero.
func (p ForecastPoint) RainVolume() float64 {
	return p.Rain3h.ValueOr(0)
}

// SnowVolume returns the snow volume of the last 3 hours in mm. An absent value counts as zero.
func (p ForecastPoint) SnowVolume() float64 {
	return p.Snow3h.ValueOr(0)
}

// City is the forecast's location metadata.
type City struct {
	Name        string
	Country     string
	Coordinates Coordinates
	UTCOffset   int
	Sunrise     time.Time
	Sunset      time.Time
}

// ForecastSeries is an ordered list of forecast points for a city.
type ForecastSeries struct {
	City   City
	Points []ForecastPoint
}

// Location returns a fixed time zone matching the city's UTC offset.
func (f ForecastSeries) Location() *time.Location {
	return time.FixedZone("", f.City.UTCOffset)
}

type UVReading struct {
	Coordinates Coordinates
	Value       float64
	Time        time.Time
}

// AirQualityReading holds the air quality index (1 = good .. 5 = very poor) and the pollutant
// concentrations in μg/m³.
type AirQualityReading struct {
	Coordinates Coordinates
	Index       int
	Time        time.Time
	Components  Components
}

type Components struct {
	CO   float64
	NO   float64
	NO2  float64
	O3   float64
	SO2  float64
	PM25 float64
	PM10 float64
	NH3  float64
}
