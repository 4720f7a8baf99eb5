// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package format

import (
	"math"
	"time"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	// MaxForecastDays is the number of calendar days GroupByDay returns at most.
	MaxForecastDays = 5
	// ChartPoints is the number of forecast points shown in the charts (three days).
	ChartPoints = 24
)

var windSectors = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// DaySummary aggregates the forecast points of a single calendar day.
type DaySummary struct {
	Date    time.Time
	Points  []weather.ForecastPoint
	Min     float64
	Max     float64
	MeanPop float64
	// Condition is the condition of the point in the middle of the day's list.
	Condition weather.Condition
}

// GroupByDay groups forecast points by calendar day in loc. Days keep the order in which
// they first appear, points keep their order within a day. At most MaxForecastDays days
// are returned.
func GroupByDay(points []weather.ForecastPoint, loc *time.Location) []DaySummary {
	if loc == nil {
		loc = time.UTC
	}

	days := make([]DaySummary, 0, MaxForecastDays)
	index := make(map[time.Time]int)
	for _, point := range points {
		local := point.Time.In(loc)
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		idx, ok := index[date]
		if !ok {
			if len(days) == MaxForecastDays {
				continue
			}
			idx = len(days)
			index[date] = idx
			days = append(days, DaySummary{Date: date})
		}
		days[idx].Points = append(days[idx].Points, point)
	}

	for i := range days {
		summarize(&days[i])
	}
	return days
}

func summarize(day *DaySummary) {
	day.Min, day.Max = math.Inf(1), math.Inf(-1)
	var pop float64
	for _, point := range day.Points {
		day.Min = math.Min(day.Min, point.Temperature)
		day.Max = math.Max(day.Max, point.Temperature)
		pop += point.Pop
	}
	day.MeanPop = pop / float64(len(day.Points))
	day.Condition = day.Points[len(day.Points)/2].Condition
}

// ChartPoint is a forecast point projected to the values shown in the charts.
type ChartPoint struct {
	Time        time.Time
	Temperature int
	FeelsLike   int
	Humidity    float64
	// PopPercent is the probability of precipitation in percent.
	PopPercent int
	Rain       float64
	Snow       float64
	WindSpeed  float64
	WindGust   float64
	Direction  float64
	Pressure   float64
}

// ChartSeries projects the first n forecast points to chart rows. Temperatures are rounded
// to integers, wind speeds to one decimal and an absent gust is shown as zero.
func ChartSeries(points []weather.ForecastPoint, n int) []ChartPoint {
	if n < 0 || n > len(points) {
		n = len(points)
	}
	series := make([]ChartPoint, 0, n)
	for _, point := range points[:n] {
		series = append(series, ChartPoint{
			Time:        point.Time,
			Temperature: int(Round(point.Temperature)),
			FeelsLike:   int(Round(point.FeelsLike)),
			Humidity:    point.Humidity,
			PopPercent:  int(Round(point.Pop * 100)),
			Rain:        point.RainVolume(),
			Snow:        point.SnowVolume(),
			WindSpeed:   RoundTo(point.Wind.Speed, 1),
			WindGust:    RoundTo(point.Wind.Gust.ValueOr(0), 1),
			Direction:   point.Wind.Direction,
			Pressure:    point.Pressure,
		})
	}
	return series
}

// WindShare is the share of chart points with wind from one of the eight main directions.
type WindShare struct {
	Direction  string
	Count      int
	Percentage int
}

// WindDistribution counts the wind directions of the given chart points in eight sectors.
// The result always contains all eight sectors, starting with north.
func WindDistribution(points []ChartPoint) []WindShare {
	shares := make([]WindShare, len(windSectors))
	for i, sector := range windSectors {
		shares[i].Direction = sector
	}
	for _, point := range points {
		idx := int(Round(point.Direction / 45))
		shares[((idx%8)+8)%8].Count++
	}
	if len(points) == 0 {
		return shares
	}
	for i := range shares {
		shares[i].Percentage = int(Round(float64(shares[i].Count) / float64(len(points)) * 100))
	}
	return shares
}
