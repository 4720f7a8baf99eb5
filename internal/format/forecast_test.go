// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package format

import (
	"testing"
	"time"

	"github.com/wneessen/weather-dashboard/internal/vartype"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

var testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func testPoints(count int, start time.Time) []weather.ForecastPoint {
	points := make([]weather.ForecastPoint, 0, count)
	for i := range count {
		points = append(points, weather.ForecastPoint{
			Time:        start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 10 + float64(i%8),
			FeelsLike:   9.5 + float64(i%8),
			Pop:         float64(i%2) * 0.5,
			Condition:   weather.Condition{ID: 800 + i, Category: "Clear"},
			Wind:        weather.Wind{Speed: 3.04, Direction: float64(i) * 45},
		})
	}
	return points
}

func TestGroupByDay(t *testing.T) {
	t.Run("eight points of one day and two of the next form two groups", func(t *testing.T) {
		points := testPoints(10, testStart)
		days := GroupByDay(points, time.UTC)
		if len(days) != 2 {
			t.Fatalf("expected 2 days, got %d", len(days))
		}
		if len(days[0].Points) != 8 {
			t.Fatalf("expected 8 points on the first day, got %d", len(days[0].Points))
		}
		if len(days[1].Points) != 2 {
			t.Fatalf("expected 2 points on the second day, got %d", len(days[1].Points))
		}
		for i, point := range days[0].Points {
			if !point.Time.Equal(points[i].Time) {
				t.Errorf("expected point %d to keep its order", i)
			}
		}
		if days[0].Min != 10 || days[0].Max != 17 {
			t.Errorf("expected min/max 10/17, got %.0f/%.0f", days[0].Min, days[0].Max)
		}
		if days[1].Min != 10 || days[1].Max != 11 {
			t.Errorf("expected min/max 10/11, got %.0f/%.0f", days[1].Min, days[1].Max)
		}
		if days[0].MeanPop != 0.25 {
			t.Errorf("expected mean pop 0.25, got %f", days[0].MeanPop)
		}
		if days[0].Condition.ID != 804 {
			t.Errorf("expected the middle point's condition (804), got %d", days[0].Condition.ID)
		}
		if days[1].Condition.ID != 809 {
			t.Errorf("expected the middle point's condition (809), got %d", days[1].Condition.ID)
		}
		if !days[1].Date.Equal(testStart.AddDate(0, 0, 1)) {
			t.Errorf("unexpected date of second day: %s", days[1].Date)
		}
	})
	t.Run("days are determined in the given location", func(t *testing.T) {
		points := testPoints(8, testStart)
		days := GroupByDay(points, time.FixedZone("", 3*3600))
		if len(days) != 2 {
			t.Fatalf("expected 2 days, got %d", len(days))
		}
		if len(days[0].Points) != 7 || len(days[1].Points) != 1 {
			t.Errorf("expected 7 and 1 points, got %d and %d", len(days[0].Points), len(days[1].Points))
		}
	})
	t.Run("at most five days are returned", func(t *testing.T) {
		days := GroupByDay(testPoints(48, testStart.Add(time.Hour*12)), time.UTC)
		if len(days) != MaxForecastDays {
			t.Errorf("expected %d days, got %d", MaxForecastDays, len(days))
		}
	})
	t.Run("no points return no days", func(t *testing.T) {
		if days := GroupByDay(nil, nil); len(days) != 0 {
			t.Errorf("expected no days, got %d", len(days))
		}
	})
}

func TestChartSeries(t *testing.T) {
	t.Run("first n points are projected", func(t *testing.T) {
		points := testPoints(30, testStart)
		points[0].Rain3h = vartype.NewVariable(0.42)
		points[0].Wind.Gust = vartype.NewVariable(7.25)
		series := ChartSeries(points, ChartPoints)
		if len(series) != ChartPoints {
			t.Fatalf("expected %d chart points, got %d", ChartPoints, len(series))
		}
		first := series[0]
		if first.Temperature != 10 || first.FeelsLike != 10 {
			t.Errorf("expected rounded temperatures 10/10, got %d/%d", first.Temperature, first.FeelsLike)
		}
		if first.Rain != 0.42 {
			t.Errorf("expected rain 0.42, got %f", first.Rain)
		}
		if first.WindSpeed != 3 {
			t.Errorf("expected wind speed 3.0, got %f", first.WindSpeed)
		}
		if first.WindGust != 7.3 {
			t.Errorf("expected wind gust 7.3, got %f", first.WindGust)
		}
		if series[1].WindGust != 0 {
			t.Errorf("expected absent gust to be 0, got %f", series[1].WindGust)
		}
		if series[1].PopPercent != 50 {
			t.Errorf("expected pop 50%%, got %d", series[1].PopPercent)
		}
		if series[1].Rain != 0 || series[1].Snow != 0 {
			t.Error("expected absent rain and snow to be 0")
		}
	})
	t.Run("fewer points than requested", func(t *testing.T) {
		if series := ChartSeries(testPoints(3, testStart), ChartPoints); len(series) != 3 {
			t.Errorf("expected 3 chart points, got %d", len(series))
		}
	})
}

func TestWindDistribution(t *testing.T) {
	t.Run("directions are counted per sector", func(t *testing.T) {
		series := ChartSeries(testPoints(16, testStart), ChartPoints)
		shares := WindDistribution(series)
		if len(shares) != 8 {
			t.Fatalf("expected 8 sectors, got %d", len(shares))
		}
		for _, share := range shares {
			if share.Count != 2 {
				t.Errorf("expected 2 points in sector %s, got %d", share.Direction, share.Count)
			}
			if share.Percentage != 13 {
				t.Errorf("expected 13%% in sector %s, got %d", share.Direction, share.Percentage)
			}
		}
		if shares[0].Direction != "N" || shares[7].Direction != "NW" {
			t.Errorf("unexpected sector order: %s .. %s", shares[0].Direction, shares[7].Direction)
		}
	})
	t.Run("no points yield zero percentages", func(t *testing.T) {
		for _, share := range WindDistribution(nil) {
			if share.Count != 0 || share.Percentage != 0 {
				t.Errorf("expected empty sector %s, got %+v", share.Direction, share)
			}
		}
	})
}
