// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geolocate

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	geoIPSourceName = "geoip"

	// GeoIPEndpoint is the IP geolocation API endpoint.
	GeoIPEndpoint = "https://reallyfreegeoip.org/json/"
	geoIPTimeout  = time.Second * 5
)

// GeoIPSource locates the device by its public IP address.
type GeoIPSource struct {
	http     *http.Client
	endpoint string
}

type geoIPResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	RegionCode  string  `json:"region_code,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func NewGeoIPSource(client *http.Client) *GeoIPSource {
	return &GeoIPSource{http: client, endpoint: GeoIPEndpoint}
}

func (s *GeoIPSource) Name() string {
	return geoIPSourceName
}

func (s *GeoIPSource) Locate(ctx context.Context) (Fix, error) {
	result := new(geoIPResult)
	if _, err := s.http.GetWithTimeout(ctx, s.endpoint, result, nil, nil, geoIPTimeout); err != nil {
		return Fix{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}

	// The more specific the returned address, the better the accuracy
	acc := float64(AccuracyUnknown)
	switch {
	case result.ZipCode != "":
		acc = AccuracyZip
	case result.City != "":
		acc = AccuracyCity
	case result.RegionCode != "":
		acc = AccuracyRegion
	case result.CountryCode != "":
		acc = AccuracyCountry
	}

	return Fix{
		Coordinates: weather.Coordinates{
			Lat: Truncate(result.Latitude, TruncPrecision),
			Lon: Truncate(result.Longitude, TruncPrecision),
		},
		AccuracyMeters: acc,
		Source:         geoIPSourceName,
	}, nil
}
