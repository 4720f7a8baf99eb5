// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package openweathermap implements the weather.Provider interface on top of the
// OpenWeatherMap REST API.
package openweathermap

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	// DefaultBaseURL is the base URL of the OpenWeatherMap API.
	DefaultBaseURL = "https://api.openweathermap.org"
	// APITimeout is the default per-request timeout.
	APITimeout = time.Second * 10

	pathCurrent    = "/data/2.5/weather"
	pathForecast   = "/data/2.5/forecast"
	pathDirect     = "/geo/1.0/direct"
	pathReverse    = "/geo/1.0/reverse"
	pathUVIndex    = "/data/2.5/uvi"
	pathAirQuality = "/data/2.5/air_pollution"

	searchLimit  = 5
	reverseLimit = 1
	units        = "metric"
)

// Operation names used in weather.ProviderError.
const (
	OpCurrentConditions = "current conditions"
	OpForecast          = "forecast"
	OpSearchLocations   = "search locations"
	OpReverseGeocode    = "reverse geocode"
	OpUVIndex           = "uv index"
	OpAirQuality        = "air quality"
)

// OpenWeatherMap is the OpenWeatherMap API client. It is immutable after construction and
// safe for concurrent use.
type OpenWeatherMap struct {
	apikey  string
	baseURL string
	http    *http.Client
	lang    language.Tag
	timeout time.Duration
}

// Option configures optional settings of the client.
type Option func(*OpenWeatherMap)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *OpenWeatherMap) {
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *OpenWeatherMap) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// New returns a new OpenWeatherMap client for the given API key.
func New(client *http.Client, lang language.Tag, apikey string, opts ...Option) *OpenWeatherMap {
	owm := &OpenWeatherMap{
		apikey:  apikey,
		baseURL: DefaultBaseURL,
		http:    client,
		lang:    lang,
		timeout: APITimeout,
	}
	for _, opt := range opts {
		opt(owm)
	}
	return owm
}

// CurrentConditions returns the current weather for the given coordinates.
func (o *OpenWeatherMap) CurrentConditions(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	if err := checkCoordinates(OpCurrentConditions, lat, lon); err != nil {
		return weather.CurrentConditions{}, err
	}

	var response currentResponse
	query := coordQuery(lat, lon)
	query.Set("units", units)
	query.Set("lang", o.langCode())
	if err := o.get(ctx, OpCurrentConditions, pathCurrent, query, &response); err != nil {
		return weather.CurrentConditions{}, err
	}
	if err := response.validate(); err != nil {
		return weather.CurrentConditions{}, weather.NewProviderError(OpCurrentConditions, weather.ErrMalformedResponse, err)
	}

	return response.toModel(), nil
}

// Forecast returns the 5 day forecast in 3 hour steps for the given coordinates.
func (o *OpenWeatherMap) Forecast(ctx context.Context, lat, lon float64) (weather.ForecastSeries, error) {
	if err := checkCoordinates(OpForecast, lat, lon); err != nil {
		return weather.ForecastSeries{}, err
	}

	var response forecastResponse
	query := coordQuery(lat, lon)
	query.Set("units", units)
	query.Set("cnt", strconv.Itoa(weather.MaxForecastPoints))
	query.Set("lang", o.langCode())
	if err := o.get(ctx, OpForecast, pathForecast, query, &response); err != nil {
		return weather.ForecastSeries{}, err
	}
	if err := response.validate(); err != nil {
		return weather.ForecastSeries{}, weather.NewProviderError(OpForecast, weather.ErrMalformedResponse, err)
	}

	return response.toModel(), nil
}

// SearchLocations resolves a free text query into up to five location candidates, in the
// order the provider returned them.
func (o *OpenWeatherMap) SearchLocations(ctx context.Context, q string) ([]weather.LocationCandidate, error) {
	var response geoResponse
	query := url.Values{}
	query.Set("q", q)
	query.Set("limit", strconv.Itoa(searchLimit))
	if err := o.get(ctx, OpSearchLocations, pathDirect, query, &response); err != nil {
		return nil, err
	}
	if err := response.validate(); err != nil {
		return nil, weather.NewProviderError(OpSearchLocations, weather.ErrMalformedResponse, err)
	}

	return response.toModel(o.lang, searchLimit), nil
}

// ReverseGeocode resolves coordinates into at most one location candidate. An empty result
// is not an error.
func (o *OpenWeatherMap) ReverseGeocode(ctx context.Context, lat, lon float64) ([]weather.LocationCandidate, error) {
	if err := checkCoordinates(OpReverseGeocode, lat, lon); err != nil {
		return nil, err
	}

	var response geoResponse
	query := coordQuery(lat, lon)
	query.Set("limit", strconv.Itoa(reverseLimit))
	if err := o.get(ctx, OpReverseGeocode, pathReverse, query, &response); err != nil {
		return nil, err
	}
	if err := response.validate(); err != nil {
		return nil, weather.NewProviderError(OpReverseGeocode, weather.ErrMalformedResponse, err)
	}

	return response.toModel(o.lang, reverseLimit), nil
}

// UVIndex returns the current UV index for the given coordinates.
func (o *OpenWeatherMap) UVIndex(ctx context.Context, lat, lon float64) (weather.UVReading, error) {
	if err := checkCoordinates(OpUVIndex, lat, lon); err != nil {
		return weather.UVReading{}, err
	}

	var response uviResponse
	if err := o.get(ctx, OpUVIndex, pathUVIndex, coordQuery(lat, lon), &response); err != nil {
		return weather.UVReading{}, err
	}
	if err := response.validate(); err != nil {
		return weather.UVReading{}, weather.NewProviderError(OpUVIndex, weather.ErrMalformedResponse, err)
	}

	return response.toModel(), nil
}

// AirQuality returns the current air pollution data for the given coordinates.
func (o *OpenWeatherMap) AirQuality(ctx context.Context, lat, lon float64) (weather.AirQualityReading, error) {
	if err := checkCoordinates(OpAirQuality, lat, lon); err != nil {
		return weather.AirQualityReading{}, err
	}

	var response airResponse
	if err := o.get(ctx, OpAirQuality, pathAirQuality, coordQuery(lat, lon), &response); err != nil {
		return weather.AirQualityReading{}, err
	}
	if len(response.List) == 0 {
		return weather.AirQualityReading{}, weather.NewProviderError(OpAirQuality, weather.ErrNotFound,
			errors.New("no air pollution data returned"))
	}
	if err := response.validate(); err != nil {
		return weather.AirQualityReading{}, weather.NewProviderError(OpAirQuality, weather.ErrMalformedResponse, err)
	}

	return response.toModel(), nil
}

// get performs a single GET request against the API and classifies any failure.
func (o *OpenWeatherMap) get(ctx context.Context, op, path string, query url.Values, target any) error {
	query.Set("appid", o.apikey)
	if _, err := o.http.GetWithTimeout(ctx, o.baseURL+path, target, query, nil, o.timeout); err != nil {
		return classify(op, err)
	}
	return nil
}

// langCode returns the language code in the form the API expects it ("de", "pt_br", "zh_cn").
func (o *OpenWeatherMap) langCode() string {
	base, _ := o.lang.Base()
	region, confidence := o.lang.Region()
	code := base.String()
	switch code {
	case "pt", "zh":
		if confidence == language.Exact {
			return code + "_" + strings.ToLower(region.String())
		}
	}
	return code
}

func classify(op string, err error) error {
	var statusErr *http.StatusError
	switch {
	case errors.As(err, &statusErr):
		switch statusErr.Code {
		case 401, 403:
			return weather.NewProviderError(op, weather.ErrAuth, err)
		case 404:
			return weather.NewProviderError(op, weather.ErrNotFound, err)
		default:
			return weather.NewProviderError(op, weather.ErrNetwork, err)
		}
	case errors.Is(err, http.ErrDecodeJSON):
		return weather.NewProviderError(op, weather.ErrMalformedResponse, err)
	default:
		return weather.NewProviderError(op, weather.ErrNetwork, err)
	}
}

func checkCoordinates(op string, lat, lon float64) error {
	coords := weather.Coordinates{Lat: lat, Lon: lon}
	if !coords.Valid() {
		return weather.NewProviderError(op, weather.ErrInvalidCoordinates,
			errors.New("coordinates out of range: "+coords.String()))
	}
	return nil
}

func coordQuery(lat, lon float64) url.Values {
	query := url.Values{}
	query.Set("lat", formatFloat(lat))
	query.Set("lon", formatFloat(lon))
	return query
}

// formatFloat serializes a coordinate in plain decimal notation.
func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
