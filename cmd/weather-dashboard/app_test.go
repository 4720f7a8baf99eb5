// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/testhelper"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const testAPIKey = "valid-key"

var fixtures = map[string]string{
	"/data/2.5/weather":       "owm_current_london.json",
	"/data/2.5/forecast":      "owm_forecast_london.json",
	"/geo/1.0/direct":         "owm_direct_london.json",
	"/geo/1.0/reverse":        "owm_reverse_cologne.json",
	"/data/2.5/uvi":           "owm_uvi.json",
	"/data/2.5/air_pollution": "owm_air_pollution.json",
}

// routeFixtures serves the fixture matching the request path. Requests with an unknown API
// key are answered with the provider's 401 response.
func routeFixtures(t *testing.T, requests *[]string) func(req *nethttp.Request) (*nethttp.Response, error) {
	t.Helper()
	return func(req *nethttp.Request) (*nethttp.Response, error) {
		*requests = append(*requests, req.URL.Path)
		if req.URL.Query().Get("appid") != testAPIKey {
			return testhelper.FileResponder(t, "../../testdata/owm_error_401.json", nethttp.StatusUnauthorized)(req)
		}
		fixture, ok := fixtures[req.URL.Path]
		if !ok {
			return testhelper.StringResponder(`{"message":"not found"}`, nethttp.StatusNotFound)(req)
		}
		return testhelper.FileResponder(t, filepath.Join("../../testdata", fixture), nethttp.StatusOK)(req)
	}
}

func testApp(t *testing.T) (*app, *bytes.Buffer, *[]string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("LC_MESSAGES", "")
	conf, err := config.New()
	if err != nil {
		t.Fatalf("failed to load config: %s", err)
	}
	conf.Locale = "en"
	conf.GeoLocation.DisableGPSD = true
	conf.GeoLocation.DisableICHNAEA = true
	conf.GeoLocation.DisableGeoIP = true
	conf.GeoLocation.DisableResume = true
	conf.GeoLocation.File = filepath.Join(dir, "geolocation")
	conf.Storage.Path = filepath.Join(dir, "weather-dashboard.db")

	out := bytes.NewBuffer(nil)
	a, err := newApp(conf, logger.NewLogger(slog.LevelError, io.Discard), out)
	if err != nil {
		t.Fatalf("failed to create app: %s", err)
	}
	t.Cleanup(a.close)

	requests := new([]string)
	a.http.Transport = testhelper.MockRoundTripper{Fn: routeFixtures(t, requests)}
	return a, out, requests
}

// login stores the test API key and discards the confirmation, so that the output buffer
// only holds what the following command prints.
func login(t *testing.T, a *app) {
	t.Helper()
	if err := a.run(t.Context(), []string{"login", testAPIKey}); err != nil {
		t.Fatalf("failed to log in: %s", err)
	}
	if buf, ok := a.out.(*bytes.Buffer); ok {
		buf.Reset()
	}
}

func TestApp_run(t *testing.T) {
	t.Run("no command is a usage error", func(t *testing.T) {
		a, _, _ := testApp(t)
		if err := a.run(t.Context(), nil); !errors.Is(err, errUsage) {
			t.Errorf("expected error to be %s, got %s", errUsage, err)
		}
	})
	t.Run("unknown command is a usage error", func(t *testing.T) {
		a, _, _ := testApp(t)
		if err := a.run(t.Context(), []string{"forecast"}); !errors.Is(err, errUsage) {
			t.Errorf("expected error to be %s, got %s", errUsage, err)
		}
	})
}

func TestApp_login(t *testing.T) {
	t.Run("commands without an API key require onboarding", func(t *testing.T) {
		a, _, requests := testApp(t)
		for _, args := range [][]string{{"search", "London"}, {"show", "-lat", "1", "-lon", "2"}} {
			if err := a.run(t.Context(), args); !errors.Is(err, errNotOnboarded) {
				t.Errorf("expected error to be %s, got %s", errNotOnboarded, err)
			}
		}
		if len(*requests) != 0 {
			t.Errorf("expected no requests, got %d", len(*requests))
		}
	})
	t.Run("login stores the key and logout removes it", func(t *testing.T) {
		a, out, _ := testApp(t)
		if err := a.run(t.Context(), []string{"login", testAPIKey}); err != nil {
			t.Fatalf("failed to log in: %s", err)
		}
		key, ok, err := a.creds.Load(t.Context())
		if err != nil {
			t.Fatalf("failed to load API key: %s", err)
		}
		if !ok || key != testAPIKey {
			t.Errorf("expected API key to be %q, got %q", testAPIKey, key)
		}
		if err = a.run(t.Context(), []string{"logout"}); err != nil {
			t.Fatalf("failed to log out: %s", err)
		}
		if _, ok, _ = a.creds.Load(t.Context()); ok {
			t.Error("expected API key to be removed")
		}
		if !strings.Contains(out.String(), "API key saved.") {
			t.Errorf("expected login confirmation, got %q", out.String())
		}
	})
	t.Run("login requires exactly one argument", func(t *testing.T) {
		a, _, _ := testApp(t)
		if err := a.run(t.Context(), []string{"login"}); !errors.Is(err, errUsage) {
			t.Errorf("expected error to be %s, got %s", errUsage, err)
		}
	})
	t.Run("configured API key takes precedence", func(t *testing.T) {
		a, out, _ := testApp(t)
		a.conf.APIKey = testAPIKey
		if err := a.run(t.Context(), []string{"search", "London"}); err != nil {
			t.Fatalf("failed to search: %s", err)
		}
		if !strings.Contains(out.String(), "London, GB") {
			t.Errorf("expected search results, got %q", out.String())
		}
	})
	t.Run("an invalid API key is an auth error", func(t *testing.T) {
		a, _, _ := testApp(t)
		if err := a.run(t.Context(), []string{"login", "invalid"}); err != nil {
			t.Fatalf("failed to log in: %s", err)
		}
		if err := a.run(t.Context(), []string{"search", "London"}); !errors.Is(err, weather.ErrAuth) {
			t.Errorf("expected error to be %s, got %s", weather.ErrAuth, err)
		}
	})
}

func TestApp_search(t *testing.T) {
	t.Run("search lists the candidates with their index", func(t *testing.T) {
		a, out, _ := testApp(t)
		login(t, a)
		if err := a.run(t.Context(), []string{"search", "London"}); err != nil {
			t.Fatalf("failed to search: %s", err)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 5 {
			t.Fatalf("expected 5 lines, got %d: %q", len(lines), out.String())
		}
		if !strings.HasPrefix(lines[0], "1)") || !strings.Contains(lines[0], "London, GB") {
			t.Errorf("unexpected first candidate line: %q", lines[0])
		}
		if !strings.HasPrefix(lines[2], "3)") || !strings.Contains(lines[2], "Ontario") {
			t.Errorf("unexpected third candidate line: %q", lines[2])
		}
	})
	t.Run("an empty search fails", func(t *testing.T) {
		a, _, requests := testApp(t)
		login(t, a)
		if err := a.run(t.Context(), []string{"search", " "}); err == nil {
			t.Error("expected search to fail, but didn't")
		}
		if len(*requests) != 0 {
			t.Errorf("expected no requests, got %d", len(*requests))
		}
	})
}

func TestApp_show(t *testing.T) {
	t.Run("show by search renders the dashboard", func(t *testing.T) {
		a, out, requests := testApp(t)
		login(t, a)
		if err := a.run(t.Context(), []string{"show", "-search", "London"}); err != nil {
			t.Fatalf("failed to show: %s", err)
		}
		for _, want := range []string{"London, GB", "21°C", "Forecast"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
			}
		}
		if len(*requests) != 5 {
			t.Errorf("expected 5 requests, got %d: %v", len(*requests), *requests)
		}
	})
	t.Run("show by coordinates prints JSON", func(t *testing.T) {
		a, out, _ := testApp(t)
		login(t, a)
		if err := a.run(t.Context(), []string{"show", "-lat", "51.5073", "-lon", "-0.1276", "-json"}); err != nil {
			t.Fatalf("failed to show: %s", err)
		}
		var data struct {
			Location struct {
				Name string `json:"name"`
			}
			UV         *float64
			AirQuality *int
		}
		if err := json.Unmarshal(out.Bytes(), &data); err != nil {
			t.Fatalf("failed to decode JSON output: %s", err)
		}
		if data.Location.Name != "51.51, -0.13" {
			t.Errorf("expected location name to be %q, got %q", "51.51, -0.13", data.Location.Name)
		}
		if data.UV == nil || *data.UV != 6.38 {
			t.Errorf("expected UV index to be 6.38, got %v", data.UV)
		}
		if data.AirQuality == nil || *data.AirQuality != 3 {
			t.Errorf("expected air quality index to be 3, got %v", data.AirQuality)
		}
	})
	t.Run("show with invalid coordinates fails", func(t *testing.T) {
		a, _, requests := testApp(t)
		login(t, a)
		err := a.run(t.Context(), []string{"show", "-lat", "91", "-lon", "0"})
		if !errors.Is(err, weather.ErrInvalidCoordinates) {
			t.Errorf("expected error to be %s, got %s", weather.ErrInvalidCoordinates, err)
		}
		if len(*requests) != 0 {
			t.Errorf("expected no requests, got %d", len(*requests))
		}
	})
	t.Run("show for the device location uses the geolocation file", func(t *testing.T) {
		a, out, _ := testApp(t)
		login(t, a)
		if err := os.WriteFile(a.conf.GeoLocation.File, []byte("50.938,6.957\n"), 0o600); err != nil {
			t.Fatalf("failed to write geolocation file: %s", err)
		}
		if err := a.run(t.Context(), []string{"show"}); err != nil {
			t.Fatalf("failed to show: %s", err)
		}
		if !strings.Contains(out.String(), "Cologne, DE") {
			t.Errorf("expected output to contain %q, got:\n%s", "Cologne, DE", out.String())
		}
	})
	t.Run("show without a device location fails", func(t *testing.T) {
		a, _, _ := testApp(t)
		login(t, a)
		if err := a.run(t.Context(), []string{"show", "-here"}); err == nil {
			t.Error("expected show to fail, but didn't")
		}
	})
	t.Run("show with unknown flags is a usage error", func(t *testing.T) {
		a, _, _ := testApp(t)
		if err := a.run(t.Context(), []string{"show", "-unknown"}); !errors.Is(err, errUsage) {
			t.Errorf("expected error to be %s, got %s", errUsage, err)
		}
	})
}

func TestApp_favorites(t *testing.T) {
	t.Run("favorites are added, listed, shown and removed", func(t *testing.T) {
		a, out, _ := testApp(t)
		login(t, a)
		if err := a.run(t.Context(), []string{"favorites"}); err != nil {
			t.Fatalf("failed to list favorites: %s", err)
		}
		if !strings.Contains(out.String(), "No saved locations.") {
			t.Errorf("expected empty favorites, got %q", out.String())
		}

		for _, args := range [][]string{
			{"favorites", "add", "London"},
			{"favorites", "add", "-pick", "3", "London"},
			{"favorites", "add", "London"},
		} {
			if err := a.run(t.Context(), args); err != nil {
				t.Fatalf("failed to add favorite: %s", err)
			}
		}
		if !strings.Contains(out.String(), "London, GB is already saved.") {
			t.Errorf("expected duplicate notice, got %q", out.String())
		}
		saved, err := a.favorites.List(t.Context())
		if err != nil {
			t.Fatalf("failed to list favorites: %s", err)
		}
		if len(saved) != 2 || saved[1].Country != "CA" {
			t.Fatalf("expected London, GB and London, CA to be saved, got %+v", saved)
		}

		out.Reset()
		if err = a.run(t.Context(), []string{"show", "-favorite", "2"}); err != nil {
			t.Fatalf("failed to show favorite: %s", err)
		}
		if !strings.Contains(out.String(), "London, CA") {
			t.Errorf("expected output to contain %q, got:\n%s", "London, CA", out.String())
		}

		if err = a.run(t.Context(), []string{"favorites", "remove", "1"}); err != nil {
			t.Fatalf("failed to remove favorite: %s", err)
		}
		saved, _ = a.favorites.List(t.Context())
		if len(saved) != 1 || saved[0].Country != "CA" {
			t.Errorf("expected only London, CA to remain, got %+v", saved)
		}
	})
	t.Run("removing an invalid index fails", func(t *testing.T) {
		a, _, _ := testApp(t)
		for _, args := range [][]string{
			{"favorites", "remove"},
			{"favorites", "remove", "x"},
			{"favorites", "remove", "1"},
			{"favorites", "rename"},
		} {
			if err := a.run(t.Context(), args); err == nil {
				t.Errorf("expected %v to fail, but didn't", args)
			}
		}
	})
}

func TestApp_history(t *testing.T) {
	t.Run("lookups are recorded when telemetry is enabled", func(t *testing.T) {
		a, out, _ := testApp(t)
		a.conf.Telemetry.Enabled = true
		a.conf.Telemetry.User = "tester"
		login(t, a)
		if err := a.run(t.Context(), []string{"show", "-search", "London"}); err != nil {
			t.Fatalf("failed to show: %s", err)
		}
		out.Reset()
		if err := a.run(t.Context(), []string{"history"}); err != nil {
			t.Fatalf("failed to list history: %s", err)
		}
		if !strings.Contains(out.String(), "London, GB") {
			t.Errorf("expected history to contain %q, got %q", "London, GB", out.String())
		}
	})
	t.Run("nothing is recorded with telemetry disabled", func(t *testing.T) {
		a, out, _ := testApp(t)
		login(t, a)
		if err := a.run(t.Context(), []string{"show", "-search", "London"}); err != nil {
			t.Fatalf("failed to show: %s", err)
		}
		out.Reset()
		if err := a.run(t.Context(), []string{"history"}); err != nil {
			t.Fatalf("failed to list history: %s", err)
		}
		if !strings.Contains(out.String(), "No recorded lookups.") {
			t.Errorf("expected empty history, got %q", out.String())
		}
	})
}
