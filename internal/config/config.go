// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "WEATHERDASHBOARD"
	appDir    = "weather-dashboard"

	DefaultStorageFile     = "weather-dashboard.db"
	DefaultGeolocationFile = "geolocation"
	MaxForecastDays        = 5

	DefaultTextTpl      = "{{icon .Current.Condition.Icon}} {{temp .Current.Temperature}} {{.Location.Name}}"
	DefaultDashboardTpl = `{{.Location.DisplayName}}
{{icon .Current.Condition.Icon}} {{temp .Current.Temperature}}  {{.Current.Condition.Description}}
{{loc "feelslike"}}: {{temp .Current.FeelsLike}} • {{loc "humidity"}}: {{floatFormat .Current.Humidity 0}}% • {{loc "pressure"}}: {{floatFormat .Current.Pressure 0}} hPa
{{loc "wind"}}: {{wind .Current.Wind.Speed}} {{windIcon .Current.Wind.Direction}} {{windDir .Current.Wind.Direction}}{{if .Current.Wind.Gust.IsSet}} • {{loc "gust"}}: {{wind .Current.Wind.Gust.Value}}{{end}}
{{loc "comfort"}}: {{loc .Current.Comfort.Level}}{{if .UV.IsSet}} • {{loc "uvindex"}}: {{floatFormat .UV.Value 1}} ({{loc .UVLevel.Level}}){{end}}{{if .AirQuality.IsSet}} • {{loc "airquality"}}: {{loc .AirQualityLevel.Level}}{{end}}
🌅 {{clock .Current.Sunrise .Current.UTCOffset}} • 🌇 {{clock .Current.Sunset .Current.UTCOffset}} • {{.MoonPhaseIcon}} {{loc .MoonPhase}}

{{loc "nexthours"}}
{{range first .Chart 8}}{{pad (clock .Time $.Current.UTCOffset) 6}}{{pad (printf "%d°" .Temperature) 5}}{{pad (printf "%d%%" .PopPercent) 5}}{{wind .WindSpeed}}
{{end}}
{{loc "forecast"}}
{{range .Days}}{{pad (localizedDate .Date) 14}}{{pad (icon .Condition.Icon) 3}}{{pad (temp .Min) 6}}{{pad (temp .Max) 6}}{{percent .MeanPop}}
{{end}}
{{loc "winddist"}}: {{range .Wind}}{{if .Count}}{{.Direction}} {{.Percentage}}% {{end}}{{end}}
{{loc "updated"}}: {{natural .UpdateTime}}`
)

// DefaultFiles are the configuration files looked up in the user's config directory when
// no file is given explicitly.
var DefaultFiles = []string{"config.toml", "config.yaml", "config.yml", "config.json"}

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`
	// APIKey overrides the stored API key, e.g. from the environment.
	APIKey string `fig:"apikey"`

	Provider struct {
		BaseURL string        `fig:"base_url" default:"https://api.openweathermap.org"`
		Timeout time.Duration `fig:"timeout" default:"10s"`
	} `fig:"provider"`

	Storage struct {
		Path string `fig:"path"`
	} `fig:"storage"`

	Intervals struct {
		Refresh time.Duration `fig:"refresh" default:"15m"`
	} `fig:"intervals"`

	Display struct {
		// Allowed value: 1 to 5
		ForecastDays int `fig:"forecast_days" default:"5"`
		// Allowed values: nws, legacy
		ComfortFormula string `fig:"comfort_formula" default:"nws"`
		Template       string `fig:"template"`
		TextTemplate   string `fig:"text_template"`
	} `fig:"display"`

	GeoLocation struct {
		File                   string        `fig:"file"`
		GPSDAddress            string        `fig:"gpsd_address" default:"localhost:2947"`
		Timeout                time.Duration `fig:"timeout" default:"10s"`
		MaxAge                 time.Duration `fig:"max_age" default:"5m"`
		DisableHighAccuracy    bool          `fig:"disable_high_accuracy"`
		DisableGeolocationFile bool          `fig:"disable_geolocation_file"`
		DisableGPSD            bool          `fig:"disable_gpsd"`
		DisableICHNAEA         bool          `fig:"disable_ichnaea"`
		DisableGeoIP           bool          `fig:"disable_geoip"`
		DisableResume          bool          `fig:"disable_resume"`
	} `fig:"geolocation"`

	Telemetry struct {
		Enabled  bool   `fig:"enabled"`
		User     string `fig:"user"`
		Endpoint string `fig:"endpoint"`
		Token    string `fig:"token"`
		// DisableHistory turns off the local search history in the storage database.
		DisableHistory bool `fig:"disable_history"`
	} `fig:"telemetry"`
}

// NewFromFile loads the configuration from file in path. Environment variables take
// precedence over values from the file.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

// New loads the configuration from the first of DefaultFiles found in the user's config
// directory, or from defaults and the environment if there is none.
func New() (*Config, error) {
	if dir, err := Dir(); err == nil {
		for _, file := range DefaultFiles {
			if _, err = os.Stat(filepath.Join(dir, file)); err == nil {
				return NewFromFile(dir, file)
			}
		}
	}

	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

// Dir returns the application's directory in the user's config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

func (c *Config) Validate() error {
	c.Units = strings.ToLower(c.Units)
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("invalid provider timeout: %s", c.Provider.Timeout)
	}
	if c.Intervals.Refresh < time.Minute {
		return fmt.Errorf("invalid refresh interval: %s", c.Intervals.Refresh)
	}
	if c.Display.ForecastDays < 1 || c.Display.ForecastDays > MaxForecastDays {
		return fmt.Errorf("invalid forecast days: %d", c.Display.ForecastDays)
	}
	c.Display.ComfortFormula = strings.ToLower(c.Display.ComfortFormula)
	if c.Display.ComfortFormula != "nws" && c.Display.ComfortFormula != "legacy" {
		return fmt.Errorf("invalid comfort formula: %s", c.Display.ComfortFormula)
	}
	if c.Display.TextTemplate == "" {
		c.Display.TextTemplate = DefaultTextTpl
	}
	if c.Display.Template == "" {
		c.Display.Template = DefaultDashboardTpl
	}
	if c.Telemetry.Enabled && c.Telemetry.User == "" {
		return errors.New("telemetry requires a user")
	}

	if c.Storage.Path == "" || c.GeoLocation.File == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if c.Storage.Path == "" {
			c.Storage.Path = filepath.Join(dir, DefaultStorageFile)
		}
		if c.GeoLocation.File == "" {
			c.GeoLocation.File = filepath.Join(dir, DefaultGeolocationFile)
		}
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
