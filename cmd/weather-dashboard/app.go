// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/dashboard"
	"github.com/wneessen/weather-dashboard/internal/geocode"
	"github.com/wneessen/weather-dashboard/internal/geolocate"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/i18n"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/presenter"
	"github.com/wneessen/weather-dashboard/internal/storage"
	"github.com/wneessen/weather-dashboard/internal/telemetry"
	"github.com/wneessen/weather-dashboard/internal/weather"
	"github.com/wneessen/weather-dashboard/internal/weather/provider/openweathermap"
)

const defaultHistoryLimit = 20

var (
	errNotOnboarded = errors.New("no OpenWeatherMap API key configured")
	errUsage        = errors.New("invalid usage")
)

type app struct {
	conf      *config.Config
	log       *logger.Logger
	out       io.Writer
	http      *http.Client
	localizer *spreak.Localizer
	store     storage.Store
	creds     *storage.Credentials
	favorites *storage.Favorites
	history   *telemetry.HistorySink
	locator   *geolocate.Locator
	closers   []io.Closer
}

// newApp opens the storage database and sets up the geolocation sources from conf.
func newApp(conf *config.Config, log *logger.Logger, out io.Writer) (*app, error) {
	localizer, err := i18n.New(conf.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize localizer: %w", err)
	}
	db, err := storage.NewSQLite(conf.Storage.Path)
	if err != nil {
		return nil, err
	}

	a := &app{
		conf:      conf,
		log:       log,
		out:       out,
		http:      http.New(log),
		localizer: localizer,
		store:     db,
		creds:     storage.NewCredentials(db),
		favorites: storage.NewFavorites(db),
		closers:   []io.Closer{db},
	}
	if !conf.Telemetry.DisableHistory {
		if a.history, err = telemetry.NewHistorySink(db.DB()); err != nil {
			a.close()
			return nil, err
		}
	}
	a.locator = geolocate.New(log, a.locationSources()...)
	return a, nil
}

func (a *app) locationSources() []geolocate.Source {
	geo := a.conf.GeoLocation
	var sources []geolocate.Source
	if !geo.DisableGeolocationFile {
		sources = append(sources, geolocate.NewFileSource(geo.File))
	}
	if !geo.DisableGPSD {
		sources = append(sources, geolocate.NewGPSDSource(geo.GPSDAddress))
	}
	if !geo.DisableICHNAEA {
		scanner, err := geolocate.NewWifiScanner()
		if err != nil {
			a.log.Debug("wifi scanning unavailable, skipping ichnaea", logger.Err(err))
		} else {
			a.closers = append(a.closers, scanner)
			sources = append(sources, geolocate.NewIchnaeaSource(a.http, scanner))
		}
	}
	if !geo.DisableGeoIP {
		sources = append(sources, geolocate.NewGeoIPSource(a.http))
	}
	return sources
}

func (a *app) close() {
	for _, closer := range a.closers {
		if err := closer.Close(); err != nil {
			a.log.Error("failed to close resource", logger.Err(err))
		}
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	command, args := args[0], args[1:]
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "search":
		return a.search(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "watch":
		return a.watch(ctx, args)
	case "favorites":
		return a.manageFavorites(ctx, args)
	case "history":
		return a.listHistory(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

// dashboard returns a dashboard for the stored or configured API key.
func (a *app) dashboard(ctx context.Context) (*dashboard.Dashboard, error) {
	apikey := strings.TrimSpace(a.conf.APIKey)
	if apikey == "" {
		key, ok, err := a.creds.Load(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errNotOnboarded
		}
		apikey = key
	}

	owm := openweathermap.New(a.http, i18n.Tag(a.conf.Locale), apikey,
		openweathermap.WithBaseURL(a.conf.Provider.BaseURL),
		openweathermap.WithTimeout(a.conf.Provider.Timeout))
	provider := geocode.NewCachedProvider(owm, geocode.DefaultTTLHit, geocode.DefaultTTLMiss)
	geo := a.conf.GeoLocation
	opts := []dashboard.Option{
		dashboard.WithFavorites(a.favorites),
		dashboard.WithRecorder(a.recorder()),
		dashboard.WithLocator(a.locator, geolocate.Policy{
			HighAccuracy: !geo.DisableHighAccuracy,
			Timeout:      geo.Timeout,
			MaxAge:       geo.MaxAge,
		}),
	}
	if !geo.DisableResume {
		opts = append(opts, dashboard.WithResumeRefresh())
	}
	return dashboard.New(a.log, provider, opts...), nil
}

func (a *app) recorder() *telemetry.Recorder {
	tele := a.conf.Telemetry
	if !tele.Enabled {
		return nil
	}
	var sinks []telemetry.Sink
	if tele.Endpoint != "" {
		sinks = append(sinks, telemetry.NewHTTPSink(a.http, tele.Endpoint, tele.Token))
	}
	if a.history != nil {
		sinks = append(sinks, a.history)
	}
	return telemetry.New(a.log, tele.User, sinks...)
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: login requires exactly one API key", errUsage)
	}
	if err := a.creds.Save(ctx, args[0]); err != nil {
		return err
	}
	a.printf("API key saved.\n")
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.creds.Remove(ctx); err != nil {
		return err
	}
	a.printf("API key removed.\n")
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	dash, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer dash.Close()
	candidates, err := dash.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printCandidates(candidates)
	return nil
}

// selection holds the location selection flags shared by show and watch.
type selection struct {
	search   string
	pick     int
	lat, lon float64
	favorite int
	here     bool
}

func (s *selection) register(flags *flag.FlagSet) {
	flags.StringVar(&s.search, "search", "", "select a location by name")
	flags.IntVar(&s.pick, "pick", 1, "pick the n-th search result (1-based)")
	flags.Float64Var(&s.lat, "lat", 0, "latitude of the location")
	flags.Float64Var(&s.lon, "lon", 0, "longitude of the location")
	flags.IntVar(&s.favorite, "favorite", 0, "select the n-th saved location (1-based)")
	flags.BoolVar(&s.here, "here", false, "select the device location")
}

// apply selects the location on dash. Coordinates are used when either -lat or -lon was
// given explicitly.
func (s *selection) apply(ctx context.Context, dash *dashboard.Dashboard, flags *flag.FlagSet) error {
	coordsSet := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "lat" || f.Name == "lon" {
			coordsSet = true
		}
	})

	switch {
	case s.search != "":
		candidates, err := dash.Search(ctx, s.search)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no location found for %q", s.search)
		}
		_, err = dash.SelectCandidate(candidates, s.pick-1)
		return err
	case coordsSet:
		coords := weather.Coordinates{Lat: s.lat, Lon: s.lon}
		if !coords.Valid() {
			return fmt.Errorf("%w: %s", weather.ErrInvalidCoordinates, coords)
		}
		dash.Select(weather.LocationCandidate{
			Name:        fmt.Sprintf("%.2f, %.2f", coords.Lat, coords.Lon),
			Coordinates: coords,
		})
		return nil
	case s.favorite > 0:
		_, err := dash.SelectFavorite(ctx, s.favorite-1)
		return err
	default:
		_, err := dash.LocateCurrent(ctx)
		return err
	}
}

func (a *app) show(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var sel selection
	sel.register(flags)
	asJSON := flags.Bool("json", false, "print the dashboard data as JSON")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	dash, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer dash.Close()
	pres, err := presenter.New(a.conf, a.localizer)
	if err != nil {
		return err
	}
	if err = sel.apply(ctx, dash, flags); err != nil {
		return err
	}
	snap, err := dash.Load(ctx)
	if err != nil {
		return err
	}

	tplCtx := pres.BuildContext(snap)
	if *asJSON {
		encoder := json.NewEncoder(a.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tplCtx)
	}
	output, err := pres.Render(tplCtx)
	if err != nil {
		return err
	}
	a.printf("%s\n", output["dashboard"])
	return nil
}

func (a *app) watch(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var sel selection
	sel.register(flags)
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	dash, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer dash.Close()
	pres, err := presenter.New(a.conf, a.localizer)
	if err != nil {
		return err
	}
	if err = sel.apply(ctx, dash, flags); err != nil {
		return err
	}

	render := func(snap dashboard.Snapshot, err error) {
		if err != nil {
			a.log.Error("failed to refresh weather data", logger.Err(err))
			return
		}
		output, err := pres.Render(pres.BuildContext(snap))
		if err != nil {
			a.log.Error("failed to render dashboard", logger.Err(err))
			return
		}
		a.printf("\033[H\033[2J%s\n", output["dashboard"])
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)
	defer signal.Stop(sigChan)
	go dash.RefreshOnSignal(ctx, sigChan, render)

	a.log.Info("watching weather data", slog.Duration("interval", a.conf.Intervals.Refresh))
	return dash.Watch(ctx, a.conf.Intervals.Refresh, render)
}

func (a *app) manageFavorites(ctx context.Context, args []string) error {
	if len(args) == 0 {
		favorites, err := a.favorites.List(ctx)
		if err != nil {
			return err
		}
		if len(favorites) == 0 {
			a.printf("No saved locations.\n")
			return nil
		}
		a.printCandidates(favorites)
		return nil
	}

	switch args[0] {
	case "add":
		flags := flag.NewFlagSet("favorites add", flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		pick := flags.Int("pick", 1, "pick the n-th search result (1-based)")
		if err := flags.Parse(args[1:]); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		dash, err := a.dashboard(ctx)
		if err != nil {
			return err
		}
		defer dash.Close()
		candidates, err := dash.Search(ctx, strings.Join(flags.Args(), " "))
		if err != nil {
			return err
		}
		location, err := dash.SelectCandidate(candidates, *pick-1)
		if err != nil {
			return err
		}
		added, err := a.favorites.Add(ctx, location)
		if err != nil {
			return err
		}
		if !added {
			a.printf("%s is already saved.\n", location.DisplayName())
			return nil
		}
		a.printf("%s saved.\n", location.DisplayName())
		return nil
	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("%w: favorites remove requires exactly one index", errUsage)
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: invalid index %q", errUsage, args[1])
		}
		favorites, err := a.favorites.List(ctx)
		if err != nil {
			return err
		}
		if index < 1 || index > len(favorites) {
			return fmt.Errorf("%w: index %d out of range", dashboard.ErrInvalidSelection, index)
		}
		location := favorites[index-1]
		if _, err = a.favorites.Remove(ctx, location.Coordinates); err != nil {
			return err
		}
		a.printf("%s removed.\n", location.DisplayName())
		return nil
	default:
		return fmt.Errorf("%w: unknown favorites command %q", errUsage, args[0])
	}
}

func (a *app) listHistory(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("history", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	limit := flags.Int("limit", defaultHistoryLimit, "maximum number of entries")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if a.history == nil {
		return errors.New("search history is disabled")
	}

	entries, err := a.history.History(ctx, a.conf.Telemetry.User, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No recorded lookups.\n")
		return nil
	}
	writer := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, entry := range entries {
		_, _ = fmt.Fprintf(writer, "%s\t%s, %s\t%.1f°C\t%s\n", entry.RecordedAt.Local().Format("2006-01-02 15:04"),
			entry.Location, entry.Country, entry.Temperature, entry.Condition)
	}
	return writer.Flush()
}

func (a *app) printCandidates(candidates []weather.LocationCandidate) {
	writer := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for i, candidate := range candidates {
		state := candidate.State
		if state == "" {
			state = "-"
		}
		_, _ = fmt.Fprintf(writer, "%d)\t%s\t%s\t%s\n", i+1, candidate.DisplayName(), state, candidate.Coordinates)
	}
	if err := writer.Flush(); err != nil {
		a.log.Error("failed to write output", logger.Err(err))
	}
}

func (a *app) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(a.out, format, args...); err != nil {
		a.log.Error("failed to write output", logger.Err(err))
	}
}
