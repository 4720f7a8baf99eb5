// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the weather-dashboard command line client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `Usage: weather-dashboard [-config file] <command> [arguments]

Commands:
  login <apikey>                       store the OpenWeatherMap API key
  logout                               remove the stored API key
  search <query>                       list matching locations
  show [selection] [-json]             show the weather dashboard once
  watch [selection]                    show the dashboard and refresh it periodically
  favorites                            list saved locations
  favorites add <query> [-pick n]      save a location
  favorites remove <n>                 remove a saved location
  history [-limit n]                   list recorded lookups

Selection:
  -search <query> [-pick n]            location by name (n is 1-based, default 1)
  -lat <lat> -lon <lon>                location by coordinates
  -favorite <n>                        saved location (1-based)
  -here                                device location (default)
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Environment overrides from .env files are optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to load .env file", logger.Err(err))
	}

	confPath := flag.String("config", "", "path to the config file")
	flag.Usage = func() { _, _ = fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(conf.LogLevel)
	log.Debug("starting weather-dashboard", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))

	app, err := newApp(conf, log, os.Stdout)
	if err != nil {
		log.Error("failed to initialize weather-dashboard", logger.Err(err))
		os.Exit(1)
	}
	err = app.run(ctx, flag.Args())
	app.close()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New()
	}
	return config.NewFromFile(filepath.Dir(path), filepath.Base(path))
}

func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
	switch {
	case errors.Is(err, errNotOnboarded), errors.Is(err, weather.ErrAuth):
		_, _ = fmt.Fprintln(os.Stderr, `Please store a valid OpenWeatherMap API key with "weather-dashboard login <apikey>".`)
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprint(os.Stderr, usage)
	}
}
