// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geolocate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

const fileSourceName = "geolocation_file"

// ErrNoCoordinates is returned when the geolocation file holds no usable coordinate line.
var ErrNoCoordinates = errors.New("no valid coordinates found in geolocation file")

// FileSource reads a fixed location from a file. The first line of the form "lat,lon" is
// used, empty lines and lines starting with "#" are ignored.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return fileSourceName
}

func (s *FileSource) Locate(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to read geolocation file %q: %w", s.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		coords := strings.Split(line, ",")
		if len(coords) != 2 {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			continue
		}
		return Fix{
			Coordinates:    weather.Coordinates{Lat: lat, Lon: lon},
			AccuracyMeters: AccuracyFile,
			Source:         fileSourceName,
		}, nil
	}
	return Fix{}, ErrNoCoordinates
}
