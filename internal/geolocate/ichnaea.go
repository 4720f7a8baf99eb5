// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geolocate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mdlayher/wifi"

	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	ichnaeaSourceName = "ichnaea"

	// IchnaeaEndpoint is the Ichnaea compatible geolocation API (BeaconDB).
	IchnaeaEndpoint = "https://api.beacondb.net/v1/geolocate"
	ichnaeaTimeout  = time.Second * 5
)

// AccessPoint is a Wi-Fi network as submitted to the Ichnaea API.
type AccessPoint struct {
	LastSeen       int64  `json:"age"`
	MACAddress     string `json:"macAddress"`
	SignalStrength int32  `json:"signalStrength"`
}

// AccessPointScanner lists the currently visible Wi-Fi access points.
type AccessPointScanner interface {
	AccessPoints() ([]AccessPoint, error)
}

// IchnaeaSource locates the device with an Ichnaea compatible API from visible Wi-Fi
// networks and the public IP address.
type IchnaeaSource struct {
	http     *http.Client
	scanner  AccessPointScanner
	endpoint string
}

type ichnaeaRequest struct {
	ConsiderIP   bool          `json:"considerIp"`
	AccessPoints []AccessPoint `json:"wifiAccessPoints,omitempty"`
}

type ichnaeaResult struct {
	Location struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

// NewIchnaeaSource returns a new source. scanner may be nil, in which case only the IP
// address is considered.
func NewIchnaeaSource(client *http.Client, scanner AccessPointScanner) *IchnaeaSource {
	return &IchnaeaSource{http: client, scanner: scanner, endpoint: IchnaeaEndpoint}
}

func (s *IchnaeaSource) Name() string {
	return ichnaeaSourceName
}

func (s *IchnaeaSource) Locate(ctx context.Context) (Fix, error) {
	req := ichnaeaRequest{ConsiderIP: true}
	if s.scanner != nil {
		aps, err := s.scanner.AccessPoints()
		if err == nil {
			req.AccessPoints = aps
		}
	}

	body := bytes.NewBuffer(nil)
	if err := json.NewEncoder(body).Encode(req); err != nil {
		return Fix{}, fmt.Errorf("failed to encode wifi list to JSON: %w", err)
	}

	result := new(ichnaeaResult)
	if _, err := s.http.PostWithTimeout(ctx, s.endpoint, result, body,
		map[string]string{"Content-Type": "application/json"}, ichnaeaTimeout); err != nil {
		return Fix{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}

	return Fix{
		Coordinates: weather.Coordinates{
			Lat: Truncate(result.Location.Latitude, TruncPrecision),
			Lon: Truncate(result.Location.Longitude, TruncPrecision),
		},
		AccuracyMeters: Truncate(result.Accuracy, TruncPrecision),
		Source:         ichnaeaSourceName,
	}, nil
}

// WifiScanner lists access points of all Wi-Fi station interfaces via nl80211.
type WifiScanner struct {
	client *wifi.Client
}

// NewWifiScanner returns a scanner. It fails on systems without nl80211 support.
func NewWifiScanner() (*WifiScanner, error) {
	client, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create wifi client: %w", err)
	}
	return &WifiScanner{client: client}, nil
}

// AccessPoints returns the visible networks. Hidden networks and networks that opted out
// of location services with the "_nomap" suffix are skipped.
func (w *WifiScanner) AccessPoints() ([]AccessPoint, error) {
	ifaces, err := w.client.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var list []AccessPoint
	for _, iface := range ifaces {
		if iface.Type != wifi.InterfaceTypeStation {
			continue
		}
		aps, err := w.client.AccessPoints(iface)
		if err != nil {
			continue
		}
		for _, ap := range aps {
			if ap.SSID == "" || ap.SSID[0] == '\x00' || strings.HasSuffix(ap.SSID, "_nomap") {
				continue
			}
			list = append(list, AccessPoint{
				SignalStrength: ap.Signal / 100,
				MACAddress:     ap.BSSID.String(),
				LastSeen:       ap.LastSeen.Milliseconds(),
			})
		}
	}
	return list, nil
}

// Close releases the nl80211 connection.
func (w *WifiScanner) Close() error {
	return w.client.Close()
}
