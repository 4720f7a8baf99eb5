// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/weather-dashboard/internal/logger"
)

const (
	dbusInterface   = "org.freedesktop.login1.Manager"
	dbusWatchMember = "PrepareForSleep"

	debounceWindow   = 2 // seconds
	signalBufferSize = 8

	busReconnectDelay   = 5 * time.Second
	reconnectDelay      = 2 * time.Second
	subscribeRetryDelay = 10 * time.Second
)

// networkWakeupDelay gives the network time to come back after a resume.
var networkWakeupDelay = 10 * time.Second

// monitorSleepResume refreshes the dashboard whenever logind reports a resume from sleep.
// It reconnects to the system bus until ctx is cancelled.
func (d *Dashboard) monitorSleepResume(ctx context.Context, fn RefreshFunc) {
	var lastResume atomic.Int64

	for {
		conn := d.connectToSystemBus(ctx)
		if conn == nil {
			return
		}
		if !d.subscribeSleepSignal(ctx, conn) {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		sigCh := make(chan *dbus.Signal, signalBufferSize)
		conn.Signal(sigCh)
		d.logger.Debug("subscribed to dbus signal", slog.String("interface", dbusInterface),
			slog.String("member", dbusWatchMember))

		d.handleSleepSignals(ctx, sigCh, &lastResume, fn)

		conn.RemoveSignal(sigCh)
		if err := conn.Close(); err != nil {
			d.logger.Debug("failed to close system bus connection", logger.Err(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (d *Dashboard) connectToSystemBus(ctx context.Context) *dbus.Conn {
	for {
		conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
		if err == nil {
			return conn
		}
		d.logger.Debug("failed to connect to system bus", logger.Err(err))
		select {
		case <-time.After(busReconnectDelay):
		case <-ctx.Done():
			return nil
		}
	}
}

func (d *Dashboard) subscribeSleepSignal(ctx context.Context, conn *dbus.Conn) bool {
	err := conn.AddMatchSignalContext(ctx, dbus.WithMatchInterface(dbusInterface),
		dbus.WithMatchMember(dbusWatchMember))
	if err == nil {
		return true
	}

	d.logger.Error("failed to subscribe to dbus signal", slog.String("interface", dbusInterface),
		slog.String("member", dbusWatchMember), logger.Err(err))
	if err = conn.Close(); err != nil {
		d.logger.Debug("failed to close system bus connection", logger.Err(err))
	}
	select {
	case <-time.After(subscribeRetryDelay):
	case <-ctx.Done():
	}
	return false
}

func (d *Dashboard) handleSleepSignals(ctx context.Context, sigCh <-chan *dbus.Signal, lastResume *atomic.Int64,
	fn RefreshFunc,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case sgn, ok := <-sigCh:
			if !ok {
				return
			}
			if isResumeSignal(sgn) {
				d.handleResume(ctx, lastResume, fn)
			}
		}
	}
}

// isResumeSignal reports whether sgn is a PrepareForSleep(false) signal.
func isResumeSignal(sgn *dbus.Signal) bool {
	if sgn == nil || len(sgn.Body) != 1 {
		return false
	}
	sleeping, ok := sgn.Body[0].(bool)
	return ok && !sleeping
}

func (d *Dashboard) handleResume(ctx context.Context, lastResume *atomic.Int64, fn RefreshFunc) {
	now := d.now().Unix()
	if now-lastResume.Load() < debounceWindow {
		return
	}
	lastResume.Store(now)

	select {
	case <-time.After(networkWakeupDelay):
	case <-ctx.Done():
		return
	}
	d.logger.Debug("resumed from sleep, refreshing weather data")
	d.refresh(ctx, fn)
}
