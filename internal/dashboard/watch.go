// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const refreshJobName = "weather_refresh_job"

// RefreshFunc receives the outcome of every refresh in watch mode.
type RefreshFunc func(Snapshot, error)

// Watch loads the selected location immediately and then every interval until ctx is
// cancelled. Scheduled refreshes never overlap; a refresh still running when the next one
// is due reschedules it. Superseded snapshots are not passed to fn.
func (d *Dashboard) Watch(ctx context.Context, interval time.Duration, fn RefreshFunc) error {
	if interval <= 0 {
		return fmt.Errorf("invalid refresh interval: %s", interval)
	}
	if _, ok := d.Location(); !ok {
		return ErrNoLocation
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func(ctx context.Context) { d.refresh(ctx, fn) }),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithName(refreshJobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", refreshJobName, err)
	}
	scheduler.Start()

	if d.resume {
		go d.monitorSleepResume(ctx, fn)
	}

	<-ctx.Done()
	if err = scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

// RefreshOnSignal refreshes whenever a signal is received on sigChan.
func (d *Dashboard) RefreshOnSignal(ctx context.Context, sigChan <-chan os.Signal, fn RefreshFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigChan:
			d.logger.Debug("refresh signal received")
			d.refresh(ctx, fn)
		}
	}
}

func (d *Dashboard) refresh(ctx context.Context, fn RefreshFunc) {
	snap, err := d.Load(ctx)
	if err == nil && snap.Stale {
		return
	}
	if ctx.Err() != nil {
		return
	}
	fn(snap, err)
}
