// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package telemetry records completed weather lookups to optional remote or local logs.
// Recording is best effort: failures are logged and never returned to the caller.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const sendTimeout = time.Second * 5

// Entry is a single recorded weather lookup.
type Entry struct {
	ID          string              `json:"id"`
	User        string              `json:"user"`
	Location    string              `json:"location"`
	Country     string              `json:"country"`
	Coordinates weather.Coordinates `json:"coordinates"`
	Temperature float64             `json:"temperature"`
	Condition   string              `json:"condition"`
	RecordedAt  time.Time           `json:"recorded_at"`
}

// EntryFromConditions builds an entry from the current conditions of a lookup.
func EntryFromConditions(current weather.CurrentConditions) Entry {
	return Entry{
		Location:    current.Name,
		Country:     current.Country,
		Coordinates: current.Coordinates,
		Temperature: current.Temperature,
		Condition:   current.Condition.Description,
	}
}

// Sink persists entries.
type Sink interface {
	Send(ctx context.Context, entry Entry) error
}

// Recorder fans entries out to its sinks. It only records when a user is configured.
type Recorder struct {
	logger *logger.Logger
	user   string
	sinks  []Sink
	now    func() time.Time
}

// New returns a Recorder for the given user. With an empty user or no sinks, Record is a
// no-op.
func New(log *logger.Logger, user string, sinks ...Sink) *Recorder {
	return &Recorder{
		logger: log,
		user:   user,
		sinks:  sinks,
		now:    time.Now,
	}
}

// Enabled reports whether entries are recorded at all.
func (r *Recorder) Enabled() bool {
	return r != nil && r.user != "" && len(r.sinks) > 0
}

// Record stamps the entry with an ID, the user and the current time and sends it to all
// sinks. It blocks until every sink returned or timed out.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if !r.Enabled() {
		return
	}
	entry.ID = uuid.NewString()
	entry.User = r.user
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = r.now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()
	for _, sink := range r.sinks {
		if err := sink.Send(ctx, entry); err != nil {
			r.logger.Warn("failed to record weather lookup", logger.Err(err),
				slog.String("location", entry.Location))
		}
	}
}
