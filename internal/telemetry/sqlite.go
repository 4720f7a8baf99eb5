// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const historySchema = `CREATE TABLE IF NOT EXISTS search_history (
	id          TEXT PRIMARY KEY,
	user        TEXT NOT NULL,
	location    TEXT NOT NULL,
	country     TEXT NOT NULL,
	lat         REAL NOT NULL,
	lon         REAL NOT NULL,
	temperature REAL NOT NULL,
	condition   TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);`

const historyIndex = `CREATE INDEX IF NOT EXISTS search_history_user_time ON search_history(user, recorded_at);`

// timeLayout has a fixed width so that stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// HistorySink appends entries to a search history table.
type HistorySink struct {
	db *sql.DB
}

// NewHistorySink makes sure the history table exists in db.
func NewHistorySink(db *sql.DB) (*HistorySink, error) {
	for _, stmt := range []string{historySchema, historyIndex} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create search history schema: %w", err)
		}
	}
	return &HistorySink{db: db}, nil
}

func (s *HistorySink) Send(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO search_history
		(id, user, location, country, lat, lon, temperature, condition, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.User, entry.Location, entry.Country, entry.Coordinates.Lat, entry.Coordinates.Lon,
		entry.Temperature, entry.Condition, entry.RecordedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to store search history entry: %w", err)
	}
	return nil
}

// History returns the latest entries of user, newest first.
func (s *HistorySink) History(ctx context.Context, user string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user, location, country, lat, lon, temperature,
		condition, recorded_at FROM search_history WHERE user = ? ORDER BY recorded_at DESC LIMIT ?`, user, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recorded string
		if err = rows.Scan(&entry.ID, &entry.User, &entry.Location, &entry.Country, &entry.Coordinates.Lat,
			&entry.Coordinates.Lon, &entry.Temperature, &entry.Condition, &recorded); err != nil {
			return nil, fmt.Errorf("failed to read search history entry: %w", err)
		}
		if entry.RecordedAt, err = time.Parse(timeLayout, recorded); err != nil {
			return nil, fmt.Errorf("failed to parse search history time: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}
	return entries, nil
}
