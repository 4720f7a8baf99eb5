// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "dashboard.db"))
	if err != nil {
		t.Fatalf("failed to open SQLite store: %s", err)
	}
	t.Cleanup(func() {
		if err := sqlite.Close(); err != nil {
			t.Errorf("failed to close SQLite store: %s", err)
		}
	})
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestStore(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("getting a missing key reports absence", func(t *testing.T) {
				_, ok, err := store.Get(t.Context(), "missing")
				if err != nil {
					t.Fatalf("failed to get value: %s", err)
				}
				if ok {
					t.Error("expected key to be absent")
				}
			})
			t.Run("set values can be read back and overwritten", func(t *testing.T) {
				if err := store.Set(t.Context(), "key", "first"); err != nil {
					t.Fatalf("failed to set value: %s", err)
				}
				if err := store.Set(t.Context(), "key", "second"); err != nil {
					t.Fatalf("failed to set value: %s", err)
				}
				val, ok, err := store.Get(t.Context(), "key")
				if err != nil {
					t.Fatalf("failed to get value: %s", err)
				}
				if !ok || val != "second" {
					t.Errorf("expected value %q, got %q (present: %t)", "second", val, ok)
				}
			})
			t.Run("removed keys are absent", func(t *testing.T) {
				if err := store.Set(t.Context(), "gone", "value"); err != nil {
					t.Fatalf("failed to set value: %s", err)
				}
				if err := store.Remove(t.Context(), "gone"); err != nil {
					t.Fatalf("failed to remove value: %s", err)
				}
				if _, ok, _ := store.Get(t.Context(), "gone"); ok {
					t.Error("expected key to be absent after removal")
				}
				if err := store.Remove(t.Context(), "never-set"); err != nil {
					t.Errorf("expected removing a missing key to succeed, got %s", err)
				}
			})
			t.Run("a canceled context fails with a storage error", func(t *testing.T) {
				ctx, cancel := context.WithCancel(t.Context())
				cancel()
				_, _, err := store.Get(ctx, "key")
				if !errors.Is(err, ErrStorage) {
					t.Errorf("expected error to be %s, got %v", ErrStorage, err)
				}
			})
		})
	}
}

func TestSQLite_persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.db")
	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("failed to open SQLite store: %s", err)
	}
	if err = store.Set(t.Context(), KeyAPIKey, "abc"); err != nil {
		t.Fatalf("failed to set value: %s", err)
	}
	if err = store.Close(); err != nil {
		t.Fatalf("failed to close store: %s", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("failed to reopen SQLite store: %s", err)
	}
	defer func() { _ = reopened.Close() }()
	val, ok, err := reopened.Get(t.Context(), KeyAPIKey)
	if err != nil {
		t.Fatalf("failed to get value: %s", err)
	}
	if !ok || val != "abc" {
		t.Errorf("expected persisted value %q, got %q", "abc", val)
	}
}

func TestSQLite_closedDatabase(t *testing.T) {
	store, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open SQLite store: %s", err)
	}
	_ = store.DB().Close()
	if err = store.Set(t.Context(), "key", "value"); !errors.Is(err, ErrStorage) {
		t.Errorf("expected error to be %s, got %v", ErrStorage, err)
	}
}
