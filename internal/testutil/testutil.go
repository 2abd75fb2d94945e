// Package testutil provides shared test helpers for setting up storage
// backends and hike services.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/rlowrie/cairn/internal/hikeservice"
	"github.com/rlowrie/cairn/internal/store"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SQLiteBackend creates a temporary SQLite-backed store backend that is
// automatically cleaned up.
func SQLiteBackend(t *testing.T) store.Backend {
	t.Helper()
	f, err := os.CreateTemp("", "cairn-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	b, err := store.OpenSQLite(f.Name(), store.TunedDSN)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// FallbackBackend creates a fallback store over an in-memory medium.
func FallbackBackend(t *testing.T) store.Backend {
	t.Helper()
	b := store.NewFallback(store.NewMemKV())
	t.Cleanup(func() { b.Close() })
	return b
}

// Repo builds an initialized hike repository on the given backend.
func Repo(t *testing.T, b store.Backend) *store.Hikes {
	t.Helper()
	exec := store.NewExecutor(b, DiscardLogger())
	repo := store.NewHikes(exec)
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return repo
}

// Service builds a hike service on a temporary SQLite backend.
func Service(t *testing.T, cb hikeservice.EventCallback) *hikeservice.Service {
	t.Helper()
	return hikeservice.NewService(Repo(t, SQLiteBackend(t)), cb)
}
