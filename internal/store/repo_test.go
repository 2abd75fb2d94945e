package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/rlowrie/cairn/internal/apperr"
	"github.com/rlowrie/cairn/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTempDB(t *testing.T) (string, error) {
	t.Helper()
	f, err := os.CreateTemp("", "cairn-test-*.db")
	if err != nil {
		return "", err
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name(), nil
}

func testSQLite(t *testing.T) Backend {
	t.Helper()
	path, err := createTempDB(t)
	if err != nil {
		t.Fatal(err)
	}

	b, err := OpenSQLite(path, TunedDSN)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func testFallback(t *testing.T) Backend {
	t.Helper()
	b := NewFallback(NewMemKV())
	t.Cleanup(func() { b.Close() })
	return b
}

// eachBackend runs fn once per backend so every repository property is
// verified to behave identically on both.
func eachBackend(t *testing.T, fn func(t *testing.T, repo *Hikes)) {
	t.Helper()
	for name, mk := range map[string]func(*testing.T) Backend{
		"sqlite":   testSQLite,
		"fallback": testFallback,
	} {
		t.Run(name, func(t *testing.T) {
			repo := NewHikes(NewExecutor(mk(t), discardLogger()))
			if err := repo.Initialize(context.Background()); err != nil {
				t.Fatalf("Initialize: %v", err)
			}
			fn(t, repo)
		})
	}
}

func sampleHike(id, date string) models.Hike {
	return models.Hike{
		ID:         id,
		Name:       "Hike " + id,
		Location:   "Lake District",
		Date:       date,
		Parking:    "Yes",
		Length:     "12.0",
		Difficulty: models.DifficultyMedium,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		in := models.Hike{
			ID: "rt-1", Name: "Helvellyn", Location: "Lake District",
			Date: "2024-06-10", Parking: "No", Length: "14.5",
			Difficulty: models.DifficultyHard, Description: "Striding Edge",
			Weather: "Clear", Rating: "5", Companions: "Sam",
		}
		created, err := repo.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.CreatedAt == "" {
			t.Fatal("CreatedAt not assigned")
		}

		got, err := repo.GetByID(ctx, "rt-1")
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got == nil {
			t.Fatal("hike not found after create")
		}
		if *got != created {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, created)
		}
	})
}

func TestListAllOrdering(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		// Insert out of date order; listing must come back newest first.
		for _, h := range []models.Hike{
			sampleHike("b", "2024-02-01"),
			sampleHike("c", "2024-03-01"),
			sampleHike("a", "2024-01-01"),
		} {
			if _, err := repo.Create(ctx, h); err != nil {
				t.Fatalf("Create %s: %v", h.ID, err)
			}
		}

		list, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll: %v", err)
		}
		var ids []string
		for _, h := range list {
			ids = append(ids, h.ID)
		}
		want := []string{"c", "b", "a"}
		if len(ids) != 3 || ids[0] != want[0] || ids[1] != want[1] || ids[2] != want[2] {
			t.Errorf("order = %v, want %v", ids, want)
		}
	})
}

func TestListAllStableTieBreak(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		for _, id := range []string{"first", "second", "third"} {
			if _, err := repo.Create(ctx, sampleHike(id, "2024-05-01")); err != nil {
				t.Fatalf("Create %s: %v", id, err)
			}
		}
		list, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll: %v", err)
		}
		if list[0].ID != "first" || list[1].ID != "second" || list[2].ID != "third" {
			t.Errorf("equal dates should keep insertion order, got %s %s %s",
				list[0].ID, list[1].ID, list[2].ID)
		}
	})
}

func TestInitializeIdempotent(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		if _, err := repo.Create(ctx, sampleHike("keep", "2024-04-04")); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := repo.Initialize(ctx); err != nil {
			t.Fatalf("second Initialize: %v", err)
		}
		list, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("records after re-initialize = %d, want 1", len(list))
		}
	})
}

func TestDuplicateIDRejected(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		if _, err := repo.Create(ctx, sampleHike("dup", "2024-01-01")); err != nil {
			t.Fatalf("first Create: %v", err)
		}
		_, err := repo.Create(ctx, sampleHike("dup", "2024-02-02"))
		if !errors.Is(err, apperr.ErrDuplicateID) {
			t.Errorf("duplicate insert error = %v, want ErrDuplicateID", err)
		}
	})
}

func TestUpdateIsolationAndImmutableCreatedAt(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		a, _ := repo.Create(ctx, sampleHike("a", "2024-01-01"))
		b, _ := repo.Create(ctx, sampleHike("b", "2024-02-02"))

		changed := a
		changed.Name = "Renamed"
		changed.Rating = "4"
		changed.CreatedAt = "2099-01-01T00:00:00Z" // must be ignored
		if err := repo.Update(ctx, changed); err != nil {
			t.Fatalf("Update: %v", err)
		}

		gotA, _ := repo.GetByID(ctx, "a")
		if gotA.Name != "Renamed" || gotA.Rating != "4" {
			t.Errorf("update not applied: %+v", gotA)
		}
		if gotA.CreatedAt != a.CreatedAt {
			t.Errorf("createdAt mutated: %q, want %q", gotA.CreatedAt, a.CreatedAt)
		}

		gotB, _ := repo.GetByID(ctx, "b")
		if *gotB != b {
			t.Errorf("update leaked into other record:\n got %+v\nwant %+v", *gotB, b)
		}
	})
}

func TestUpdateAbsentIsNoOp(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		if err := repo.Update(ctx, sampleHike("ghost", "2024-01-01")); err != nil {
			t.Fatalf("updating absent id should not error: %v", err)
		}
		list, _ := repo.ListAll(ctx)
		if len(list) != 0 {
			t.Errorf("update of absent id created a record")
		}
	})
}

func TestDeleteSemantics(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		repo.Create(ctx, sampleHike("x", "2024-01-01"))
		repo.Create(ctx, sampleHike("y", "2024-02-02"))

		// Absent id is a no-op, not an error.
		if err := repo.DeleteByID(ctx, "nope"); err != nil {
			t.Fatalf("delete absent: %v", err)
		}
		list, _ := repo.ListAll(ctx)
		if len(list) != 2 {
			t.Fatalf("collection changed by absent delete")
		}

		if err := repo.DeleteByID(ctx, "x"); err != nil {
			t.Fatalf("DeleteByID: %v", err)
		}
		got, _ := repo.GetByID(ctx, "x")
		if got != nil {
			t.Error("deleted record still present")
		}

		if err := repo.DeleteAll(ctx); err != nil {
			t.Fatalf("DeleteAll: %v", err)
		}
		list, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll after DeleteAll: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("records after DeleteAll = %d, want 0", len(list))
		}
	})
}

func TestResetEmptiesLog(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		repo.Create(ctx, sampleHike("r1", "2024-01-01"))
		repo.Create(ctx, sampleHike("r2", "2024-02-02"))

		if err := repo.Reset(ctx); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		list, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll after reset: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("records after reset = %d, want 0", len(list))
		}
		// The collection is usable again.
		if _, err := repo.Create(ctx, sampleHike("r3", "2024-03-03")); err != nil {
			t.Fatalf("Create after reset: %v", err)
		}
	})
}

func TestCreateDefaultsOptionalFields(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		_, err := repo.Create(ctx, sampleHike("min", "2024-07-07"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, _ := repo.GetByID(ctx, "min")
		if got.Description != "" || got.Weather != "" || got.Rating != "" || got.Companions != "" {
			t.Errorf("optional fields not stored as empty strings: %+v", got)
		}
	})
}

func TestStats(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		n, err := repo.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats: %v", err)
		}
		if n != 0 {
			t.Fatalf("empty log stats = %d, want 0", n)
		}
		repo.Create(ctx, sampleHike("s1", "2024-01-01"))
		repo.Create(ctx, sampleHike("s2", "2024-02-02"))
		n, _ = repo.Stats(ctx)
		if n != 2 {
			t.Errorf("stats = %d, want 2", n)
		}
	})
}

func TestGetByIDAbsentReturnsNil(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		got, err := repo.GetByID(context.Background(), "missing")
		if err != nil {
			t.Fatalf("absence must not be an error: %v", err)
		}
		if got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})
}

// The full lifecycle from the presentation layer's point of view.
func TestSnowdonScenario(t *testing.T) {
	eachBackend(t, func(t *testing.T, repo *Hikes) {
		ctx := context.Background()
		_, err := repo.Create(ctx, models.Hike{
			ID: "1", Name: "Snowdon", Location: "Wales", Date: "2024-05-01",
			Parking: "Yes", Length: "8.5", Difficulty: models.DifficultyHard,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		list, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("len = %d, want 1", len(list))
		}
		h := list[0]
		if h.CreatedAt == "" {
			t.Error("createdAt not populated")
		}
		if h.ID != "1" || h.Name != "Snowdon" || h.Location != "Wales" ||
			h.Date != "2024-05-01" || h.Parking != "Yes" || h.Length != "8.5" ||
			h.Difficulty != models.DifficultyHard {
			t.Errorf("fields not intact: %+v", h)
		}

		if err := repo.DeleteByID(ctx, "1"); err != nil {
			t.Fatalf("DeleteByID: %v", err)
		}
		list, _ = repo.ListAll(ctx)
		if len(list) != 0 {
			t.Errorf("list after delete = %d records, want 0", len(list))
		}
	})
}
