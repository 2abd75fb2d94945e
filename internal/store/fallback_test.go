package store

import (
	"context"
	"testing"
)

func TestFallbackMalformedBlobTreatedAsEmpty(t *testing.T) {
	kv := NewMemKV()
	if err := kv.Put(hikesKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	f := NewFallback(kv)

	rows, err := f.Exec(context.Background(), SelectAll())
	if err != nil {
		t.Fatalf("SelectAll over malformed blob: %v", err)
	}
	if len(rows.Hikes) != 0 {
		t.Errorf("got %d records, want 0", len(rows.Hikes))
	}

	rows, err = f.Exec(context.Background(), Count())
	if err != nil {
		t.Fatalf("Count over malformed blob: %v", err)
	}
	if rows.Count != 0 {
		t.Errorf("count = %d, want 0", rows.Count)
	}
}

func TestFallbackCreateSchemaKeepsExistingList(t *testing.T) {
	f := NewFallback(NewMemKV())
	ctx := context.Background()

	if _, err := f.Exec(ctx, CreateSchema()); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	if _, err := f.Exec(ctx, Insert(sampleHike("keep", "2024-01-01"))); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := f.Exec(ctx, CreateSchema()); err != nil {
		t.Fatalf("second CreateSchema: %v", err)
	}

	rows, _ := f.Exec(ctx, SelectAll())
	if len(rows.Hikes) != 1 {
		t.Errorf("records after repeated CreateSchema = %d, want 1", len(rows.Hikes))
	}
}

func TestFallbackDropSchemaClearsList(t *testing.T) {
	kv := NewMemKV()
	f := NewFallback(kv)
	ctx := context.Background()

	f.Exec(ctx, CreateSchema())
	f.Exec(ctx, Insert(sampleHike("gone", "2024-01-01")))

	if _, err := f.Exec(ctx, DropSchema()); err != nil {
		t.Fatalf("DropSchema: %v", err)
	}
	if _, ok, _ := kv.Get(hikesKey); ok {
		t.Error("durable slot still present after drop")
	}
	rows, err := f.Exec(ctx, SelectAll())
	if err != nil {
		t.Fatalf("SelectAll after drop: %v", err)
	}
	if len(rows.Hikes) != 0 {
		t.Errorf("records after drop = %d, want 0", len(rows.Hikes))
	}
}

func TestFallbackEveryMutationWritesThrough(t *testing.T) {
	kv := NewMemKV()
	f := NewFallback(kv)
	ctx := context.Background()

	f.Exec(ctx, Insert(sampleHike("w", "2024-01-01")))

	// A second adapter over the same medium sees the write immediately:
	// reads always re-deserialize, there is no cache.
	g := NewFallback(kv)
	rows, err := g.Exec(ctx, SelectByID("w"))
	if err != nil {
		t.Fatalf("SelectByID: %v", err)
	}
	if len(rows.Hikes) != 1 {
		t.Fatalf("second adapter sees %d records, want 1", len(rows.Hikes))
	}
}

func TestFallbackReturnsCopies(t *testing.T) {
	f := NewFallback(NewMemKV())
	ctx := context.Background()
	f.Exec(ctx, Insert(sampleHike("c", "2024-01-01")))

	rows, _ := f.Exec(ctx, SelectAll())
	rows.Hikes[0].Name = "mutated by caller"

	rows, _ = f.Exec(ctx, SelectAll())
	if rows.Hikes[0].Name != "Hike c" {
		t.Errorf("caller mutation leaked into store: %q", rows.Hikes[0].Name)
	}
}

func TestBadgerKVRoundTrip(t *testing.T) {
	dir := t.TempDir()

	kv, err := OpenBadger(dir, discardLogger())
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	f := NewFallback(kv)
	ctx := context.Background()

	if _, err := f.Exec(ctx, Insert(sampleHike("durable", "2024-08-08"))); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen the same directory: the record must have survived.
	kv, err = OpenBadger(dir, discardLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	f = NewFallback(kv)

	rows, err := f.Exec(ctx, SelectByID("durable"))
	if err != nil {
		t.Fatalf("SelectByID: %v", err)
	}
	if len(rows.Hikes) != 1 || rows.Hikes[0].ID != "durable" {
		t.Errorf("record lost across reopen: %+v", rows.Hikes)
	}
}

func TestBadgerKVGetMissing(t *testing.T) {
	kv, err := OpenBadger(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer kv.Close()

	_, ok, err := kv.Get("never-written")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("missing key reported present")
	}
}

func TestFallbackUnknownOp(t *testing.T) {
	f := NewFallback(NewMemKV())
	if _, err := f.Exec(context.Background(), Op{Kind: Kind(99)}); err == nil {
		t.Error("unknown op should error")
	}
}

func TestFallbackSelectByIDCardinality(t *testing.T) {
	f := NewFallback(NewMemKV())
	ctx := context.Background()
	f.Exec(ctx, Insert(sampleHike("one", "2024-01-01")))
	f.Exec(ctx, Insert(sampleHike("two", "2024-02-02")))

	rows, _ := f.Exec(ctx, SelectByID("two"))
	if len(rows.Hikes) != 1 || rows.Hikes[0].ID != "two" {
		t.Errorf("select-by-id = %+v", rows.Hikes)
	}
	rows, _ = f.Exec(ctx, SelectByID("three"))
	if len(rows.Hikes) != 0 {
		t.Errorf("absent id returned %d records", len(rows.Hikes))
	}
}
