package registry_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"keyprobe/internal/fingerprint"
	"keyprobe/internal/registry"
)

func openStore(t *testing.T) *registry.Store {
	t.Helper()
	store, err := registry.Open(context.Background(), filepath.Join(t.TempDir(), "db", "fingerprints.db"))
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func report(t *testing.T, algorithm, text string) fingerprint.Report {
	t.Helper()
	gen, err := fingerprint.NewGenerator(algorithm, fingerprint.FormRaw)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return gen.Report(text)
}

func TestRecordIsIdempotent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	r := report(t, fingerprint.FNVCRC, "com.example.app")

	first, created, err := store.Record(ctx, r)
	if err != nil || !created {
		t.Fatalf("first Record: created=%v err=%v", created, err)
	}
	second, created, err := store.Record(ctx, r)
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if created {
		t.Fatal("second Record must not create a new row")
	}
	if second.ID != first.ID || second.Unique64 != r.Unique64 {
		t.Fatalf("expected existing entry, got %+v vs %+v", second, first)
	}
}

func TestRecordDetectsCollision(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	original := report(t, fingerprint.FNVCRC, "alpha")
	if _, _, err := store.Record(ctx, original); err != nil {
		t.Fatalf("Record: %v", err)
	}

	forged := original
	forged.Text = "beta"
	if _, _, err := store.Record(ctx, forged); !errors.Is(err, registry.ErrCollision) {
		t.Fatalf("expected ErrCollision, got %v", err)
	}

	entries, err := store.List(ctx, fingerprint.FNVCRC)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "alpha" {
		t.Fatalf("collision must not be stored, got %+v", entries)
	}
}

func TestRecordDetectsFormConflict(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	text := "cafe\u0301"

	raw := report(t, fingerprint.FNVCRC, text)
	if _, _, err := store.Record(ctx, raw); err != nil {
		t.Fatalf("Record raw: %v", err)
	}
	nfcGen, err := fingerprint.NewGenerator(fingerprint.FNVCRC, fingerprint.FormNFC)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, _, err := store.Record(ctx, nfcGen.Report(text)); !errors.Is(err, registry.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAlgorithmsAreSeparateNamespaces(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for _, alg := range []string{fingerprint.FNVCRC, fingerprint.XXH64} {
		if _, created, err := store.Record(ctx, report(t, alg, "shared")); err != nil || !created {
			t.Fatalf("Record %s: created=%v err=%v", alg, created, err)
		}
	}
	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries across algorithms, got %d", len(all))
	}
}

func TestLookupRoundTripsHighBitValues(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	r := report(t, fingerprint.FNVCRC, "")
	r.Text = "synthetic"
	r.Primary = 0xFFFFFFFF
	r.Secondary = 0x80000001
	r.Unique64 = fingerprint.Fingerprint{Primary: r.Primary, Secondary: r.Secondary}.Unique64()
	if _, _, err := store.Record(ctx, r); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Lookup(ctx, fingerprint.FNVCRC, 0xFFFFFFFF80000001)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Text != "synthetic" || got.Primary != 0xFFFFFFFF || got.Secondary != 0x80000001 {
		t.Fatalf("unexpected entry %+v", got)
	}
	if got.Fingerprint().Unique64() != got.Unique64 {
		t.Fatalf("stored halves disagree with unique64: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be parsed")
	}

	if _, err := store.Lookup(ctx, fingerprint.XXH64, 0xFFFFFFFF80000001); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound in other namespace, got %v", err)
	}
}

func TestListPreservesInsertionOrderAndRemove(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	texts := []string{"zeta", "alpha", "mid"}
	for _, text := range texts {
		if _, _, err := store.Record(ctx, report(t, fingerprint.XXH64, text)); err != nil {
			t.Fatalf("Record %s: %v", text, err)
		}
	}

	entries, err := store.List(ctx, fingerprint.XXH64)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, text := range texts {
		if entries[i].Text != text {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].Text, text)
		}
	}

	removed, err := store.Remove(ctx, fingerprint.XXH64, "alpha")
	if err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	removed, err = store.Remove(ctx, fingerprint.XXH64, "alpha")
	if err != nil || removed {
		t.Fatalf("second Remove: removed=%v err=%v", removed, err)
	}
	entries, err = store.List(ctx, fingerprint.XXH64)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Text != "zeta" || entries[1].Text != "mid" {
		t.Fatalf("unexpected entries after remove: %+v", entries)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fingerprints.db")
	ctx := context.Background()

	store, err := registry.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := store.Record(ctx, report(t, fingerprint.FNVCRC, "persisted")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = registry.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	entries, err := store.List(ctx, "")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected persisted entry, got %v %v", entries, err)
	}
	if store.Path() != path {
		t.Fatalf("unexpected path %q", store.Path())
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE schema_version (version INTEGER NOT NULL); INSERT INTO schema_version VALUES (99);"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = db.Close()

	if _, err := registry.Open(context.Background(), path); !errors.Is(err, registry.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
