package testsupport

import (
	"context"
	"testing"

	"keyprobe/internal/config"
	"keyprobe/internal/fingerprint"
	"keyprobe/internal/registry"
)

// MustOpenRegistry opens the config's fingerprint registry and registers cleanup.
func MustOpenRegistry(t testing.TB, cfg *config.Config) *registry.Store {
	t.Helper()

	store, err := registry.Open(context.Background(), cfg.Paths.RegistryPath)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordText fingerprints text with the config's generator settings and stores it.
func RecordText(t testing.TB, cfg *config.Config, store *registry.Store, text string) registry.Entry {
	t.Helper()

	gen, err := fingerprint.NewGenerator(cfg.Fingerprint.Algorithm, fingerprint.Form(cfg.Fingerprint.Form))
	if err != nil {
		t.Fatalf("fingerprint.NewGenerator: %v", err)
	}
	entry, _, err := store.Record(context.Background(), gen.Report(text))
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
