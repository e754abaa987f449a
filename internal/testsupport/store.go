package testsupport

import (
	"context"
	"testing"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
)

// MustOpenStore opens a catalogue store against the test config and closes
// it when the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedCinema inserts a venue so showings can reference it.
func SeedCinema(t testing.TB, store *catalog.Store, id string) *catalog.Cinema {
	t.Helper()

	cinema := &catalog.Cinema{
		ID:          id,
		Name:        id,
		City:        "London",
		ScraperType: "static",
	}
	if err := store.UpsertCinema(context.Background(), cinema); err != nil {
		t.Fatalf("seed cinema %s: %v", id, err)
	}
	return cinema
}
