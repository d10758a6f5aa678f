package testsupport

import (
	"testing"

	"clipsync/internal/config"
	"clipsync/internal/history"
)

// MustOpenHistory opens the run history database for cfg and closes it when
// the test ends.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
