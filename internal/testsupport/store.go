package testsupport

import (
	"testing"

	"relane/internal/config"
	"relane/internal/trace"
)

// MustOpenStore opens a trace.Store under the config's trace directory and
// registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *trace.Store {
	t.Helper()

	store, err := trace.Open(cfg.Trace.Dir)
	if err != nil {
		t.Fatalf("trace.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
