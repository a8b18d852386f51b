package testsupport

import (
	"context"
	"testing"

	"essendeejay/internal/config"
	"essendeejay/internal/logging"
	"essendeejay/internal/resultcache"
)

// MustOpenStore opens a resultcache.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *resultcache.Store {
	t.Helper()

	store, err := resultcache.Open(context.Background(), cfg.MetricCachePath(), logging.NewNop())
	if err != nil {
		t.Fatalf("resultcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
