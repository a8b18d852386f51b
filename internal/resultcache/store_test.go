package resultcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"essendeejay/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.Context(), filepath.Join(t.TempDir(), "metrics.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutAndGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	key := Key{FilePath: "/music/song.flac", FileSize: 1024, FileMTime: 1700000000, Feature: "danceability", Category: 0}
	metric := Metric{
		Key:       key,
		Algorithm: "classifier",
		Segments:  12,
		Values:    []float64{0.75},
	}
	if err := store.Put(t.Context(), metric); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(t.Context(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached metric")
	}
	if got.ID == "" {
		t.Error("expected generated id")
	}
	if got.Algorithm != "classifier" || got.Segments != 12 {
		t.Errorf("unexpected metric: %+v", got)
	}
	if len(got.Values) != 1 || got.Values[0] != 0.75 {
		t.Errorf("unexpected values: %v", got.Values)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to round-trip")
	}
}

func TestGetMissReturnsNil(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Get(t.Context(), Key{FilePath: "/missing.flac", Feature: "engagement"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	store := openTestStore(t)

	key := Key{FilePath: "/music/song.flac", FileSize: 1024, FileMTime: 1700000000, Feature: "mood_happy", Category: 1}
	first := Metric{Key: key, Algorithm: "classifier", Segments: 5, Values: []float64{0.2}}
	second := Metric{Key: key, Algorithm: "classifier", Segments: 8, Values: []float64{0.9}}

	if err := store.Put(t.Context(), first); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if err := store.Put(t.Context(), second); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, err := store.Get(t.Context(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Segments != 8 || got.Values[0] != 0.9 {
		t.Errorf("expected replacement, got %+v", got)
	}

	count, err := store.Count(t.Context())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected single row after replace, got %d", count)
	}
}

func TestMTimeChangeMissesCache(t *testing.T) {
	store := openTestStore(t)

	key := Key{FilePath: "/music/song.flac", FileSize: 1024, FileMTime: 1700000000, Feature: "approachability"}
	if err := store.Put(t.Context(), Metric{Key: key, Algorithm: "regression", Segments: 3, Values: []float64{0.4}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	stale := key
	stale.FileMTime = 1700009999
	got, err := store.Get(t.Context(), stale)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss after mtime change")
	}
}

func TestPurgeRemovesAllVersions(t *testing.T) {
	store := openTestStore(t)

	for _, mtime := range []int64{1700000000, 1700001111} {
		key := Key{FilePath: "/music/song.flac", FileSize: 1024, FileMTime: mtime, Feature: "danceability"}
		if err := store.Put(t.Context(), Metric{Key: key, Algorithm: "classifier", Segments: 2, Values: []float64{0.5}}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	affected, err := store.Purge(t.Context(), "/music/song.flac")
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if affected != 2 {
		t.Errorf("expected 2 purged rows, got %d", affected)
	}

	count, err := store.Count(t.Context())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty cache, got %d rows", count)
	}
}

func TestFileKeyTracksSizeAndMTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	if err := os.WriteFile(path, []byte("samples"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mtime := time.Unix(1700000000, 0)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	key, err := FileKey(path, "engagement", 0)
	if err != nil {
		t.Fatalf("FileKey: %v", err)
	}
	if key.FileSize != int64(len("samples")) {
		t.Errorf("unexpected size %d", key.FileSize)
	}
	if key.FileMTime != mtime.Unix() {
		t.Errorf("unexpected mtime %d", key.FileMTime)
	}
	if key.Feature != "engagement" {
		t.Errorf("unexpected feature %q", key.Feature)
	}
}

func TestFileKeyMissingFile(t *testing.T) {
	if _, err := FileKey(filepath.Join(t.TempDir(), "absent.wav"), "danceability", 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "metrics.db")
	store, err := Open(t.Context(), dbPath, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.ExecContext(t.Context(), "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err = Open(t.Context(), dbPath, logging.NewNop())
	if err == nil {
		t.Fatal("expected schema mismatch error")
	}
}
