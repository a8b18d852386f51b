package resultcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"essendeejay/internal/logging"
)

const (
	busyRetryAttempts = 5
	busyRetryDelay    = 50 * time.Millisecond
)

// Key identifies a cached metric. Size and mtime pin the metric to a
// specific version of the file, so edits invalidate stale entries.
type Key struct {
	FilePath  string
	FileSize  int64
	FileMTime int64
	Feature   string
	Category  int
}

// Metric is one cached aggregation result.
type Metric struct {
	ID        string
	Key       Key
	Algorithm string
	Segments  int
	Values    []float64
	CreatedAt time.Time
}

// Store is a SQLite-backed metric cache.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if necessary) the cache database at dbPath. A
// sibling lock file serializes schema creation across processes.
func Open(ctx context.Context, dbPath string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("resultcache: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{
		db:     db,
		path:   dbPath,
		logger: logging.NewComponentLogger(logger, "resultcache"),
	}

	lock := flock.New(dbPath + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil || !locked {
		_ = db.Close()
		return nil, fmt.Errorf("acquire cache lock %s: %w", lock.Path(), err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// FileKey builds a cache key for the file as it exists on disk right now.
func FileKey(path, feature string, category int) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Key{
		FilePath:  path,
		FileSize:  info.Size(),
		FileMTime: info.ModTime().Unix(),
		Feature:   feature,
		Category:  category,
	}, nil
}

// Get returns the cached metric for key, or nil when absent.
func (s *Store) Get(ctx context.Context, key Key) (*Metric, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, algorithm, segments, values_json, created_at
		FROM metrics
		WHERE file_path = ? AND file_size = ? AND file_mtime = ? AND feature = ? AND category = ?`,
		key.FilePath, key.FileSize, key.FileMTime, key.Feature, key.Category)

	var (
		metric     Metric
		valuesJSON string
		createdAt  string
	)
	err := row.Scan(&metric.ID, &metric.Algorithm, &metric.Segments, &valuesJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached metric: %w", err)
	}
	if err := json.Unmarshal([]byte(valuesJSON), &metric.Values); err != nil {
		return nil, fmt.Errorf("decode cached metric values: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		metric.CreatedAt = ts
	}
	metric.Key = key
	return &metric, nil
}

// Put stores a metric, replacing any existing entry for the same key.
func (s *Store) Put(ctx context.Context, metric Metric) error {
	if metric.Key.FilePath == "" || metric.Key.Feature == "" {
		return errors.New("resultcache: metric key incomplete")
	}
	valuesJSON, err := json.Marshal(metric.Values)
	if err != nil {
		return fmt.Errorf("encode metric values: %w", err)
	}
	id := metric.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := metric.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err = s.retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, `
			INSERT INTO metrics (id, file_path, file_size, file_mtime, feature, algorithm, category, segments, values_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (file_path, file_size, file_mtime, feature, category) DO UPDATE SET
				algorithm = excluded.algorithm,
				segments = excluded.segments,
				values_json = excluded.values_json,
				created_at = excluded.created_at`,
			id, metric.Key.FilePath, metric.Key.FileSize, metric.Key.FileMTime,
			metric.Key.Feature, metric.Algorithm, metric.Key.Category,
			metric.Segments, string(valuesJSON), createdAt.Format(time.RFC3339))
		return execErr
	})
	if err != nil {
		return fmt.Errorf("store metric: %w", err)
	}

	s.logger.Debug("metric cached",
		logging.Args(
			logging.String(logging.FieldFeature, metric.Key.Feature),
			logging.String(logging.FieldFile, metric.Key.FilePath),
			logging.Int("segments", metric.Segments),
		)...)
	return nil
}

// Purge removes all cached metrics for a file path, regardless of version.
func (s *Store) Purge(ctx context.Context, filePath string) (int64, error) {
	var affected int64
	err := s.retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, "DELETE FROM metrics WHERE file_path = ?", filePath)
		if execErr != nil {
			return execErr
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge cached metrics: %w", err)
	}
	return affected, nil
}

// Count reports the number of cached metrics.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM metrics").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached metrics: %w", err)
	}
	return n, nil
}

// retryOnBusy retries writes that lose the race for the database lock.
func (s *Store) retryOnBusy(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(busyRetryDelay * time.Duration(attempt+1)):
		}
	}
	return err
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
