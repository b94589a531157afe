package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) SaveSnapshot(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.ProjectKey == "" {
		snapshot.ProjectKey = "default"
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}

	query := `
INSERT INTO snapshots (
  project_key, schema_version, ts_utc, strategy, file_count, module_count, edge_count,
  cycle_count, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(project_key, ts_utc) DO UPDATE SET
  schema_version=excluded.schema_version,
  strategy=excluded.strategy,
  file_count=excluded.file_count,
  module_count=excluded.module_count,
  edge_count=excluded.edge_count,
  cycle_count=excluded.cycle_count,
  duration_ms=excluded.duration_ms
`
	return s.withRetry("save snapshot", func() error {
		_, err := s.db.Exec(
			query,
			snapshot.ProjectKey,
			SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.Strategy,
			snapshot.FileCount,
			snapshot.ModuleCount,
			snapshot.EdgeCount,
			snapshot.CycleCount,
			snapshot.Duration.Milliseconds(),
		)
		return err
	})
}

func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT project_key, ts_utc, strategy, file_count, module_count, edge_count, cycle_count, duration_ms
FROM snapshots
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC"

	var rows *sql.Rows
	err := s.withRetry("load snapshots", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			snapshot   Snapshot
		)
		if err := rows.Scan(
			&snapshot.ProjectKey,
			&tsRaw,
			&snapshot.Strategy,
			&snapshot.FileCount,
			&snapshot.ModuleCount,
			&snapshot.EdgeCount,
			&snapshot.CycleCount,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()
		snapshot.Duration = time.Duration(durationMS) * time.Millisecond

		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}

// LatestSnapshot returns the most recent snapshot for the project, or nil
// when none has been recorded yet.
func (s *Store) LatestSnapshot(projectKey string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT project_key, ts_utc, strategy, file_count, module_count, edge_count, cycle_count, duration_ms
FROM snapshots
WHERE project_key = ?
ORDER BY ts_utc DESC
LIMIT 1`

	var (
		tsRaw      string
		durationMS int64
		snapshot   Snapshot
	)
	err := s.withRetry("load latest snapshot", func() error {
		return s.db.QueryRow(query, projectKey).Scan(
			&snapshot.ProjectKey,
			&tsRaw,
			&snapshot.Strategy,
			&snapshot.FileCount,
			&snapshot.ModuleCount,
			&snapshot.EdgeCount,
			&snapshot.CycleCount,
			&durationMS,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
	}
	snapshot.Timestamp = ts.UTC()
	snapshot.Duration = time.Duration(durationMS) * time.Millisecond

	return &snapshot, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
