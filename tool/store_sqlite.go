package tool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteStoreSchema = `
CREATE TABLE IF NOT EXISTS tool_invocations (
	id TEXT PRIMARY KEY,
	tool TEXT NOT NULL,
	extension TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	success INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT ''
);`

const (
	defaultSQLiteStoreDir = ".asynctoolkit"
	defaultSQLiteStoreDB  = "asynctoolkit.db"
)

// SQLiteStore persists invocation records in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath returns the default SQLite path for CLI storage.
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("tool: resolve user home: %w", err)
	}
	return filepath.Join(home, defaultSQLiteStoreDir, defaultSQLiteStoreDB), nil
}

// NewSQLiteStore opens (or creates) a SQLite-backed invocation store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("tool: sqlite store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("tool: sqlite store create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tool: sqlite store open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tool: sqlite store set WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteStoreSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tool: sqlite store create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append inserts one invocation record.
func (s *SQLiteStore) Append(ctx context.Context, record InvocationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New("tool: sqlite store is nil")
	}
	if strings.TrimSpace(record.ID) == "" {
		return errors.New("tool: invocation record id is required")
	}

	success := 0
	if record.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO tool_invocations (id, tool, extension, started_at, duration_ms, success, error)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Tool,
		record.Extension,
		record.StartedAt.UTC().Format(time.RFC3339Nano),
		record.DurationMS,
		success,
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("tool: sqlite append invocation: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]InvocationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, errors.New("tool: sqlite store is nil")
	}

	query := `
SELECT id, tool, extension, started_at, duration_ms, success, error
FROM tool_invocations
ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += `
LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tool: sqlite list invocations: %w", err)
	}
	defer rows.Close()

	var records []InvocationRecord
	for rows.Next() {
		var (
			record     InvocationRecord
			startedRaw string
			success    int
		)
		if err := rows.Scan(
			&record.ID,
			&record.Tool,
			&record.Extension,
			&startedRaw,
			&record.DurationMS,
			&success,
			&record.Error,
		); err != nil {
			return nil, fmt.Errorf("tool: sqlite scan invocation: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
			record.StartedAt = parsed.UTC()
		}
		record.Success = success != 0
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tool: sqlite invocation rows: %w", err)
	}
	return records, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
