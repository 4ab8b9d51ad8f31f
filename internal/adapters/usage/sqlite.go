// Package usage persists per-entity usage counts for the ranking engine's
// frequency signal.
package usage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/glintlauncher/glint/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_counts (
	entity_id TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0,
	last_used_at INTEGER NOT NULL DEFAULT 0
);`

// Store is a SQLite-backed usage store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the usage database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating usage db directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening usage db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating usage schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Increment implements ports.UsageStore.
func (s *Store) Increment(ctx context.Context, entityID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_counts (entity_id, count, last_used_at)
		VALUES (?, 1, unixepoch())
		ON CONFLICT(entity_id) DO UPDATE SET
			count = count + 1,
			last_used_at = unixepoch()`,
		entityID)
	if err != nil {
		return fmt.Errorf("incrementing usage for %s: %w", entityID, err)
	}
	return nil
}

// Snapshot implements ports.UsageStore.
func (s *Store) Snapshot(ctx context.Context) (map[string]uint64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entity_id, count FROM usage_counts`)
	if err != nil {
		return nil, fmt.Errorf("reading usage counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]uint64)
	for rows.Next() {
		var id string
		var count uint64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scanning usage row: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage rows: %w", err)
	}
	return counts, nil
}

// Close implements ports.UsageStore.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ ports.UsageStore = (*Store)(nil)
