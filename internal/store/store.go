// Package store persists per-session p4 client metadata in SQLite so that
// one-shot invocations from the same shell reuse the cached p4 info.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/thiagokokada/p4x/internal/p4"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// SessionRow is a cached session as listed by List.
type SessionRow struct {
	Key        string
	ClientInfo p4.ClientInfo
	UpdatedAt  time.Time
}

// DefaultPath returns <user cache dir>/p4x/state.db.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(dir, "p4x", "state.db"), nil
}

// Open opens (or creates) the database at path, ensuring that the parent
// directory exists and the schema is in place.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open state db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping state db at %s: %w", path, err), db.Close())
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			client_info TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
	`); err != nil {
		return nil, errors.Join(fmt.Errorf("init state schema: %w", err), db.Close())
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, key string) (p4.ClientInfo, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT client_info FROM sessions WHERE key = ?`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return p4.ClientInfo{}, false, nil
	}
	if err != nil {
		return p4.ClientInfo{}, false, fmt.Errorf("load session %s: %w", key, err)
	}
	var info p4.ClientInfo
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return p4.ClientInfo{}, false, fmt.Errorf("decode session %s: %w", key, err)
	}
	return info, true, nil
}

func (s *Store) Save(ctx context.Context, key string, info p4.ClientInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (key, client_info, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET client_info = excluded.client_info, updated_at = excluded.updated_at`,
		key, string(data), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

// List returns all cached sessions, most recently updated first.
func (s *Store) List(ctx context.Context) ([]SessionRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, client_info, updated_at FROM sessions ORDER BY updated_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var (
			row     SessionRow
			payload string
			updated int64
		)
		if err := rows.Scan(&row.Key, &payload, &updated); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &row.ClientInfo); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", row.Key, err)
		}
		row.UpdatedAt = time.Unix(updated, 0)
		out = append(out, row)
	}
	return out, rows.Err()
}

// Prune deletes sessions not updated within olderThan and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return n, nil
}

var _ p4.SessionStore = (*Store)(nil)
