package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"voteparty/internal/ports/output"
)

var _ output.SessionStore = (*SQLiteSessionStore)(nil)

// SQLiteSessionStore keeps guest sessions in a local file so they survive
// restarts of the client.
type SQLiteSessionStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the session database at path and
// applies its migrations.
func OpenSQLite(path string, log zerolog.Logger) (*SQLiteSessionStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	clean := filepath.Clean(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	if err := RunMigrations("sqlite", "sqlite://"+filepath.ToSlash(clean), log); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", clean+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &SQLiteSessionStore{db: db}, nil
}

func (s *SQLiteSessionStore) Save(ctx context.Context, code, guestID string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO guest_sessions (code, guest_id, updated_at) VALUES (?, ?, ?)
ON CONFLICT (code) DO UPDATE SET guest_id = excluded.guest_id, updated_at = excluded.updated_at`,
		strings.ToUpper(code), guestID, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Lookup(ctx context.Context, code string) (string, bool, error) {
	var guestID string
	err := s.db.QueryRowContext(ctx, `SELECT guest_id FROM guest_sessions WHERE code = ?`,
		strings.ToUpper(code)).Scan(&guestID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup session: %w", err)
	}
	return guestID, true, nil
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, code string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM guest_sessions WHERE code = ?`, strings.ToUpper(code)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
