package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voteparty/internal/ports/output"
)

var _ output.SessionStore = (*PostgresSessionStore)(nil)

// PostgresSessionStore keeps guest sessions in the guest_sessions table.
type PostgresSessionStore struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionStore(pool *pgxpool.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

func (s *PostgresSessionStore) Save(ctx context.Context, code, guestID string) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO guest_sessions (code, guest_id, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (code) DO UPDATE SET guest_id = EXCLUDED.guest_id, updated_at = now()`,
		strings.ToUpper(code), guestID)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) Lookup(ctx context.Context, code string) (string, bool, error) {
	var guestID string
	err := s.pool.QueryRow(ctx, `SELECT guest_id FROM guest_sessions WHERE code = $1`,
		strings.ToUpper(code)).Scan(&guestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup session: %w", err)
	}
	return guestID, true, nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, code string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM guest_sessions WHERE code = $1`, strings.ToUpper(code)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) Close() error {
	s.pool.Close()
	return nil
}
