package output

import "context"

// SessionStore remembers which guest id this client holds for a party code.
type SessionStore interface {
	Save(ctx context.Context, code, guestID string) error
	// Lookup returns ok=false when no session exists for code.
	Lookup(ctx context.Context, code string) (guestID string, ok bool, err error)
	Delete(ctx context.Context, code string) error
}
