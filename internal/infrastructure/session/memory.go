// Package session selects and builds the guest session store.
package session

import (
	"context"
	"strings"
	"sync"

	"voteparty/internal/ports/output"
)

var _ output.SessionStore = (*MemoryStore)(nil)

// MemoryStore keeps sessions for the lifetime of the process. The zero value
// is ready to use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]string)}
}

func (s *MemoryStore) Save(ctx context.Context, code, guestID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]string)
	}
	s.sessions[strings.ToUpper(code)] = guestID
	return nil
}

func (s *MemoryStore) Lookup(ctx context.Context, code string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	guestID, ok := s.sessions[strings.ToUpper(code)]
	return guestID, ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.ToUpper(code))
	return nil
}

func (s *MemoryStore) Close() error { return nil }
