package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"voteparty/internal/ports/output"
)

var _ output.SessionStore = (*RedisStore)(nil)

// KeyPrefix matches the key layout of the browser client's local storage.
const KeyPrefix = "guest_"

// RedisStore keeps one string key per party code.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(code string) string {
	return KeyPrefix + strings.ToUpper(code)
}

func (s *RedisStore) Save(ctx context.Context, code, guestID string) error {
	if err := s.rdb.Set(ctx, key(code), guestID, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, code string) (string, bool, error) {
	guestID, err := s.rdb.Get(ctx, key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup session: %w", err)
	}
	return guestID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, code string) error {
	if err := s.rdb.Del(ctx, key(code)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
