package credential

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voteparty/internal/domain"
)

const secret = "0123456789abcdef0123"

func TestAnonymous(t *testing.T) {
	_, ok := Anonymous{}.Subject()
	assert.False(t, ok)
	_, err := Anonymous{}.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestHMACSigner_FreshTokens(t *testing.T) {
	s, err := NewHMACSigner("host-1", secret, time.Minute)
	require.NoError(t, err)

	sub, ok := s.Subject()
	assert.True(t, ok)
	assert.Equal(t, "host-1", sub)

	first, err := s.Token(context.Background())
	require.NoError(t, err)
	second, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := Verify(first, []byte(secret))
	require.NoError(t, err)
	assert.Equal(t, "host-1", got)

	_, err = Verify(first, []byte("another-secret-value"))
	assert.Error(t, err)
}

func TestHMACSigner_Expired(t *testing.T) {
	s, err := NewHMACSigner("host-1", secret, time.Minute)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := s.Token(context.Background())
	require.NoError(t, err)

	_, err = Verify(token, []byte(secret))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewHMACSigner_Validation(t *testing.T) {
	_, err := NewHMACSigner("", secret, 0)
	assert.Error(t, err)
	_, err = NewHMACSigner("host", "short", 0)
	assert.Error(t, err)

	s, err := NewHMACSigner("host", secret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, s.ttl)
}

func TestStatic(t *testing.T) {
	signer, err := NewHMACSigner("host-2", secret, time.Minute)
	require.NoError(t, err)
	raw, err := signer.Token(context.Background())
	require.NoError(t, err)

	s, err := NewStatic("Bearer " + raw)
	require.NoError(t, err)
	sub, ok := s.Subject()
	assert.True(t, ok)
	assert.Equal(t, "host-2", sub)
	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, token)

	empty, err := NewStatic("")
	require.NoError(t, err)
	_, ok = empty.Subject()
	assert.False(t, ok)

	_, err = NewStatic("not-a-jwt")
	assert.Error(t, err)
}
