// Package credential provides the bearer tokens used for moderator calls.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"voteparty/internal/domain"
	"voteparty/internal/ports/output"
)

var (
	_ output.CredentialSource = Anonymous{}
	_ output.CredentialSource = (*Static)(nil)
	_ output.CredentialSource = (*HMACSigner)(nil)
)

// Anonymous never has a subject. Guests use it.
type Anonymous struct{}

func (Anonymous) Subject() (string, bool) { return "", false }

func (Anonymous) Token(context.Context) (string, error) {
	return "", domain.ErrUnauthenticated
}

// Static hands out a token obtained elsewhere, such as an identity provider
// ID token pasted by the moderator.
type Static struct {
	token   string
	subject string
}

// NewStatic reads the subject from the token's claims without verifying the
// signature; the party service verifies it.
func NewStatic(token string) (*Static, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return &Static{}, nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("parse token: missing sub claim")
	}
	return &Static{token: token, subject: sub}, nil
}

func (s *Static) Subject() (string, bool) {
	return s.subject, s.subject != ""
}

func (s *Static) Token(context.Context) (string, error) {
	if s.token == "" {
		return "", domain.ErrUnauthenticated
	}
	return s.token, nil
}

const DefaultTTL = 5 * time.Minute

// HMACSigner mints a new short-lived HS256 token on every call.
type HMACSigner struct {
	subject string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewHMACSigner(subject, secret string, ttl time.Duration) (*HMACSigner, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errors.New("hmac signer: subject is required")
	}
	if len(secret) < 16 {
		return nil, errors.New("hmac signer: secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &HMACSigner{subject: subject, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *HMACSigner) Subject() (string, bool) { return s.subject, true }

func (s *HMACSigner) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   s.subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token minted with secret and returns its subject.
func Verify(token string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("verify token: missing subject")
	}
	return claims.Subject, nil
}
