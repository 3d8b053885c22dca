package domain

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	CodeLength    = 6
	MaxNameLength = 30
)

// NormalizeCode upper-cases raw, drops everything but ASCII letters and digits
// and keeps the first CodeLength characters.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if b.Len() == CodeLength {
			break
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseCode normalizes raw and requires a full-length result.
func ParseCode(raw string) (string, error) {
	code := NormalizeCode(raw)
	if len(code) != CodeLength {
		return "", ErrInvalidCode
	}
	return code, nil
}

// NormalizeName composes raw to NFC, trims it, collapses inner whitespace and
// truncates it to MaxNameLength runes.
func NormalizeName(raw string) string {
	name := strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	runes := []rune(name)
	return strings.TrimSpace(string(runes[:MaxNameLength]))
}

// ParseName normalizes raw and rejects an empty result.
func ParseName(raw string) (string, error) {
	name := NormalizeName(raw)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
