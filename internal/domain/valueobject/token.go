package valueobject

import (
	"strings"
	"time"

	"github.com/oksasatya/authguard/internal/domain"
)

// Claims is the structured payload embedded in a token. Permissions are
// a point-in-time snapshot taken at login, never re-derived afterwards.
type Claims struct {
	UserID      string
	SessionID   string
	Email       string
	Permissions []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the embedded expiry has passed.
func (c Claims) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Token is an opaque, tamper-evident encoded value. Structural checks
// happen here; signature verification belongs to the token service.
type Token struct {
	value string
}

// NewToken checks the three-part encoded shape without touching the
// signature, so malformed input is rejected before any crypto work.
func NewToken(raw string) (Token, error) {
	if raw == "" || strings.Count(raw, ".") != 2 {
		return Token{}, domain.ErrInvalidToken
	}
	return Token{value: raw}, nil
}

// Value returns the raw encoded token.
func (t Token) Value() string { return t.value }

// String is masked so tokens never leak whole through logging.
func (t Token) String() string {
	if len(t.value) <= 10 {
		return "Token(***)"
	}
	return "Token(..." + t.value[len(t.value)-10:] + ")"
}
