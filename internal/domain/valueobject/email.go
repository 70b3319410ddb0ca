package valueobject

import (
	"regexp"
	"strings"

	"github.com/oksasatya/authguard/internal/domain"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a validated, normalized (lower-cased) email address.
// The zero value is invalid; construct via NewEmail.
type Email struct {
	value string
}

// NewEmail validates raw against the address grammar and normalizes it.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" || !emailRegex.MatchString(normalized) {
		return Email{}, domain.ErrInvalidEmail
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string { return e.value }

// Domain returns the part after the @.
func (e Email) Domain() string {
	if i := strings.LastIndexByte(e.value, '@'); i >= 0 {
		return e.value[i+1:]
	}
	return ""
}

func (e Email) IsZero() bool { return e.value == "" }

// Equal compares by normalized value.
func (e Email) Equal(other Email) bool { return e.value == other.value }

func (e Email) MarshalText() ([]byte, error) { return []byte(e.value), nil }

func (e *Email) UnmarshalText(b []byte) error {
	parsed, err := NewEmail(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
