package valueobject

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/authguard/internal/domain"
)

const passwordMinLength = 8

// Password is a policy-checked plain-text password. It only exists
// transiently during register/login; persistence sees PasswordHash.
type Password struct {
	value string
}

// NewPassword validates raw against the minimum policy: length plus at
// least one uppercase letter, one lowercase letter, and one digit.
func NewPassword(raw string) (Password, error) {
	if len(raw) < passwordMinLength {
		return Password{}, domain.ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return Password{}, domain.ErrWeakPassword
	}
	return Password{value: raw}, nil
}

// Hash produces an irreversible salted digest via bcrypt.
func (p Password) Hash() (PasswordHash, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p.value), bcrypt.DefaultCost)
	if err != nil {
		return PasswordHash{}, err
	}
	return PasswordHash{value: string(b)}, nil
}

// String is masked so a Password can never leak through logging.
func (p Password) String() string { return "********" }

// PasswordHash is a stored bcrypt digest.
type PasswordHash struct {
	value string
}

// NewPasswordHash wraps an already-hashed value loaded from storage.
func NewPasswordHash(hash string) (PasswordHash, error) {
	if hash == "" {
		return PasswordHash{}, domain.NewError(domain.ErrCodeValidation, "password hash cannot be empty")
	}
	return PasswordHash{value: hash}, nil
}

// Verify performs a constant-time comparison against a candidate.
func (h PasswordHash) Verify(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(h.value), []byte(candidate)) == nil
}

func (h PasswordHash) String() string { return h.value }

func (h PasswordHash) IsZero() bool { return h.value == "" }
