package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// UserStatus is the lifecycle status of a user account.
type UserStatus string

const (
	UserStatusInactive  UserStatus = "inactive"
	UserStatusActive    UserStatus = "active"
	UserStatusVerified  UserStatus = "verified"
	UserStatusSuspended UserStatus = "suspended"
)

// User is the aggregate root for authentication.
// Passwords are stored as bcrypt hashes; the hash never crosses the
// write boundary.
type User struct {
	ID           string
	Email        valueobject.Email
	PasswordHash valueobject.PasswordHash
	Status       UserStatus
	IsVerified   bool
	Permissions  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// NewUser is the registration factory. Email uniqueness is enforced by
// the write repository, not here.
func NewUser(email valueobject.Email, password valueobject.Password, status UserStatus, now time.Time) (*User, error) {
	hash, err := password.Hash()
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Status:       status,
		Permissions:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanLogin reports whether the account status allows authentication.
func (u *User) CanLogin() bool {
	return u.Status != UserStatusSuspended
}

// Authenticate verifies the candidate password and opens a new session
// bound to this user. Callers at the login boundary must collapse the
// distinct failures into a single generic credentials error.
func (u *User) Authenticate(candidate string, now time.Time, ttl time.Duration, meta SessionMetadata) (*Session, error) {
	if !u.CanLogin() {
		return nil, domain.ErrAccountSuspended
	}
	if !u.PasswordHash.Verify(candidate) {
		return nil, domain.ErrInvalidCredentials
	}

	u.LastLoginAt = &now
	u.UpdatedAt = now

	return NewSession(u.ID, u.Email, u.Permissions, now, ttl, meta)
}

// Suspend moves the account to suspended, blocking future logins.
func (u *User) Suspend(now time.Time) {
	u.Status = UserStatusSuspended
	u.UpdatedAt = now
}

// Verify marks the account email as verified.
func (u *User) Verify(now time.Time) {
	u.IsVerified = true
	u.Status = UserStatusVerified
	u.UpdatedAt = now
}
