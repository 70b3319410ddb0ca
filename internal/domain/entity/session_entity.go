package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// SessionStatus is the lifecycle status of a session.
//
// Transitions: active -> expired (lazy, time-triggered on read),
// active -> invalidated and expired -> invalidated (explicit logout).
// Both expired and invalidated are terminal.
type SessionStatus string

const (
	SessionStatusActive      SessionStatus = "active"
	SessionStatusExpired     SessionStatus = "expired"
	SessionStatusInvalidated SessionStatus = "invalidated"
)

// Terminal reports whether no transition leaves this status.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusExpired || s == SessionStatusInvalidated
}

// SessionMetadata is optional client context captured at login.
type SessionMetadata struct {
	IP        string
	UserAgent string
}

// Session is the server-side record backing a token: the unit of
// invalidation and the source of truth for liveness. Sessions are never
// deleted; they only transition status, preserving the audit trail.
// Email and permissions are the snapshot taken at login.
type Session struct {
	ID            string
	UserID        string
	Email         valueobject.Email
	Permissions   []string
	TokenHash     string
	Status        SessionStatus
	CreatedAt     time.Time
	ExpiresAt     time.Time
	InvalidatedAt *time.Time
	Metadata      SessionMetadata
}

// NewSession opens an active session. The expiry invariant
// (ExpiresAt after CreatedAt) is enforced here and again at the
// storage boundary.
func NewSession(userID string, email valueobject.Email, permissions []string, now time.Time, ttl time.Duration, meta SessionMetadata) (*Session, error) {
	if ttl <= 0 {
		return nil, domain.NewError(domain.ErrCodeValidation, "session ttl must be positive")
	}
	perms := make([]string, len(permissions))
	copy(perms, permissions)
	return &Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Email:       email,
		Permissions: perms,
		Status:      SessionStatusActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		Metadata:    meta,
	}, nil
}

// Expired compares timestamps only; it deliberately ignores the stored
// status so a stale "active" column cannot outlive its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsValid is the liveness check: active status and not yet expired.
// Pure function, no I/O.
func (s *Session) IsValid(now time.Time) bool {
	return s.Status == SessionStatusActive && !s.Expired(now)
}

// Invalidate transitions to invalidated. Idempotent: invalidating an
// already-invalidated session is a no-op, and logout of an expired
// session is still legal.
func (s *Session) Invalidate(now time.Time) {
	if s.Status == SessionStatusInvalidated {
		return
	}
	s.Status = SessionStatusInvalidated
	s.InvalidatedAt = &now
}

// MarkExpired applies the lazy time-triggered transition. Only an
// active session can expire; terminal states absorb.
func (s *Session) MarkExpired(now time.Time) {
	if s.Status != SessionStatusActive || !s.Expired(now) {
		return
	}
	s.Status = SessionStatusExpired
}

// Claims builds the token payload for this session: the point-in-time
// identity and permission snapshot.
func (s *Session) Claims() valueobject.Claims {
	perms := make([]string, len(s.Permissions))
	copy(perms, s.Permissions)
	return valueobject.Claims{
		UserID:      s.UserID,
		SessionID:   s.ID,
		Email:       s.Email.String(),
		Permissions: perms,
		IssuedAt:    s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
}
