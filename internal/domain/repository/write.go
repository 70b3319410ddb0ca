package repository

import (
	"context"
	"time"

	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// WriteUserRepository is the command-side user store.
type WriteUserRepository interface {
	// Create persists a new user. Email uniqueness is atomic at the
	// storage boundary; a taken email returns domain.ErrDuplicateUser.
	Create(ctx context.Context, u *entity.User) error

	// FindByEmail loads a user for authentication, or
	// domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)

	// RecordLogin updates the last-login timestamp.
	RecordLogin(ctx context.Context, userID string, at time.Time) error
}

// WriteSessionRepository is the command-side session store.
type WriteSessionRepository interface {
	// Create persists a new session. The storage boundary re-enforces
	// expires_at > created_at.
	Create(ctx context.Context, s *entity.Session) error

	// FindByID loads a session for a command, or
	// domain.ErrSessionNotFound.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// UpdateStatus is an atomic single-record compare-and-set: the
	// transition applies only if the stored status still equals from.
	// Returns whether the swap happened. Concurrent readers observe
	// either the fully-prior or fully-new status, never an intermediate.
	UpdateStatus(ctx context.Context, id string, from, to entity.SessionStatus, at time.Time) (bool, error)
}
