package query

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/repository"
	"github.com/oksasatya/authguard/internal/domain/service"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// Deps is the read-side dependency bundle: the read repository and the
// token service only. No write repository, no event publisher — a query
// has no reference through which it could mutate anything.
type Deps struct {
	Sessions repository.ReadSessionRepository
	Tokens   service.TokenService
	Logger   *logrus.Logger
	Clock    clockwork.Clock
}

// Service executes the read operations: validate-token, get-user-info.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &Service{deps: deps}
}

// ValidateResult reports token liveness. Identity and permissions come
// from the claims snapshot, not from write state: permission changes
// take effect on token refresh, an explicit eventual-consistency
// trade-off.
type ValidateResult struct {
	IsValid     bool
	UserID      string
	Email       string
	Permissions []string
	Reason      string
}

func invalid(reason string) *ValidateResult {
	return &ValidateResult{IsValid: false, Reason: reason}
}

// ValidateToken checks signature and structure first, failing closed
// before any repository call, then looks up the session and evaluates
// liveness against the current clock. A stale "active" status cannot
// outrank a passed expiry.
func (s *Service) ValidateToken(ctx context.Context, rawToken string) (*ValidateResult, error) {
	if _, err := valueobject.NewToken(rawToken); err != nil {
		return invalid("invalid token"), nil
	}
	claims, err := s.deps.Tokens.Verify(rawToken)
	if err != nil {
		return invalid("invalid token"), nil
	}

	session, err := s.findSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return invalid("session not found"), nil
		}
		// Fail closed on lookup uncertainty; the cause stays internal.
		s.deps.Logger.WithError(err).WithField("session_id", claims.SessionID).Error("session lookup failed")
		return invalid("session unavailable"), nil
	}

	if !session.IsValid(s.deps.Clock.Now().UTC()) {
		return invalid("session expired or invalidated"), nil
	}

	return &ValidateResult{
		IsValid:     true,
		UserID:      claims.UserID,
		Email:       claims.Email,
		Permissions: claims.Permissions,
	}, nil
}

// UserInfo is the profile snapshot embedded in the session and claims
// at login; no fresh user lookup is issued.
type UserInfo struct {
	UserID      string
	Email       string
	Permissions []string
	SessionID   string
	LoggedInAt  time.Time
	ExpiresAt   time.Time
}

// GetUserInfo runs the same validation path as ValidateToken and
// returns the snapshot, or domain.ErrInvalidToken when the token or
// session is no longer live.
func (s *Service) GetUserInfo(ctx context.Context, rawToken string) (*UserInfo, error) {
	if _, err := valueobject.NewToken(rawToken); err != nil {
		return nil, err
	}
	claims, err := s.deps.Tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	session, err := s.findSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidToken
		}
		s.deps.Logger.WithError(err).WithField("session_id", claims.SessionID).Error("session lookup failed")
		return nil, domain.WrapError(domain.ErrCodeInternal, "session unavailable", err)
	}
	if !session.IsValid(s.deps.Clock.Now().UTC()) {
		return nil, domain.ErrInvalidToken
	}

	return &UserInfo{
		UserID:      session.UserID,
		Email:       session.Email.String(),
		Permissions: claims.Permissions,
		SessionID:   session.ID,
		LoggedInAt:  session.CreatedAt,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// findSession retries once on infrastructure failure. Reads are
// naturally idempotent; writes are never silently retried.
func (s *Service) findSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := s.deps.Sessions.FindByID(ctx, id)
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) || ctx.Err() != nil {
		return session, err
	}
	s.deps.Logger.WithError(err).WithField("session_id", id).Warn("session lookup retrying")
	return s.deps.Sessions.FindByID(ctx, id)
}
