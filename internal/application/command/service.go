package command

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/event"
	"github.com/oksasatya/authguard/internal/domain/repository"
	"github.com/oksasatya/authguard/internal/domain/service"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// Deps is the write-side dependency bundle, bound exactly once at
// construction. Commands get full context: both write repositories,
// the token service, and the event publisher.
type Deps struct {
	Users    repository.WriteUserRepository
	Sessions repository.WriteSessionRepository
	Tokens   service.TokenService
	Events   event.Publisher
	Logger   *logrus.Logger
	Clock    clockwork.Clock

	// SessionTTL is the policy-configured session lifetime.
	SessionTTL time.Duration
	// RegisterActive decides whether new accounts start active or
	// inactive (pending verification).
	RegisterActive bool
}

// Service executes the write operations: register, login, logout.
// It owns no mutable state; everything lives behind the repositories.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = 24 * time.Hour
	}
	return &Service{deps: deps}
}

type RegisterResult struct {
	UserID string
	Email  string
}

// Register validates the credentials, persists a new user, and
// publishes UserCreated. A taken email fails with
// domain.ErrDuplicateUser; the storage unique constraint is the
// atomic arbiter, so two concurrent registrations yield exactly one
// success.
func (s *Service) Register(ctx context.Context, rawEmail, rawPassword string) (*RegisterResult, error) {
	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	password, err := valueobject.NewPassword(rawPassword)
	if err != nil {
		return nil, err
	}

	status := entity.UserStatusInactive
	if s.deps.RegisterActive {
		status = entity.UserStatusActive
	}

	now := s.deps.Clock.Now().UTC()
	user, err := entity.NewUser(email, password, status, now)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, event.UserCreated{UserID: user.ID, Email: user.Email.String()})

	s.deps.Logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email.String(),
	}).Info("user registered")

	return &RegisterResult{UserID: user.ID, Email: user.Email.String()}, nil
}

type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

type LoginResult struct {
	UserID    string
	SessionID string
	Token     string
	ExpiresAt time.Time
}

// Login authenticates and opens a session. Every domain failure — user
// not found, wrong password, disallowed status — collapses into the
// single domain.ErrInvalidCredentials shape so callers cannot
// enumerate accounts. The precise cause is retained in the log.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return nil, s.loginRejected(in.Email, err)
	}

	user, err := s.deps.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.loginRejected(email.String(), err)
		}
		return nil, err
	}

	now := s.deps.Clock.Now().UTC()
	session, err := user.Authenticate(in.Password, now, s.deps.SessionTTL, entity.SessionMetadata{
		IP:        in.IP,
		UserAgent: in.UserAgent,
	})
	if err != nil {
		return nil, s.loginRejected(email.String(), err)
	}

	token, claims, err := s.deps.Tokens.Issue(session)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "token issuance failed", err)
	}
	session.TokenHash = hashToken(token.Value())

	if err := s.deps.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := s.deps.Users.RecordLogin(ctx, user.ID, now); err != nil {
		s.deps.Logger.WithError(err).WithField("user_id", user.ID).Warn("record last login failed")
	}

	s.publish(ctx, event.UserLoggedIn{UserID: user.ID, SessionID: session.ID})

	s.deps.Logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"session_id": session.ID,
	}).Info("user logged in")

	return &LoginResult{
		UserID:    user.ID,
		SessionID: session.ID,
		Token:     token.Value(),
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Logout ends the session the token is bound to. Malformed tokens fail
// with domain.ErrInvalidToken before any repository access; an expired
// token is still accepted. Already-invalidated or missing sessions are
// treated as success, never as an error.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	if _, err := valueobject.NewToken(rawToken); err != nil {
		return err
	}
	claims, err := s.deps.Tokens.Decode(rawToken)
	if err != nil {
		return err
	}

	session, err := s.deps.Sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if session.Status == entity.SessionStatusInvalidated {
		return nil
	}

	now := s.deps.Clock.Now().UTC()
	swapped, err := s.deps.Sessions.UpdateStatus(ctx, session.ID, session.Status, entity.SessionStatusInvalidated, now)
	if err != nil {
		return err
	}
	if !swapped {
		// Lost the race to another logout; idempotent success.
		return nil
	}

	s.publish(ctx, event.UserLoggedOut{SessionID: session.ID})

	s.deps.Logger.WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"session_id": session.ID,
	}).Info("user logged out")

	return nil
}

// loginRejected logs the real cause and returns the generic shape.
func (s *Service) loginRejected(email string, cause error) error {
	s.deps.Logger.WithFields(logrus.Fields{
		"email": email,
		"cause": cause.Error(),
	}).Info("login rejected")
	return domain.ErrInvalidCredentials
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	env := event.NewEnvelope(e, s.deps.Clock.Now())
	if err := s.deps.Events.Publish(ctx, env); err != nil {
		// Fire-and-forget: a sink outage must not fail the command.
		s.deps.Logger.WithError(err).WithField("event_type", env.EventType).Warn("event publish failed")
	}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
