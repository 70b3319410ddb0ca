package command

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/infrastructure/memory"
	"github.com/oksasatya/authguard/internal/infrastructure/token"
)

type fixture struct {
	service  *Service
	users    *memory.UserRepository
	sessions *memory.SessionRepository
	events   *memory.Publisher
	clock    clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	users := memory.NewUserRepository()
	sessions := memory.NewSessionRepository()
	events := memory.NewPublisher()

	service := NewService(Deps{
		Users:          users,
		Sessions:       sessions,
		Tokens:         token.NewService("test-secret"),
		Events:         events,
		Logger:         logger,
		Clock:          clock,
		SessionTTL:     time.Hour,
		RegisterActive: true,
	})
	return &fixture{service: service, users: users, sessions: sessions, events: events, clock: clock}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.service.Register(ctx, "Alice@Example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, "alice@example.com", res.Email)

	created := f.events.Named("UserCreated")
	require.Len(t, created, 1)
}

func TestRegister_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, "not-an-email", "Sup3rSecret")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.service.Register(ctx, "alice@example.com", "weak")
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	assert.Empty(t, f.events.Events())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)

	_, err = f.service.Register(ctx, "Alice@Example.com", "Oth3rSecret")
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
	assert.Len(t, f.events.Named("UserCreated"), 1)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)

	res, err := f.service.Login(ctx, LoginInput{
		Email:     "alice@example.com",
		Password:  "Sup3rSecret",
		IP:        "10.0.0.1",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, f.clock.Now().UTC().Add(time.Hour), res.ExpiresAt)

	session, err := f.sessions.FindByID(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusActive, session.Status)
	assert.NotEmpty(t, session.TokenHash)
	assert.NotContains(t, session.TokenHash, ".") // hashed, never the raw token
	assert.Equal(t, "10.0.0.1", session.Metadata.IP)

	assert.Len(t, f.events.Named("UserLoggedIn"), 1)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	f.users.Suspend(res.UserID, f.clock.Now())

	cases := []struct {
		name  string
		input LoginInput
	}{
		{"unknown user", LoginInput{Email: "ghost@example.com", Password: "Sup3rSecret"}},
		{"wrong password", LoginInput{Email: "alice@example.com", Password: "WrongPass1"}},
		{"suspended account", LoginInput{Email: "alice@example.com", Password: "Sup3rSecret"}},
		{"malformed email", LoginInput{Email: "not-an-email", Password: "Sup3rSecret"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Login(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
	assert.Empty(t, f.events.Named("UserLoggedIn"))
}

func TestLogin_ConcurrentSessionsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)

	in := LoginInput{Email: "alice@example.com", Password: "Sup3rSecret"}
	first, err := f.service.Login(ctx, in)
	require.NoError(t, err)
	second, err := f.service.Login(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.NotEqual(t, first.Token, second.Token)

	// Ending one session leaves the other untouched.
	require.NoError(t, f.service.Logout(ctx, first.Token))
	s1, err := f.sessions.FindByID(ctx, first.SessionID)
	require.NoError(t, err)
	s2, err := f.sessions.FindByID(ctx, second.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusInvalidated, s1.Status)
	assert.Equal(t, entity.SessionStatusActive, s2.Status)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	res, err := f.service.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, res.Token))

	session, err := f.sessions.FindByID(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusInvalidated, session.Status)
	require.NotNil(t, session.InvalidatedAt)
	assert.Len(t, f.events.Named("UserLoggedOut"), 1)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	res, err := f.service.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, res.Token))
	require.NoError(t, f.service.Logout(ctx, res.Token))

	// Only the first logout crosses the transition and publishes.
	assert.Len(t, f.events.Named("UserLoggedOut"), 1)
}

func TestLogout_ExpiredTokenStillAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	res, err := f.service.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)

	require.NoError(t, f.service.Logout(ctx, res.Token))
	session, err := f.sessions.FindByID(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusInvalidated, session.Status)
}

func TestLogout_MalformedToken(t *testing.T) {
	f := newFixture(t)
	err := f.service.Logout(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_UnknownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	res, err := f.service.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	// Simulate the session row being gone on a replica.
	fresh := newFixture(t)
	assert.NoError(t, fresh.service.Logout(ctx, res.Token))
}
