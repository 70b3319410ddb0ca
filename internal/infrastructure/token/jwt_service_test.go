package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

func issueTestToken(t *testing.T, svc *Service, ttl time.Duration) (valueobject.Token, *entity.Session) {
	t.Helper()
	email, err := valueobject.NewEmail("alice@example.com")
	require.NoError(t, err)
	session, err := entity.NewSession("user-1", email, []string{"user"}, time.Now().UTC(), ttl, entity.SessionMetadata{})
	require.NoError(t, err)
	token, _, err := svc.Issue(session)
	require.NoError(t, err)
	return token, session
}

func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService("test-secret")
	token, session := issueTestToken(t, svc, time.Hour)

	claims, err := svc.Verify(token.Value())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, session.ID, claims.SessionID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{"user"}, claims.Permissions)
	assert.WithinDuration(t, session.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestService_VerifyRejectsTamperedToken(t *testing.T) {
	svc := NewService("test-secret")
	token, _ := issueTestToken(t, svc, time.Hour)

	parts := strings.Split(token.Value(), ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err := svc.Verify(tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestService_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a")
	verifier := NewService("secret-b")
	token, _ := issueTestToken(t, issuer, time.Hour)

	_, err := verifier.Verify(token.Value())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestService_VerifyRejectsExpired(t *testing.T) {
	svc := NewService("test-secret")

	email, err := valueobject.NewEmail("alice@example.com")
	require.NoError(t, err)
	past := time.Now().UTC().Add(-2 * time.Hour)
	session, err := entity.NewSession("user-1", email, nil, past, time.Hour, entity.SessionMetadata{})
	require.NoError(t, err)
	token, _, err := svc.Issue(session)
	require.NoError(t, err)

	_, err = svc.Verify(token.Value())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestService_DecodeAcceptsExpired(t *testing.T) {
	svc := NewService("test-secret")

	email, err := valueobject.NewEmail("alice@example.com")
	require.NoError(t, err)
	past := time.Now().UTC().Add(-2 * time.Hour)
	session, err := entity.NewSession("user-1", email, nil, past, time.Hour, entity.SessionMetadata{})
	require.NoError(t, err)
	token, _, err := svc.Issue(session)
	require.NoError(t, err)

	claims, err := svc.Decode(token.Value())
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.SessionID)

	// Signature still matters even without claims validation.
	_, err = svc.Decode(token.Value() + "x")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestService_VerifyRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret")
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "input %q", raw)
	}
}
