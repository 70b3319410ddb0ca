package service

import (
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// TokenService signs session claims into opaque tokens and verifies
// them again. All operations are pure CPU work: no I/O, no locks, so
// verification never blocks the hot read path.
type TokenService interface {
	// Issue signs the session's claims snapshot into a token.
	Issue(s *entity.Session) (valueobject.Token, valueobject.Claims, error)

	// Verify checks signature, structure, and the embedded expiry.
	// Any failure is domain.ErrInvalidToken.
	Verify(raw string) (valueobject.Claims, error)

	// Decode checks signature and structure but accepts expired claims.
	// Logout uses this so an expired token can still end its session.
	Decode(raw string) (valueobject.Claims, error)
}
