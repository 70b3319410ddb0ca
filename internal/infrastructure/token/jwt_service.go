package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/service"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// jwtClaims is the wire shape of the claims snapshot.
type jwtClaims struct {
	Email       string   `json:"email"`
	SessionID   string   `json:"sid"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens. Pure CPU work: no I/O, so
// verification never blocks the read path.
type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue signs the session's claims into an opaque token.
func (s *Service) Issue(sess *entity.Session) (valueobject.Token, valueobject.Claims, error) {
	claims := sess.Claims()
	wire := &jwtClaims{
		Email:       claims.Email,
		SessionID:   claims.SessionID,
		Permissions: claims.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString(s.secret)
	if err != nil {
		return valueobject.Token{}, valueobject.Claims{}, err
	}
	token, err := valueobject.NewToken(signed)
	if err != nil {
		return valueobject.Token{}, valueobject.Claims{}, err
	}
	return token, claims, nil
}

// Verify checks signature, structure, and embedded expiry. Any failure
// maps deterministically to domain.ErrInvalidToken.
func (s *Service) Verify(raw string) (valueobject.Claims, error) {
	return s.parse(raw, jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})))
}

// Decode checks signature and structure only, accepting expired claims
// so logout still works after the token lapses.
func (s *Service) Decode(raw string) (valueobject.Claims, error) {
	return s.parse(raw, jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	))
}

func (s *Service) parse(raw string, parser *jwt.Parser) (valueobject.Claims, error) {
	wire := &jwtClaims{}
	tkn, err := parser.ParseWithClaims(raw, wire, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return valueobject.Claims{}, domain.WrapError(domain.ErrCodeValidation, "invalid token", err)
	}
	if !tkn.Valid {
		return valueobject.Claims{}, domain.ErrInvalidToken
	}
	if wire.Subject == "" || wire.SessionID == "" || wire.ExpiresAt == nil {
		return valueobject.Claims{}, domain.ErrInvalidToken
	}

	claims := valueobject.Claims{
		UserID:      wire.Subject,
		SessionID:   wire.SessionID,
		Email:       wire.Email,
		Permissions: wire.Permissions,
		ExpiresAt:   wire.ExpiresAt.Time,
	}
	if wire.IssuedAt != nil {
		claims.IssuedAt = wire.IssuedAt.Time
	}
	return claims, nil
}

var _ service.TokenService = (*Service)(nil)
