package redisrepo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/repository"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
	"github.com/oksasatya/authguard/pkg/helpers"
)

func sessionKey(id string) string {
	return "session:read:" + id
}

// sessionDoc is the cached wire shape of a session.
type sessionDoc struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Email         string     `json:"email"`
	Permissions   []string   `json:"permissions"`
	TokenHash     string     `json:"token_hash"`
	Status        string     `json:"status"`
	IP            string     `json:"ip,omitempty"`
	UserAgent     string     `json:"user_agent,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	InvalidatedAt *time.Time `json:"invalidated_at,omitempty"`
}

// SessionReadRepository serves the query path from Redis. The read
// model is maintained by the event projector: UserLoggedIn mirrors the
// session in, UserLoggedOut drops it. A missing key therefore means
// "no live session", which fails closed.
type SessionReadRepository struct {
	rdb *redis.Client
}

func NewSessionReadRepository(rdb *redis.Client) *SessionReadRepository {
	return &SessionReadRepository{rdb: rdb}
}

func (r *SessionReadRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var doc sessionDoc
	found, err := helpers.RedisGetJSON(ctx, r.rdb, sessionKey(id), &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	return docToSession(doc)
}

// Store mirrors a session into the read model. The key expires with
// the session itself, so expired entries age out without a sweep.
func (r *SessionReadRepository) Store(ctx context.Context, s *entity.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	doc := sessionDoc{
		ID:            s.ID,
		UserID:        s.UserID,
		Email:         s.Email.String(),
		Permissions:   s.Permissions,
		TokenHash:     s.TokenHash,
		Status:        string(s.Status),
		IP:            s.Metadata.IP,
		UserAgent:     s.Metadata.UserAgent,
		CreatedAt:     s.CreatedAt,
		ExpiresAt:     s.ExpiresAt,
		InvalidatedAt: s.InvalidatedAt,
	}
	return helpers.RedisSetJSON(ctx, r.rdb, sessionKey(s.ID), doc, ttl)
}

// Remove drops a session from the read model after logout.
func (r *SessionReadRepository) Remove(ctx context.Context, id string) error {
	err := helpers.RedisDel(ctx, r.rdb, sessionKey(id))
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func docToSession(doc sessionDoc) (*entity.Session, error) {
	email, err := valueobject.NewEmail(doc.Email)
	if err != nil {
		return nil, err
	}
	perms := doc.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &entity.Session{
		ID:            doc.ID,
		UserID:        doc.UserID,
		Email:         email,
		Permissions:   perms,
		TokenHash:     doc.TokenHash,
		Status:        entity.SessionStatus(doc.Status),
		CreatedAt:     doc.CreatedAt,
		ExpiresAt:     doc.ExpiresAt,
		InvalidatedAt: doc.InvalidatedAt,
		Metadata: entity.SessionMetadata{
			IP:        doc.IP,
			UserAgent: doc.UserAgent,
		},
	}, nil
}

var _ repository.ReadSessionRepository = (*SessionReadRepository)(nil)
