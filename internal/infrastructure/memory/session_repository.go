package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/repository"
)

// SessionRepository is the in-memory session store. It serves both the
// write and read interfaces, like the Postgres store. Status updates
// are compare-and-set under one mutex.
type SessionRepository struct {
	mu   sync.RWMutex
	byID map[string]*entity.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{byID: make(map[string]*entity.Session)}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.ExpiresAt.After(s.CreatedAt) {
		return domain.NewError(domain.ErrCodeValidation, "session expiry must follow creation")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = cloneSession(s)
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, from, to entity.SessionStatus, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	if s.Status != from {
		return false, nil
	}
	s.Status = to
	if to == entity.SessionStatusInvalidated {
		invalidatedAt := at
		s.InvalidatedAt = &invalidatedAt
	}
	return true, nil
}

func cloneSession(s *entity.Session) *entity.Session {
	clone := *s
	clone.Permissions = append([]string(nil), s.Permissions...)
	if s.InvalidatedAt != nil {
		at := *s.InvalidatedAt
		clone.InvalidatedAt = &at
	}
	return &clone
}

var (
	_ repository.WriteSessionRepository = (*SessionRepository)(nil)
	_ repository.ReadSessionRepository  = (*SessionRepository)(nil)
)
