package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/repository"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// UserRepository is the in-memory write user store, selected by the
// "memory" repo driver. Uniqueness and updates are atomic under one
// mutex, mirroring the storage guarantees the domain relies on.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[u.Email.String()]; taken {
		return domain.ErrDuplicateUser
	}
	clone := cloneUser(u)
	r.byID[u.ID] = clone
	r.byEmail[u.Email.String()] = u.ID
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email.String()]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	loginAt := at
	u.LastLoginAt = &loginAt
	u.UpdatedAt = at
	return nil
}

// Suspend flips an account to suspended; test and seed helper.
func (r *UserRepository) Suspend(userID string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.Suspend(at)
	}
}

func cloneUser(u *entity.User) *entity.User {
	clone := *u
	clone.Permissions = append([]string(nil), u.Permissions...)
	if u.LastLoginAt != nil {
		at := *u.LastLoginAt
		clone.LastLoginAt = &at
	}
	return &clone
}

var _ repository.WriteUserRepository = (*UserRepository)(nil)
