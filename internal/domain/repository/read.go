package repository

import (
	"context"

	"github.com/oksasatya/authguard/internal/domain/entity"
)

// ReadSessionRepository is the query-side session source. It exposes
// lookup only, so the query path cannot structurally touch write state.
// Implementations may be served by a replica or a cache and must never
// mutate.
type ReadSessionRepository interface {
	// FindByID returns the session or domain.ErrSessionNotFound.
	FindByID(ctx context.Context, id string) (*entity.Session, error)
}
