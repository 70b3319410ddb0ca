package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/repository"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

// SessionRepository is the write-side session store on Postgres. It
// also satisfies the read-side interface, which is how the default
// (non-cached) read path is served: same rows, lookup only.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, email, permissions, token_hash, status, ip, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, s.ID, s.UserID, s.Email.String(), s.Permissions, s.TokenHash, string(s.Status),
		nullable(s.Metadata.IP), nullable(s.Metadata.UserAgent), s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, email, permissions, token_hash, status, ip, user_agent, created_at, expires_at, invalidated_at
		FROM sessions
		WHERE id = $1
	`, id)
	return scanSession(row)
}

// UpdateStatus is a single-statement compare-and-set: the row changes
// only if its status still equals from, so a concurrent reader sees
// either the prior or the new status, never a partial write.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, from, to entity.SessionStatus, at time.Time) (bool, error) {
	var invalidatedAt *time.Time
	if to == entity.SessionStatusInvalidated {
		invalidatedAt = &at
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET status = $3, invalidated_at = COALESCE($4, invalidated_at)
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to), invalidatedAt)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func scanSession(row pgx.Row) (*entity.Session, error) {
	var (
		s         entity.Session
		rawEmail  string
		rawStatus string
		ip        *string
		userAgent *string
	)
	if err := row.Scan(&s.ID, &s.UserID, &rawEmail, &s.Permissions, &s.TokenHash, &rawStatus,
		&ip, &userAgent, &s.CreatedAt, &s.ExpiresAt, &s.InvalidatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	s.Email = email
	s.Status = entity.SessionStatus(rawStatus)
	if ip != nil {
		s.Metadata.IP = *ip
	}
	if userAgent != nil {
		s.Metadata.UserAgent = *userAgent
	}
	if s.Permissions == nil {
		s.Permissions = []string{}
	}
	return &s, nil
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

var (
	_ repository.WriteSessionRepository = (*SessionRepository)(nil)
	_ repository.ReadSessionRepository  = (*SessionRepository)(nil)
)
