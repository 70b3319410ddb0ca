package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/repository"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

const uniqueViolation = "23505"

// UserRepository is the write-side user store on Postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, status, is_verified, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Email.String(), u.PasswordHash.String(), string(u.Status), u.IsVerified, u.Permissions, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, status, is_verified, permissions, created_at, updated_at, last_login_at
		FROM users
		WHERE email = $1
	`, email.String())
	return scanUser(row)
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1
	`, userID, at)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u           entity.User
		rawEmail    string
		rawHash     string
		rawStatus   string
		lastLoginAt *time.Time
	)
	if err := row.Scan(&u.ID, &rawEmail, &rawHash, &rawStatus, &u.IsVerified, &u.Permissions,
		&u.CreatedAt, &u.UpdatedAt, &lastLoginAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	hash, err := valueobject.NewPasswordHash(rawHash)
	if err != nil {
		return nil, err
	}
	u.Email = email
	u.PasswordHash = hash
	u.Status = entity.UserStatus(rawStatus)
	u.LastLoginAt = lastLoginAt
	if u.Permissions == nil {
		u.Permissions = []string{}
	}
	return &u, nil
}

var _ repository.WriteUserRepository = (*UserRepository)(nil)
