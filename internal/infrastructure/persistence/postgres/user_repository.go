package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"profile-hub/internal/database"
	"profile-hub/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, password_hash, refresh_token_hash, refresh_token_expires_at,
	name, bio, age, gender, address, avatar, birth_date, phone, location, portfolio_url,
	created_at, updated_at`

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		u.ID, u.Email, u.PasswordHash, u.Name, time.Now().UTC(),
	)
	if isUniqueViolation(err) {
		return user.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, hash *string, expiresAt *time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $2, refresh_token_expires_at = $3, updated_at = now()
		 WHERE id = $1`,
		id, hash, expiresAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldHash, newHash string, expiresAt time.Time) (bool, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $3, refresh_token_expires_at = $4, updated_at = now()
		 WHERE id = $1 AND refresh_token_hash = $2`,
		id, oldHash, newHash, expiresAt,
	)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *UserRepository) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = NULL, refresh_token_expires_at = NULL
		 WHERE refresh_token_hash IS NOT NULL AND refresh_token_expires_at < $1`,
		now,
	)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, p user.Profile) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET
			name = $2, bio = $3, age = $4, gender = $5, address = $6, avatar = $7,
			birth_date = $8, phone = $9, location = $10, portfolio_url = $11, updated_at = now()
		 WHERE id = $1`,
		id, p.Name, p.Bio, p.Age, p.Gender, p.Address, p.Avatar,
		p.BirthDate, p.Phone, p.Location, p.PortfolioURL,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.RefreshTokenHash, &u.RefreshTokenExpiresAt,
		&u.Name, &u.Bio, &u.Age, &u.Gender, &u.Address, &u.Avatar, &u.BirthDate,
		&u.Phone, &u.Location, &u.PortfolioURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
