package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SetRefreshToken overwrites the stored token; nil hash clears it.
	SetRefreshToken(ctx context.Context, id uuid.UUID, hash *string, expiresAt *time.Time) error
	// RotateRefreshToken swaps oldHash for newHash only while oldHash is still stored.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, oldHash, newHash string, expiresAt time.Time) (bool, error)
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, p Profile) error
}
