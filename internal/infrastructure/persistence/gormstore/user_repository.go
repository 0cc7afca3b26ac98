package gormstore

import (
	"context"
	"errors"
	"time"

	"profile-hub/internal/domain/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	m := userModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
	}
	err := r.db.WithContext(ctx).Create(&m).Error
	if isDuplicate(err) {
		return user.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (user.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return m.toDomain(), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, hash *string, expiresAt *time.Time) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"refresh_token_hash":       hash,
		"refresh_token_expires_at": expiresAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldHash, newHash string, expiresAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldHash).
		Updates(map[string]any{
			"refresh_token_hash":       newHash,
			"refresh_token_expires_at": expiresAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("refresh_token_hash IS NOT NULL AND refresh_token_expires_at < ?", now).
		Updates(map[string]any{
			"refresh_token_hash":       nil,
			"refresh_token_expires_at": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, p user.Profile) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"name":          p.Name,
		"bio":           p.Bio,
		"age":           p.Age,
		"gender":        p.Gender,
		"address":       p.Address,
		"avatar":        p.Avatar,
		"birth_date":    p.BirthDate,
		"phone":         p.Phone,
		"location":      p.Location,
		"portfolio_url": p.PortfolioURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
