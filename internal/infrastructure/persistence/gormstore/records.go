package gormstore

import (
	"context"
	"errors"

	"profile-hub/internal/domain/profile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormRecords maps one sub-resource between its domain type T and row model M.
type gormRecords[T profile.Record, M any] struct {
	db       *gorm.DB
	toModel  func(T) M
	toDomain func(M) T
}

func (r gormRecords[T, M]) ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error) {
	var rows []M
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

func (r gormRecords[T, M]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var m M
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, profile.ErrRecordNotFound
		}
		return zero, err
	}
	return r.toDomain(m), nil
}

func (r gormRecords[T, M]) Create(ctx context.Context, rec T) (T, error) {
	m := r.toModel(rec)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		var zero T
		return zero, err
	}
	return r.toDomain(m), nil
}

// Update replaces every column of an existing row. Save would insert a
// missing row, so existence is checked first.
func (r gormRecords[T, M]) Update(ctx context.Context, rec T) (T, error) {
	if _, err := r.GetByID(ctx, rec.Key()); err != nil {
		var zero T
		return zero, err
	}

	m := r.toModel(rec)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		var zero T
		return zero, err
	}
	return r.toDomain(m), nil
}

func (r gormRecords[T, M]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return profile.ErrRecordNotFound
	}
	return nil
}

func (r gormRecords[T, M]) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(new(M))
	return res.RowsAffected, res.Error
}

func (s *Store) Educations() profile.Repository[profile.Education] {
	return gormRecords[profile.Education, educationModel]{db: s.db, toModel: educationToModel, toDomain: educationFromModel}
}

func (s *Store) Experiences() profile.Repository[profile.Experience] {
	return gormRecords[profile.Experience, experienceModel]{db: s.db, toModel: experienceToModel, toDomain: experienceFromModel}
}

func (s *Store) Skills() profile.Repository[profile.Skill] {
	return gormRecords[profile.Skill, skillModel]{db: s.db, toModel: skillToModel, toDomain: skillFromModel}
}

func (s *Store) Hobbies() profile.Repository[profile.Hobby] {
	return gormRecords[profile.Hobby, hobbyModel]{db: s.db, toModel: hobbyToModel, toDomain: hobbyFromModel}
}
