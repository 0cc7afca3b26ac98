package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("record not found")

// Record is what every sub-resource shares: an id, an owning user and at most
// one hosted attachment URL.
type Record interface {
	Education | Experience | Skill | Hobby

	Key() uuid.UUID
	Owner() uuid.UUID
	Attachment() string
}

type Repository[T Record] interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Aggregate is a user's profile with all sub-records.
type Aggregate struct {
	Educations  []Education
	Experiences []Experience
	Skills      []Skill
	Hobbies     []Hobby
}
