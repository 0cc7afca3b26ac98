package dto

import (
	"time"

	"profile-hub/internal/domain/profile"

	"github.com/google/uuid"
)

type EducationResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Institute    string    `json:"institute"`
	Degree       *string   `json:"degree"`
	FieldOfStudy *string   `json:"field_of_study"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Certificate  *string   `json:"certificate"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ExperienceResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Company     string    `json:"company"`
	Role        string    `json:"role"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	Description *string   `json:"description"`
	Certificate *string   `json:"certificate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Level       *string   `json:"level"`
	Certificate *string   `json:"certificate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HobbyResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileResponse struct {
	UserResponse
	Educations  []EducationResponse  `json:"educations"`
	Experiences []ExperienceResponse `json:"experiences"`
	Skills      []SkillResponse      `json:"skills"`
	Hobbies     []HobbyResponse      `json:"hobbies"`
}

func NewEducationResponse(e profile.Education) EducationResponse {
	var degree *string
	if e.Degree != nil {
		d := string(*e.Degree)
		degree = &d
	}
	return EducationResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		Institute:    e.Institute,
		Degree:       degree,
		FieldOfStudy: e.FieldOfStudy,
		StartDate:    e.StartDate.UTC().Format(dateLayout),
		EndDate:      formatDate(e.EndDate),
		Certificate:  e.Certificate,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func NewExperienceResponse(e profile.Experience) ExperienceResponse {
	return ExperienceResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Company:     e.Company,
		Role:        e.Role,
		StartDate:   e.StartDate.UTC().Format(dateLayout),
		EndDate:     formatDate(e.EndDate),
		Description: e.Description,
		Certificate: e.Certificate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func NewSkillResponse(s profile.Skill) SkillResponse {
	var level *string
	if s.Level != nil {
		l := string(*s.Level)
		level = &l
	}
	return SkillResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Level:       level,
		Certificate: s.Certificate,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewHobbyResponse(h profile.Hobby) HobbyResponse {
	return HobbyResponse{
		ID:        h.ID,
		UserID:    h.UserID,
		Name:      h.Name,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

// Map converts a slice with fn, returning an empty (not nil) slice.
func Map[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
