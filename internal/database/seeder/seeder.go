package seeder

import (
	"context"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/domain/user"
	"profile-hub/internal/usecase"

	"github.com/rs/zerolog"
)

// Deps holds the usecases seeders write through.
type Deps struct {
	Auth        usecase.AuthUsecase
	Users       user.Repository
	Profile     usecase.ProfileUsecase
	Educations  usecase.RecordUsecase[profile.Education, usecase.EducationInput]
	Experiences usecase.RecordUsecase[profile.Experience, usecase.ExperienceInput]
	Skills      usecase.RecordUsecase[profile.Skill, usecase.SkillInput]
	Hobbies     usecase.RecordUsecase[profile.Hobby, usecase.HobbyInput]
	Log         zerolog.Logger
}

type Seeder interface {
	Name() string
	Run(ctx context.Context, d Deps) error
}
