package seeder

import (
	"context"
	"errors"
	"fmt"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/domain/user"
	"profile-hub/internal/usecase"
	ucauth "profile-hub/internal/usecase/auth"
	ucuser "profile-hub/internal/usecase/user"
)

const (
	DemoEmail    = "demo@profile-hub.local"
	DemoPassword = "demo-password"
)

// DemoUserSeeder creates one account with a filled-in profile. Collections
// that already hold rows are left alone, so running it twice is a no-op.
type DemoUserSeeder struct {
	Email    string
	Password string
}

func (DemoUserSeeder) Name() string { return "demo_user" }

func (s DemoUserSeeder) Run(ctx context.Context, d Deps) error {
	email, err := ucauth.NormalizeEmail(s.Email)
	if err != nil {
		return err
	}

	_, err = d.Auth.Signup(ctx, ucauth.RegisterInput{Email: email, Password: s.Password})
	if err != nil && !errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
		return fmt.Errorf("signup: %w", err)
	}
	u, err := d.Users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if u.Name == "" && d.Profile != nil {
		if _, err := d.Profile.UpdateProfile(ctx, u.ID, ucuser.ProfilePatch{
			Name:     str("Demo User"),
			Bio:      str("Backend engineer who likes small services."),
			Location: str("Jakarta"),
		}, nil); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}

	if err := seedIfEmpty(ctx, d.Skills, u, []usecase.SkillInput{
		{Name: str("Go"), Level: str("ADVANCED")},
		{Name: str("PostgreSQL"), Level: str("INTERMEDIATE")},
		{Name: str("Docker")},
	}); err != nil {
		return fmt.Errorf("skills: %w", err)
	}
	if err := seedIfEmpty(ctx, d.Educations, u, []usecase.EducationInput{
		{Institute: str("Universitas Indonesia"), Degree: str("BACHELOR"), FieldOfStudy: str("Computer Science"), StartDate: str("2014-08-01"), EndDate: str("2018-07-31")},
	}); err != nil {
		return fmt.Errorf("educations: %w", err)
	}
	if err := seedIfEmpty(ctx, d.Experiences, u, []usecase.ExperienceInput{
		{Company: str("Acme"), Role: str("Software Engineer"), StartDate: str("2018-09-01"), Description: str("Payments backend")},
	}); err != nil {
		return fmt.Errorf("experiences: %w", err)
	}
	if err := seedIfEmpty(ctx, d.Hobbies, u, []usecase.HobbyInput{
		{Name: str("Chess")},
		{Name: str("Cycling")},
	}); err != nil {
		return fmt.Errorf("hobbies: %w", err)
	}
	return nil
}

func seedIfEmpty[T profile.Record, I usecase.Input[T]](ctx context.Context, uc usecase.RecordUsecase[T, I], u user.User, items []I) error {
	if uc == nil {
		return nil
	}
	existing, err := uc.List(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, in := range items {
		if _, err := uc.Create(ctx, u.ID, in, nil); err != nil {
			return err
		}
	}
	return nil
}

func str(s string) *string { return &s }
