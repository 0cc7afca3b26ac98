package usecase

import (
	"strings"
	"time"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/infrastructure/media"
	ucuser "profile-hub/internal/usecase/user"

	"github.com/google/uuid"
)

// Input fields are pointers: nil leaves the stored value alone, and "" clears
// an optional field.

type EducationInput struct {
	Institute    *string
	Degree       *string
	FieldOfStudy *string
	StartDate    *string
	EndDate      *string
}

type ExperienceInput struct {
	Company     *string
	Role        *string
	StartDate   *string
	EndDate     *string
	Description *string
}

type SkillInput struct {
	Name  *string
	Level *string
}

type HobbyInput struct {
	Name *string
}

type (
	EducationUsecase  = Records[profile.Education, EducationInput]
	ExperienceUsecase = Records[profile.Experience, ExperienceInput]
	SkillUsecase      = Records[profile.Skill, SkillInput]
	HobbyUsecase      = Records[profile.Hobby, HobbyInput]
)

func NewEducationUsecase(repo profile.Repository[profile.Education], store media.Store, cache ProfileCache, obs Observers) *EducationUsecase {
	return newRecords[profile.Education, EducationInput](kind[profile.Education]{
		name: "education",
		blank: func(userID uuid.UUID) profile.Education {
			return profile.Education{ID: uuid.New(), UserID: userID}
		},
		attach: func(rec *profile.Education, url string) { rec.Certificate = &url },
	}, repo, store, cache, obs)
}

func NewExperienceUsecase(repo profile.Repository[profile.Experience], store media.Store, cache ProfileCache, obs Observers) *ExperienceUsecase {
	return newRecords[profile.Experience, ExperienceInput](kind[profile.Experience]{
		name: "experience",
		blank: func(userID uuid.UUID) profile.Experience {
			return profile.Experience{ID: uuid.New(), UserID: userID}
		},
		attach: func(rec *profile.Experience, url string) { rec.Certificate = &url },
	}, repo, store, cache, obs)
}

func NewSkillUsecase(repo profile.Repository[profile.Skill], store media.Store, cache ProfileCache, obs Observers) *SkillUsecase {
	return newRecords[profile.Skill, SkillInput](kind[profile.Skill]{
		name: "skill",
		blank: func(userID uuid.UUID) profile.Skill {
			return profile.Skill{ID: uuid.New(), UserID: userID}
		},
		attach: func(rec *profile.Skill, url string) { rec.Certificate = &url },
	}, repo, store, cache, obs)
}

func NewHobbyUsecase(repo profile.Repository[profile.Hobby], cache ProfileCache, obs Observers) *HobbyUsecase {
	return newRecords[profile.Hobby, HobbyInput](kind[profile.Hobby]{
		name: "hobby",
		blank: func(userID uuid.UUID) profile.Hobby {
			return profile.Hobby{ID: uuid.New(), UserID: userID}
		},
	}, repo, nil, cache, obs)
}

func (in EducationInput) Apply(rec profile.Education) (profile.Education, error) {
	setText(&rec.Institute, in.Institute)
	setOptionalText(&rec.FieldOfStudy, in.FieldOfStudy)
	if in.Degree != nil {
		raw := strings.TrimSpace(*in.Degree)
		if raw == "" {
			rec.Degree = nil
		} else {
			d := profile.Degree(raw)
			if !d.Valid() {
				return profile.Education{}, &ucuser.FieldError{Field: "degree", Reason: "must be one of X, XII, BACHELOR, MASTER, PhD"}
			}
			rec.Degree = &d
		}
	}
	if err := setDates(&rec.StartDate, &rec.EndDate, in.StartDate, in.EndDate); err != nil {
		return profile.Education{}, err
	}

	if rec.Institute == "" {
		return profile.Education{}, required("institute")
	}
	return rec, nil
}

func (in ExperienceInput) Apply(rec profile.Experience) (profile.Experience, error) {
	setText(&rec.Company, in.Company)
	setText(&rec.Role, in.Role)
	setOptionalText(&rec.Description, in.Description)
	if err := setDates(&rec.StartDate, &rec.EndDate, in.StartDate, in.EndDate); err != nil {
		return profile.Experience{}, err
	}

	switch {
	case rec.Company == "":
		return profile.Experience{}, required("company")
	case rec.Role == "":
		return profile.Experience{}, required("role")
	}
	return rec, nil
}

func (in SkillInput) Apply(rec profile.Skill) (profile.Skill, error) {
	setText(&rec.Name, in.Name)
	if in.Level != nil {
		raw := strings.ToUpper(strings.TrimSpace(*in.Level))
		if raw == "" {
			rec.Level = nil
		} else {
			l := profile.Level(raw)
			if !l.Valid() {
				return profile.Skill{}, &ucuser.FieldError{Field: "level", Reason: "must be one of BEGINNER, INTERMEDIATE, ADVANCED"}
			}
			rec.Level = &l
		}
	}

	if rec.Name == "" {
		return profile.Skill{}, required("name")
	}
	return rec, nil
}

func (in HobbyInput) Apply(rec profile.Hobby) (profile.Hobby, error) {
	setText(&rec.Name, in.Name)
	if rec.Name == "" {
		return profile.Hobby{}, required("name")
	}
	return rec, nil
}

func required(field string) error {
	return &ucuser.FieldError{Field: field, Reason: "is required"}
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setOptionalText(dst **string, v *string) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		*dst = nil
		return
	}
	*dst = &s
}

// setDates applies start/end and checks the resulting range. start is required;
// an empty end clears it.
func setDates(start *time.Time, end **time.Time, rawStart, rawEnd *string) error {
	if rawStart != nil {
		if strings.TrimSpace(*rawStart) == "" {
			*start = time.Time{}
		} else {
			d, err := ucuser.ParseDate(*rawStart)
			if err != nil {
				return &ucuser.FieldError{Field: "start_date", Reason: "must be a date (YYYY-MM-DD)"}
			}
			*start = d
		}
	}
	if rawEnd != nil {
		if strings.TrimSpace(*rawEnd) == "" {
			*end = nil
		} else {
			d, err := ucuser.ParseDate(*rawEnd)
			if err != nil {
				return &ucuser.FieldError{Field: "end_date", Reason: "must be a date (YYYY-MM-DD)"}
			}
			*end = &d
		}
	}

	if start.IsZero() {
		return required("start_date")
	}
	if *end != nil && (*end).Before(*start) {
		return &ucuser.FieldError{Field: "end_date", Reason: "must not precede start_date"}
	}
	return nil
}
