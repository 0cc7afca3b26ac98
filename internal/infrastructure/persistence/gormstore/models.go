package gormstore

import (
	"time"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/domain/user"

	"github.com/google/uuid"
)

type userModel struct {
	ID                    uuid.UUID `gorm:"type:text;primaryKey"`
	Email                 string    `gorm:"uniqueIndex;not null"`
	PasswordHash          string    `gorm:"not null"`
	RefreshTokenHash      *string
	RefreshTokenExpiresAt *time.Time `gorm:"index"`

	Name         string
	Bio          string
	Age          *int
	Gender       string
	Address      string
	Avatar       string
	BirthDate    *time.Time
	Phone        string
	Location     string
	PortfolioURL string

	CreatedAt time.Time
	UpdatedAt time.Time

	Educations  []educationModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Experiences []experienceModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skills      []skillModel      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Hobbies     []hobbyModel      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() user.User {
	return user.User{
		ID:                    m.ID,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		RefreshTokenHash:      m.RefreshTokenHash,
		RefreshTokenExpiresAt: m.RefreshTokenExpiresAt,
		Profile: user.Profile{
			Name:         m.Name,
			Bio:          m.Bio,
			Age:          m.Age,
			Gender:       m.Gender,
			Address:      m.Address,
			Avatar:       m.Avatar,
			BirthDate:    m.BirthDate,
			Phone:        m.Phone,
			Location:     m.Location,
			PortfolioURL: m.PortfolioURL,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type educationModel struct {
	ID           uuid.UUID `gorm:"type:text;primaryKey"`
	UserID       uuid.UUID `gorm:"type:text;index;not null"`
	Institute    string    `gorm:"not null"`
	Degree       *string
	FieldOfStudy *string
	StartDate    time.Time `gorm:"not null"`
	EndDate      *time.Time
	Certificate  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (educationModel) TableName() string { return "educations" }

func educationToModel(e profile.Education) educationModel {
	var degree *string
	if e.Degree != nil {
		d := string(*e.Degree)
		degree = &d
	}
	return educationModel{
		ID: e.ID, UserID: e.UserID, Institute: e.Institute, Degree: degree,
		FieldOfStudy: e.FieldOfStudy, StartDate: e.StartDate, EndDate: e.EndDate,
		Certificate: e.Certificate, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func educationFromModel(m educationModel) profile.Education {
	var degree *profile.Degree
	if m.Degree != nil {
		d := profile.Degree(*m.Degree)
		degree = &d
	}
	return profile.Education{
		ID: m.ID, UserID: m.UserID, Institute: m.Institute, Degree: degree,
		FieldOfStudy: m.FieldOfStudy, StartDate: m.StartDate, EndDate: m.EndDate,
		Certificate: m.Certificate, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type experienceModel struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	UserID      uuid.UUID `gorm:"type:text;index;not null"`
	Company     string    `gorm:"not null"`
	Role        string    `gorm:"not null"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     *time.Time
	Description *string
	Certificate *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (experienceModel) TableName() string { return "experiences" }

func experienceToModel(e profile.Experience) experienceModel {
	return experienceModel(e)
}

func experienceFromModel(m experienceModel) profile.Experience {
	return profile.Experience(m)
}

type skillModel struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	UserID      uuid.UUID `gorm:"type:text;index;not null"`
	Name        string    `gorm:"not null"`
	Level       *string
	Certificate *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (skillModel) TableName() string { return "skills" }

func skillToModel(s profile.Skill) skillModel {
	var level *string
	if s.Level != nil {
		l := string(*s.Level)
		level = &l
	}
	return skillModel{
		ID: s.ID, UserID: s.UserID, Name: s.Name, Level: level,
		Certificate: s.Certificate, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func skillFromModel(m skillModel) profile.Skill {
	var level *profile.Level
	if m.Level != nil {
		l := profile.Level(*m.Level)
		level = &l
	}
	return profile.Skill{
		ID: m.ID, UserID: m.UserID, Name: m.Name, Level: level,
		Certificate: m.Certificate, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type hobbyModel struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	UserID    uuid.UUID `gorm:"type:text;index;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (hobbyModel) TableName() string { return "hobbies" }

func hobbyToModel(h profile.Hobby) hobbyModel { return hobbyModel(h) }

func hobbyFromModel(m hobbyModel) profile.Hobby { return profile.Hobby(m) }
