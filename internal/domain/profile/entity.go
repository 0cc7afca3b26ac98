package profile

import (
	"time"

	"github.com/google/uuid"
)

type Degree string

const (
	DegreeX        Degree = "X"
	DegreeXII      Degree = "XII"
	DegreeBachelor Degree = "BACHELOR"
	DegreeMaster   Degree = "MASTER"
	DegreePhD      Degree = "PhD"
)

func (d Degree) Valid() bool {
	switch d {
	case DegreeX, DegreeXII, DegreeBachelor, DegreeMaster, DegreePhD:
		return true
	}
	return false
}

type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type Education struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Institute    string
	Degree       *Degree
	FieldOfStudy *string
	StartDate    time.Time
	EndDate      *time.Time
	Certificate  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Experience struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Company     string
	Role        string
	StartDate   time.Time
	EndDate     *time.Time
	Description *string
	Certificate *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Skill struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Level       *Level
	Certificate *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Hobby struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Education) Key() uuid.UUID { return e.ID }

func (e Education) Owner() uuid.UUID { return e.UserID }

func (e Education) Attachment() string { return deref(e.Certificate) }

func (e Experience) Key() uuid.UUID { return e.ID }

func (e Experience) Owner() uuid.UUID { return e.UserID }

func (e Experience) Attachment() string { return deref(e.Certificate) }

func (s Skill) Key() uuid.UUID { return s.ID }

func (s Skill) Owner() uuid.UUID { return s.UserID }

func (s Skill) Attachment() string { return deref(s.Certificate) }

func (h Hobby) Key() uuid.UUID { return h.ID }

func (h Hobby) Owner() uuid.UUID { return h.UserID }

func (h Hobby) Attachment() string { return "" }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
