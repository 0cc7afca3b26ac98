package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record plus the flat profile fields.
// RefreshTokenHash is nil while logged out.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string

	RefreshTokenHash      *string
	RefreshTokenExpiresAt *time.Time

	Profile

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Profile struct {
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
}

// HasSession reports whether a refresh token is currently stored.
func (u User) HasSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}
