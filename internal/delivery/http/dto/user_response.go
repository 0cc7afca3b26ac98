package dto

import (
	"time"

	"profile-hub/internal/domain/user"

	"github.com/google/uuid"
)

// UserResponse never carries the password or refresh token.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Age          *int      `json:"age"`
	Gender       string    `json:"gender"`
	Address      string    `json:"address"`
	Avatar       string    `json:"avatar"`
	BirthDate    *string   `json:"birth_date"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	PortfolioURL string    `json:"portfolio_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Bio:          u.Bio,
		Age:          u.Age,
		Gender:       u.Gender,
		Address:      u.Address,
		Avatar:       u.Avatar,
		BirthDate:    formatDate(u.BirthDate),
		Phone:        u.Phone,
		Location:     u.Location,
		PortfolioURL: u.PortfolioURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type VerifyResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}
