package handler

import (
	"errors"
	"fmt"
	"testing"

	"profile-hub/internal/delivery/http/middleware"
	"profile-hub/internal/infrastructure/media"
	"profile-hub/internal/usecase"
	ucauth "profile-hub/internal/usecase/auth"
	ucuser "profile-hub/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapUsecaseError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"field error", &ucuser.FieldError{Field: "end_date", Reason: "must not be before start_date"}, fiber.StatusBadRequest, "end_date must not be before start_date"},
		{"duplicate email", ucauth.ErrEmailAlreadyRegistered, fiber.StatusBadRequest, "User already exists"},
		{"unknown user", ucauth.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
		{"wrong password", ucauth.ErrInvalidPassword, fiber.StatusBadRequest, "Invalid password"},
		{"auth input", ucauth.ErrInvalidInput, fiber.StatusBadRequest, "Bad request"},
		{"record input", usecase.ErrInvalidInput, fiber.StatusBadRequest, "Bad request"},
		{"refresh expired", usecase.ErrRefreshTokenExpired, fiber.StatusUnauthorized, "Refresh token expired"},
		{"unauthorized", usecase.ErrUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},
		{"refresh mismatch", usecase.ErrRefreshTokenMismatch, fiber.StatusForbidden, "Invalid refresh token"},
		{"forbidden", usecase.ErrForbidden, fiber.StatusForbidden, "Forbidden"},
		{"not found", usecase.ErrNotFound, fiber.StatusNotFound, "Not found"},
		{"uploads off", media.ErrMediaDisabled, fiber.StatusBadRequest, "File uploads are not enabled"},
		{"wrapped", fmt.Errorf("load: %w", usecase.ErrForbidden), fiber.StatusForbidden, "Forbidden"},
		{"anything else", errors.New("boom"), fiber.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *middleware.AppError
			require.ErrorAs(t, mapUsecaseError(tt.err), &appErr)
			assert.Equal(t, tt.status, appErr.StatusCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, appErr.Message)
			}
			assert.ErrorIs(t, appErr, tt.err)
		})
	}

	assert.NoError(t, mapUsecaseError(nil))
}

func TestMapUsecaseError_FieldErrorCarriesField(t *testing.T) {
	var appErr *middleware.AppError
	require.ErrorAs(t, mapUsecaseError(&ucuser.FieldError{Field: "age", Reason: "must be positive"}), &appErr)
	assert.Equal(t, fiber.Map{"field": "age"}, appErr.Data)
}
