package handler

import (
	"errors"
	"io"
	"strings"

	"profile-hub/internal/delivery/http/middleware"
	"profile-hub/internal/infrastructure/media"
	"profile-hub/internal/pkg/response"
	"profile-hub/internal/usecase"
	ucauth "profile-hub/internal/usecase/auth"
	ucuser "profile-hub/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErr *ucuser.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return middleware.NewAppError(fiber.StatusBadRequest, fieldErr.Error(), fiber.Map{"field": fieldErr.Field}, err)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusBadRequest, "User already exists", nil, err)
	case errors.Is(err, ucauth.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, ucauth.ErrInvalidPassword):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid password", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput), errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenMismatch):
		return middleware.NewAppError(fiber.StatusForbidden, "Invalid refresh token", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, media.ErrMediaDisabled):
		return middleware.NewAppError(fiber.StatusBadRequest, "File uploads are not enabled", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func currentUser(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, nil
}

func pathID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

// bindBody accepts JSON, urlencoded and multipart bodies. An empty body binds nothing.
func bindBody(c fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}

// formFile returns the named multipart file, or nil when the request has none.
// The returned closer is never nil.
func formFile(c fiber.Ctx, field string) (*media.File, io.Closer, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, io.NopCloser(nil), nil
	}
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, io.NopCloser(nil), nil
	}
	f, closer, err := media.OpenFileHeader(fh)
	if err != nil {
		return nil, io.NopCloser(nil), middleware.NewAppError(fiber.StatusBadRequest, "Unreadable upload", nil, err)
	}
	return &f, closer, nil
}
