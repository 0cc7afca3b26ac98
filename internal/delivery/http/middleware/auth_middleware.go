package middleware

import (
	"errors"
	"strings"

	"profile-hub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type AccessValidator interface {
	ValidateAccessToken(tokenString string) (jwt.Claims, error)
}

type AuthMiddleware struct {
	jwt AccessValidator
}

func NewAuthMiddleware(jwtSvc AccessValidator) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware admits requests carrying a valid access token in the
// Authorization header or, failing that, the access token cookie.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return m.handler(false)
}

// WebSocketMiddleware also accepts ?token= since browsers cannot set headers on upgrade.
func (m *AuthMiddleware) WebSocketMiddleware() fiber.Handler {
	return m.handler(true)
}

func (m *AuthMiddleware) handler(allowQuery bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := AccessTokenFromRequest(c)
		if token == "" && allowQuery {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		return c.Next()
	}
}

func UserIDFromCtx(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func AccessTokenFromRequest(c fiber.Ctx) string {
	if token, ok := bearerTokenFromHeader(c.Get("Authorization")); ok {
		return token
	}
	return strings.TrimSpace(c.Cookies(AccessTokenCookie))
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
