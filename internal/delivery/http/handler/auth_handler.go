package handler

import (
	"strings"
	"time"

	"profile-hub/internal/delivery/http/dto"
	"profile-hub/internal/delivery/http/middleware"
	"profile-hub/internal/pkg/response"
	"profile-hub/internal/usecase"
	ucauth "profile-hub/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc      usecase.AuthUsecase
	cookies CookieOptions
}

// CookieOptions controls the HttpOnly token cookies set next to the JSON body.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

func NewAuthHandler(uc usecase.AuthUsecase, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{uc: uc, cookies: cookies}
}

// RegisterRoutes mounts the session endpoints. limit guards the credential
// and refresh endpoints; requireAuth guards logout.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, requireAuth, limit fiber.Handler) {
	if r == nil {
		return
	}
	if limit == nil {
		limit = passthrough
	}

	r.Post("/signup", limit, h.Signup)
	r.Post("/login", limit, h.Login)
	r.Post("/refresh", limit, h.Refresh)
	r.Get("/verify-token", h.VerifyToken)
	r.Post("/logout", requireAuth, h.Logout)
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	usr, err := h.uc.Signup(c.Context(), ucauth.RegisterInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "User created", dto.NewUserResponse(usr))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}

	h.setSessionCookies(c, sess)
	return response.Success(c, fiber.StatusOK, "Login successful", authResponse(sess))
}

// Refresh takes the refresh token from the body first and the cookie second.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req refreshRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		token = strings.TrimSpace(c.Cookies(middleware.RefreshTokenCookie))
	}

	sess, err := h.uc.Refresh(c.Context(), token)
	if err != nil {
		return mapUsecaseError(err)
	}

	h.setSessionCookies(c, sess)
	return response.Success(c, fiber.StatusOK, "Token refreshed", authResponse(sess))
}

func (h *AuthHandler) VerifyToken(c fiber.Ctx) error {
	userID, err := h.uc.Verify(c.Context(), middleware.AccessTokenFromRequest(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, "Token is valid", dto.VerifyResponse{UserID: userID})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.uc.Logout(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}

	h.clearSessionCookies(c)
	return response.OK(c, "Logged out", nil)
}

func authResponse(sess usecase.Session) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         dto.NewUserResponse(sess.User),
	}
}

func (h *AuthHandler) setSessionCookies(c fiber.Ctx, sess usecase.Session) {
	now := time.Now()
	c.Cookie(h.cookie(middleware.AccessTokenCookie, sess.AccessToken, now.Add(h.cookies.AccessTTL)))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, sess.RefreshToken, sess.RefreshExpiresAt))
}

func (h *AuthHandler) clearSessionCookies(c fiber.Ctx) {
	expired := time.Unix(0, 0)
	c.Cookie(h.cookie(middleware.AccessTokenCookie, "", expired))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, "", expired))
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func passthrough(c fiber.Ctx) error {
	return c.Next()
}
