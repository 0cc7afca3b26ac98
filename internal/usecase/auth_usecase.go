package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"profile-hub/internal/domain/user"
	"profile-hub/internal/pkg/jwt"
	"profile-hub/internal/pkg/metrics"
	ucauth "profile-hub/internal/usecase/auth"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrRefreshTokenMismatch = errors.New("refresh token does not match the active session")
	ErrInternal             = errors.New("internal error")
)

type Session struct {
	User             user.User
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthUsecase interface {
	Signup(ctx context.Context, in ucauth.RegisterInput) (user.User, error)
	Login(ctx context.Context, in ucauth.LoginInput) (Session, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Verify(ctx context.Context, accessToken string) (uuid.UUID, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
	obs     Observers
}

func NewAuthUsecase(authSvc *ucauth.Service, users user.Repository, jwtSvc jwt.Service, obs Observers) *Auth {
	return &Auth{authSvc: authSvc, users: users, jwt: jwtSvc, obs: obs}
}

func (u *Auth) Signup(ctx context.Context, in ucauth.RegisterInput) (user.User, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, err
	}
	u.obs.authEvent(metrics.AuthSignup)
	u.obs.Log.Info().Str("user_id", usr.ID.String()).Msg("user signed up")
	return usr, nil
}

// Login overwrites any stored refresh token, so at most one session is active per user.
func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (Session, error) {
	usr, err := u.authSvc.Authenticate(ctx, in)
	if err != nil {
		if errors.Is(err, ucauth.ErrUserNotFound) || errors.Is(err, ucauth.ErrInvalidPassword) {
			u.obs.authEvent(metrics.AuthLoginFailed)
		}
		return Session{}, err
	}

	hadSession := usr.HasSession()

	sess, err := u.issue(usr.ID)
	if err != nil {
		return Session{}, err
	}
	hash := jwt.HashToken(sess.RefreshToken)
	if err := u.users.SetRefreshToken(ctx, usr.ID, &hash, &sess.RefreshExpiresAt); err != nil {
		return Session{}, ErrInternal
	}

	if hadSession {
		u.obs.publish(usr.ID, EventSessionRevoked)
	}
	u.obs.authEvent(metrics.AuthLogin)
	u.obs.Log.Info().Str("user_id", usr.ID.String()).Bool("replaced_session", hadSession).Msg("user logged in")

	sess.User = ucauth.Sanitize(usr)
	return sess, nil
}

// Logout clears the stored refresh token. It succeeds when there is nothing to clear.
func (u *Auth) Logout(ctx context.Context, userID uuid.UUID) error {
	err := u.users.SetRefreshToken(ctx, userID, nil, nil)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return ErrInternal
	}
	u.obs.publish(userID, EventLoggedOut)
	u.obs.authEvent(metrics.AuthLogout)
	return nil
}

func (u *Auth) Verify(_ context.Context, accessToken string) (uuid.UUID, error) {
	if accessToken == "" {
		return uuid.Nil, ErrUnauthorized
	}
	claims, err := u.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return claims.UserID, nil
}

// Refresh rotates both tokens. The stored hash is swapped only if it still
// matches the presented token, so of two concurrent refreshes one wins and
// the other is rejected.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrRefreshTokenExpired
		}
		return Session{}, ErrUnauthorized
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, ErrInternal
	}

	presented := jwt.HashToken(refreshToken)
	if !usr.HasSession() || subtle.ConstantTimeCompare([]byte(*usr.RefreshTokenHash), []byte(presented)) != 1 {
		u.obs.authEvent(metrics.AuthRefreshMismatch)
		return Session{}, ErrRefreshTokenMismatch
	}

	sess, err := u.issue(usr.ID)
	if err != nil {
		return Session{}, err
	}

	swapped, err := u.users.RotateRefreshToken(ctx, usr.ID, presented, jwt.HashToken(sess.RefreshToken), sess.RefreshExpiresAt)
	if err != nil {
		return Session{}, ErrInternal
	}
	if !swapped {
		u.obs.authEvent(metrics.AuthRefreshMismatch)
		return Session{}, ErrRefreshTokenMismatch
	}

	u.obs.authEvent(metrics.AuthRefresh)
	sess.User = ucauth.Sanitize(usr)
	return sess, nil
}

func (u *Auth) issue(userID uuid.UUID) (Session, error) {
	access, err := u.jwt.GenerateAccessToken(userID)
	if err != nil {
		return Session{}, u.issueError(err)
	}
	refresh, exp, err := u.jwt.GenerateRefreshToken(userID)
	if err != nil {
		return Session{}, u.issueError(err)
	}
	return Session{AccessToken: access, RefreshToken: refresh, RefreshExpiresAt: exp}, nil
}

func (u *Auth) issueError(err error) error {
	var cfgErr *jwt.ConfigurationError
	if errors.As(err, &cfgErr) {
		u.obs.Log.Error().Err(err).Msg("token issuer misconfigured")
	}
	return ErrInternal
}
