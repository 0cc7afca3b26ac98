package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"profile-hub/internal/pkg/jwt"
	"profile-hub/internal/pkg/metrics"
	ucauth "profile-hub/internal/usecase/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	uc       *Auth
	users    *fakeUsers
	tokens   *jwt.HMACService
	events   *fakeEvents
	recorder *fakeRecorder
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	tokens, err := jwt.NewHMACService(jwt.Options{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  time.Hour,
		RefreshExpiresIn: 24 * time.Hour,
	})
	require.NoError(t, err)

	users := newFakeUsers()
	events := &fakeEvents{}
	rec := &fakeRecorder{}
	svc := ucauth.NewService(users).WithCost(bcrypt.MinCost)
	return authFixture{
		uc:       NewAuthUsecase(svc, users, tokens, Observers{Events: events, Metrics: rec}),
		users:    users,
		tokens:   tokens,
		events:   events,
		recorder: rec,
	}
}

func (f authFixture) signupAndLogin(t *testing.T, email string) Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.Signup(ctx, ucauth.RegisterInput{Email: email, Password: "pw123456"})
	require.NoError(t, err)
	sess, err := f.uc.Login(ctx, ucauth.LoginInput{Email: email, Password: "pw123456"})
	require.NoError(t, err)
	return sess
}

func TestAuth_SignupCreatesUserWithoutSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, err := f.uc.Signup(ctx, ucauth.RegisterInput{Email: " A@B.com ", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Empty(t, u.PasswordHash)
	assert.Nil(t, f.users.session(u.ID))

	_, err = f.uc.Signup(ctx, ucauth.RegisterInput{Email: "a@b.com", Password: "y"})
	assert.ErrorIs(t, err, ucauth.ErrEmailAlreadyRegistered)
	assert.Equal(t, 1, f.recorder.auth[metrics.AuthSignup])
}

func TestAuth_LoginFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.uc.Signup(ctx, ucauth.RegisterInput{Email: "a@b.com", Password: "right"})
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, ucauth.LoginInput{Email: "nobody@b.com", Password: "right"})
	assert.ErrorIs(t, err, ucauth.ErrUserNotFound)

	_, err = f.uc.Login(ctx, ucauth.LoginInput{Email: "a@b.com", Password: "wrong"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidPassword)

	assert.Equal(t, 2, f.recorder.auth[metrics.AuthLoginFailed])
}

func TestAuth_PasswordOverBcryptLimitIsInvalidInput(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	long := strings.Repeat("p", 80)

	_, err := f.uc.Signup(ctx, ucauth.RegisterInput{Email: "a@b.com", Password: long})
	assert.ErrorIs(t, err, ucauth.ErrInvalidInput)
	assert.Empty(t, f.users.byID)

	_, err = f.uc.Signup(ctx, ucauth.RegisterInput{Email: "a@b.com", Password: strings.Repeat("p", 72)})
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, ucauth.LoginInput{Email: "a@b.com", Password: long})
	assert.ErrorIs(t, err, ucauth.ErrInvalidInput)
}

func TestAuth_LoginStoresHashAndReplacesPreviousSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first := f.signupAndLogin(t, "a@b.com")
	require.NotNil(t, f.users.session(first.User.ID))
	assert.Equal(t, jwt.HashToken(first.RefreshToken), *f.users.session(first.User.ID))
	assert.Empty(t, first.User.PasswordHash)
	assert.Nil(t, first.User.RefreshTokenHash)

	second, err := f.uc.Login(ctx, ucauth.LoginInput{Email: "a@b.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, []string{EventSessionRevoked}, f.events.types())

	_, err = f.uc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)

	_, err = f.uc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuth_RefreshRotates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	sess := f.signupAndLogin(t, "a@b.com")

	next, err := f.uc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, next.RefreshToken)
	assert.NotEqual(t, sess.AccessToken, next.AccessToken)
	assert.Equal(t, jwt.HashToken(next.RefreshToken), *f.users.session(sess.User.ID))

	id, err := f.uc.Verify(ctx, next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, id)

	_, err = f.uc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)
}

func TestAuth_RefreshRejections(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	sess := f.signupAndLogin(t, "a@b.com")

	_, err := f.uc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.uc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// an access token is signed with the other secret
	_, err = f.uc.Refresh(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	stranger, _, err := f.tokens.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)
	_, err = f.uc.Refresh(ctx, stranger)
	assert.ErrorIs(t, err, ErrUnauthorized)

	past := f.tokens.WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	expired, _, err := past.GenerateRefreshToken(sess.User.ID)
	require.NoError(t, err)
	_, err = f.uc.Refresh(ctx, expired)
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestAuth_RefreshLosingRaceIsMismatch(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	sess := f.signupAndLogin(t, "a@b.com")

	var winner Session
	f.users.rotateHook = func() {
		var err error
		winner, err = f.uc.Refresh(ctx, sess.RefreshToken)
		require.NoError(t, err)
	}

	_, err := f.uc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)
	assert.Equal(t, jwt.HashToken(winner.RefreshToken), *f.users.session(sess.User.ID))
}

func TestAuth_LogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	sess := f.signupAndLogin(t, "a@b.com")

	require.NoError(t, f.uc.Logout(ctx, sess.User.ID))
	assert.Nil(t, f.users.session(sess.User.ID))
	require.NoError(t, f.uc.Logout(ctx, sess.User.ID))
	require.NoError(t, f.uc.Logout(ctx, uuid.New()))

	_, err := f.uc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)

	// access tokens stay valid until they expire
	_, err = f.uc.Verify(ctx, sess.AccessToken)
	assert.NoError(t, err)

	assert.Contains(t, f.events.types(), EventLoggedOut)
}

func TestAuth_VerifyRejectsRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	sess := f.signupAndLogin(t, "a@b.com")

	_, err := f.uc.Verify(context.Background(), sess.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.uc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
