package gormstore

import (
	"context"
	"testing"
	"time"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/domain/user"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store) user.User {
	t.Helper()
	u := user.User{ID: uuid.New(), Email: uuid.NewString() + "@x.com", PasswordHash: "hash"}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	u := seedUser(t, s)

	err := s.Users().Create(ctx, user.User{ID: uuid.New(), Email: u.Email, PasswordHash: "x"})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)

	exists, err := s.Users().ExistsByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.Users().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.HasSession())

	_, err = s.Users().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_RotateIsCompareAndSwap(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	u := seedUser(t, s)
	repo := s.Users()

	first := "first"
	exp := time.Now().Add(time.Hour).UTC()
	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, &first, &exp))

	ok, err := repo.RotateRefreshToken(ctx, u.ID, "first", "second", exp)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.RotateRefreshToken(ctx, u.ID, "first", "third", exp)
	require.NoError(t, err)
	assert.False(t, ok, "stale hash must not win")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshTokenHash)
	assert.Equal(t, "second", *got.RefreshTokenHash)

	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, nil, nil))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshTokenHash)

	assert.ErrorIs(t, repo.SetRefreshToken(ctx, uuid.New(), nil, nil), user.ErrNotFound)
}

func TestUserRepository_ClearExpired(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	stale := seedUser(t, s)
	live := seedUser(t, s)
	repo := s.Users()

	h := "h"
	past := time.Now().Add(-time.Hour).UTC()
	future := time.Now().Add(time.Hour).UTC()
	require.NoError(t, repo.SetRefreshToken(ctx, stale.ID, &h, &past))
	require.NoError(t, repo.SetRefreshToken(ctx, live.ID, &h, &future))

	n, err := repo.ClearExpiredRefreshTokens(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.True(t, got.HasSession())
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	u := seedUser(t, s)

	age := 31
	bd := time.Date(1994, 5, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, user.Profile{
		Name: "Ada", Age: &age, BirthDate: &bd, PortfolioURL: "https://ada.dev",
	}))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 31, *got.Age)
	require.NotNil(t, got.BirthDate)
	assert.True(t, bd.Equal(*got.BirthDate))
}

func TestRecords_CRUDAndCascade(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	u := seedUser(t, s)
	edu := s.Educations()

	deg := profile.DegreeMaster
	cert := "https://res.cloudinary.com/demo/image/upload/v1/certificates/a.pdf"
	created, err := edu.Create(ctx, profile.Education{
		ID:          uuid.New(),
		UserID:      u.ID,
		Institute:   "MIT",
		Degree:      &deg,
		StartDate:   time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC),
		Certificate: &cert,
	})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := edu.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Degree)
	assert.Equal(t, profile.DegreeMaster, *got.Degree)
	assert.Equal(t, cert, got.Attachment())

	got.Institute = "Stanford"
	updated, err := edu.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Stanford", updated.Institute)

	_, err = edu.Update(ctx, profile.Education{ID: uuid.New(), UserID: u.ID, Institute: "x"})
	assert.ErrorIs(t, err, profile.ErrRecordNotFound)

	_, err = s.Hobbies().Create(ctx, profile.Hobby{ID: uuid.New(), UserID: u.ID, Name: "chess"})
	require.NoError(t, err)
	_, err = s.Hobbies().Create(ctx, profile.Hobby{ID: uuid.New(), UserID: u.ID, Name: "go"})
	require.NoError(t, err)

	n, err := s.Hobbies().DeleteByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, edu.Delete(ctx, created.ID))
	assert.ErrorIs(t, edu.Delete(ctx, created.ID), profile.ErrRecordNotFound)
}

func TestRecords_RequireExistingOwner(t *testing.T) {
	s := openMemory(t)
	_, err := s.Skills().Create(context.Background(), profile.Skill{ID: uuid.New(), UserID: uuid.New(), Name: "Go"})
	assert.Error(t, err)
}
