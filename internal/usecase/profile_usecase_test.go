package usecase

import (
	"context"
	"testing"
	"time"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/domain/user"
	"profile-hub/internal/infrastructure/cache"
	"profile-hub/internal/infrastructure/media"
	ucuser "profile-hub/internal/usecase/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	uc     *Profile
	skills *SkillUsecase
	users  *fakeUsers
	media  *fakeMedia
	repos  ProfileRepositories
	userID uuid.UUID
}

func newProfileFixture(t *testing.T) profileFixture {
	t.Helper()
	users := newFakeUsers()
	id := uuid.New()
	hash := "stored-hash"
	require.NoError(t, users.Create(context.Background(), user.User{
		ID:               id,
		Email:            "a@b.com",
		PasswordHash:     "bcrypt",
		RefreshTokenHash: &hash,
		Profile:          user.Profile{Name: "Ada", Avatar: "https://media.test/avatars/old.png"},
	}))

	repos := ProfileRepositories{
		Users:       users,
		Educations:  &fakeRecords[profile.Education]{},
		Experiences: &fakeRecords[profile.Experience]{},
		Skills:      &fakeRecords[profile.Skill]{},
		Hobbies:     &fakeRecords[profile.Hobby]{},
	}
	store := &fakeMedia{}
	c := cache.NewMemory(time.Minute)
	return profileFixture{
		uc:     NewProfileUsecase(repos, store, c, time.Minute, Observers{}),
		skills: NewSkillUsecase(repos.Skills, store, c, Observers{}),
		users:  users,
		media:  store,
		repos:  repos,
		userID: id,
	}
}

func TestProfile_GetProfileNestsRecordsAndHidesSecrets(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	_, err := f.skills.Create(ctx, f.userID, SkillInput{Name: strPtr("Go")}, nil)
	require.NoError(t, err)

	view, err := f.uc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.User.Name)
	assert.Empty(t, view.User.PasswordHash)
	assert.Nil(t, view.User.RefreshTokenHash)
	require.Len(t, view.Skills, 1)
	assert.Equal(t, "Go", view.Skills[0].Name)
	assert.NotNil(t, view.Hobbies)

	_, err = f.uc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfile_CacheIsInvalidatedByRecordMutations(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	first, err := f.uc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, first.Skills)

	// written behind the usecase's back: the cached view is still served
	_, err = f.repos.Skills.Create(ctx, profile.Skill{ID: uuid.New(), UserID: f.userID, Name: "SQL"})
	require.NoError(t, err)
	cached, err := f.uc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, cached.Skills)

	_, err = f.skills.Create(ctx, f.userID, SkillInput{Name: strPtr("Go")}, nil)
	require.NoError(t, err)
	fresh, err := f.uc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, fresh.Skills, 2)
}

func TestProfile_LoadRacingAMutationIsNotCached(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	// the skill lands after skills were read but before the view is cached
	f.repos.Hobbies.(*fakeRecords[profile.Hobby]).listHook = func() {
		_, err := f.skills.Create(ctx, f.userID, SkillInput{Name: strPtr("Go")}, nil)
		assert.NoError(t, err)
	}

	raced, err := f.uc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, raced.Skills)

	next, err := f.uc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, next.Skills, 1)
	assert.Equal(t, "Go", next.Skills[0].Name)
}

func TestProfile_UpdateProfilePartial(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	age := 36
	u, err := f.uc.UpdateProfile(ctx, f.userID, ucuser.ProfilePatch{
		Bio:       strPtr("engineer"),
		Age:       &age,
		BirthDate: strPtr("1990-02-03"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "engineer", u.Bio)
	assert.Equal(t, 36, *u.Age)
	assert.Equal(t, "1990-02-03", u.BirthDate.Format(ucuser.DateLayout))
	assert.Empty(t, u.PasswordHash)

	u, err = f.uc.UpdateProfile(ctx, f.userID, ucuser.ProfilePatch{BirthDate: strPtr("")}, nil)
	require.NoError(t, err)
	assert.Nil(t, u.BirthDate)
	assert.Equal(t, "engineer", u.Bio)
}

func TestProfile_UpdateProfileRejections(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	_, err := f.uc.UpdateProfile(ctx, f.userID, ucuser.ProfilePatch{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad := 200
	_, err = f.uc.UpdateProfile(ctx, f.userID, ucuser.ProfilePatch{Age: &bad}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.UpdateProfile(ctx, f.userID, ucuser.ProfilePatch{PortfolioURL: strPtr("ftp://x")}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.UpdateProfile(ctx, uuid.New(), ucuser.ProfilePatch{Name: strPtr("x")}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfile_UpdateProfileReplacesAvatar(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	u, err := f.uc.UpdateProfile(ctx, f.userID, ucuser.ProfilePatch{}, &media.File{Name: "new.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/avatars/new.png", u.Avatar)
	assert.Equal(t, []string{"https://media.test/avatars/old.png"}, f.media.deleted)
}
