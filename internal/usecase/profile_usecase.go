package usecase

import (
	"context"
	"errors"
	"time"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/domain/user"
	"profile-hub/internal/infrastructure/media"
	ucauth "profile-hub/internal/usecase/auth"
	ucuser "profile-hub/internal/usecase/user"

	"github.com/google/uuid"
)

// ProfileView is a user with every sub-record. It is also the cached form.
type ProfileView struct {
	User user.User
	profile.Aggregate
}

type ProfileRepositories struct {
	Users       user.Repository
	Educations  profile.Repository[profile.Education]
	Experiences profile.Repository[profile.Experience]
	Skills      profile.Repository[profile.Skill]
	Hobbies     profile.Repository[profile.Hobby]
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch ucuser.ProfilePatch, avatar *media.File) (user.User, error)
}

type Profile struct {
	repos ProfileRepositories
	media media.Store
	cache ProfileCache
	ttl   time.Duration
	obs   Observers
}

func NewProfileUsecase(repos ProfileRepositories, store media.Store, cache ProfileCache, ttl time.Duration, obs Observers) *Profile {
	if store == nil {
		store = media.Disabled{}
	}
	return &Profile{repos: repos, media: store, cache: cache, ttl: ttl, obs: obs}
}

func (p *Profile) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileView, error) {
	key := ""
	if p.cache != nil {
		gen, err := p.cache.Counter(ctx, profileGenerationKey(userID))
		if err != nil {
			p.obs.Log.Warn().Err(err).Str("user_id", userID.String()).Msg("profile generation read failed")
		} else {
			key = profileCacheKey(userID, gen)
		}
	}
	if key != "" {
		var cached ProfileView
		hit, err := p.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			p.obs.Log.Warn().Err(err).Str("key", key).Msg("profile cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	u, err := p.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ProfileView{}, ErrNotFound
		}
		p.obs.Log.Error().Err(err).Str("user_id", userID.String()).Msg("load user failed")
		return ProfileView{}, ErrInternal
	}

	view := ProfileView{User: ucauth.Sanitize(u)}
	if view.Educations, err = p.repos.Educations.ListByUser(ctx, userID); err != nil {
		return ProfileView{}, p.loadFailed(err, "educations")
	}
	if view.Experiences, err = p.repos.Experiences.ListByUser(ctx, userID); err != nil {
		return ProfileView{}, p.loadFailed(err, "experiences")
	}
	if view.Skills, err = p.repos.Skills.ListByUser(ctx, userID); err != nil {
		return ProfileView{}, p.loadFailed(err, "skills")
	}
	if view.Hobbies, err = p.repos.Hobbies.ListByUser(ctx, userID); err != nil {
		return ProfileView{}, p.loadFailed(err, "hobbies")
	}

	if key != "" {
		if err := p.cache.SetJSON(ctx, key, view, p.ttl); err != nil {
			p.obs.Log.Warn().Err(err).Str("key", key).Msg("profile cache write failed")
		}
	}
	return view, nil
}

// UpdateProfile changes only the fields present in patch. A new avatar
// replaces the old one, which is then removed from the media host.
func (p *Profile) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ucuser.ProfilePatch, avatar *media.File) (user.User, error) {
	if patch.Empty() && avatar == nil {
		return user.User{}, &ucuser.FieldError{Field: "body", Reason: "has no fields to update"}
	}

	cur, err := p.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	next, err := patch.Apply(cur.Profile)
	if err != nil {
		return user.User{}, err
	}

	uploaded := ""
	if avatar != nil {
		uploaded, err = p.media.Upload(ctx, media.FolderAvatars, *avatar)
		if err != nil {
			if errors.Is(err, media.ErrMediaDisabled) {
				return user.User{}, err
			}
			p.obs.Log.Error().Err(err).Str("user_id", userID.String()).Msg("avatar upload failed")
			return user.User{}, ErrInternal
		}
		next.Avatar = uploaded
	}

	if err := p.repos.Users.UpdateProfile(ctx, userID, next); err != nil {
		dropMedia(ctx, p.media, p.obs, uploaded)
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		p.obs.Log.Error().Err(err).Str("user_id", userID.String()).Msg("update profile failed")
		return user.User{}, ErrInternal
	}

	if uploaded != "" && cur.Avatar != "" && cur.Avatar != uploaded {
		dropMedia(ctx, p.media, p.obs, cur.Avatar)
	}
	invalidateProfile(ctx, p.cache, p.obs, userID)

	updated, err := p.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return ucauth.Sanitize(updated), nil
}

func (p *Profile) loadFailed(err error, what string) error {
	p.obs.Log.Error().Err(err).Str("collection", what).Msg("load profile records failed")
	return ErrInternal
}
