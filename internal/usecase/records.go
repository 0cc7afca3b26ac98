package usecase

import (
	"context"
	"errors"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/infrastructure/media"
	"profile-hub/internal/pkg/workerpool"
	ucuser "profile-hub/internal/usecase/user"

	"github.com/google/uuid"
)

const mediaPurgeWorkers = 4

var (
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = ucuser.ErrInvalidInput
)

// Input is a partial update for one record kind. Apply returns rec with the
// sent fields replaced and fails with a *ucuser.FieldError when the result is
// not a valid record.
type Input[T profile.Record] interface {
	Apply(rec T) (T, error)
}

type kind[T profile.Record] struct {
	name  string
	blank func(userID uuid.UUID) T
	// attach is nil for kinds without a certificate.
	attach func(rec *T, url string)
}

// Records is the CRUD flow shared by every profile sub-resource: ownership is
// checked before anything else, certificates go to the media host before the
// row is written, and replaced or orphaned media is removed best-effort.
type Records[T profile.Record, I Input[T]] struct {
	kind  kind[T]
	repo  profile.Repository[T]
	media media.Store
	cache ProfileCache
	obs   Observers
}

func newRecords[T profile.Record, I Input[T]](k kind[T], repo profile.Repository[T], store media.Store, cache ProfileCache, obs Observers) *Records[T, I] {
	if store == nil {
		store = media.Disabled{}
	}
	obs.Log = obs.Log.With().Str("record", k.name).Logger()
	return &Records[T, I]{kind: k, repo: repo, media: store, cache: cache, obs: obs}
}

func (r *Records[T, I]) List(ctx context.Context, userID uuid.UUID) ([]T, error) {
	items, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		r.obs.Log.Error().Err(err).Str("user_id", userID.String()).Msg("list records failed")
		return nil, ErrInternal
	}
	return items, nil
}

func (r *Records[T, I]) Get(ctx context.Context, userID, id uuid.UUID) (T, error) {
	return r.owned(ctx, userID, id)
}

func (r *Records[T, I]) Create(ctx context.Context, userID uuid.UUID, in I, cert *media.File) (T, error) {
	var zero T

	rec, err := in.Apply(r.kind.blank(userID))
	if err != nil {
		return zero, err
	}

	uploaded := ""
	if cert != nil && r.kind.attach != nil {
		uploaded, err = r.upload(ctx, *cert)
		if err != nil {
			return zero, err
		}
		r.kind.attach(&rec, uploaded)
	}

	created, err := r.repo.Create(ctx, rec)
	if err != nil {
		r.obs.Log.Error().Err(err).Str("user_id", userID.String()).Msg("create record failed")
		r.dropMedia(ctx, uploaded)
		return zero, ErrInternal
	}

	r.changed(ctx, userID)
	return created, nil
}

func (r *Records[T, I]) Update(ctx context.Context, userID, id uuid.UUID, in I, cert *media.File) (T, error) {
	var zero T

	cur, err := r.owned(ctx, userID, id)
	if err != nil {
		return zero, err
	}

	next, err := in.Apply(cur)
	if err != nil {
		return zero, err
	}

	previous := cur.Attachment()
	uploaded := ""
	if cert != nil && r.kind.attach != nil {
		uploaded, err = r.upload(ctx, *cert)
		if err != nil {
			return zero, err
		}
		r.kind.attach(&next, uploaded)
	}

	updated, err := r.repo.Update(ctx, next)
	if err != nil {
		r.dropMedia(ctx, uploaded)
		if errors.Is(err, profile.ErrRecordNotFound) {
			return zero, ErrNotFound
		}
		r.obs.Log.Error().Err(err).Str("record_id", id.String()).Msg("update record failed")
		return zero, ErrInternal
	}

	if uploaded != "" && previous != "" && previous != uploaded {
		r.dropMedia(ctx, previous)
	}

	r.changed(ctx, userID)
	return updated, nil
}

func (r *Records[T, I]) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cur, err := r.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, profile.ErrRecordNotFound) {
			return ErrNotFound
		}
		r.obs.Log.Error().Err(err).Str("record_id", id.String()).Msg("delete record failed")
		return ErrInternal
	}

	r.dropMedia(ctx, cur.Attachment())
	r.changed(ctx, userID)
	return nil
}

// DeleteAll removes every record of this kind owned by userID and reports how many went.
func (r *Records[T, I]) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	items, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		r.obs.Log.Error().Err(err).Str("user_id", userID.String()).Msg("list records failed")
		return 0, ErrInternal
	}
	urls := make([]string, 0, len(items))
	for _, it := range items {
		if u := it.Attachment(); u != "" {
			urls = append(urls, u)
		}
	}
	n, err := r.repo.DeleteByUser(ctx, userID)
	if err != nil {
		r.obs.Log.Error().Err(err).Str("user_id", userID.String()).Msg("delete records failed")
		return 0, ErrInternal
	}

	workerpool.Each(ctx, mediaPurgeWorkers, urls, func(ctx context.Context, url string) error {
		r.dropMedia(ctx, url)
		return nil
	})

	if n > 0 {
		r.changed(ctx, userID)
	}
	return n, nil
}

func (r *Records[T, I]) owned(ctx context.Context, userID, id uuid.UUID) (T, error) {
	var zero T
	rec, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrRecordNotFound) {
			return zero, ErrNotFound
		}
		r.obs.Log.Error().Err(err).Str("record_id", id.String()).Msg("get record failed")
		return zero, ErrInternal
	}
	if rec.Owner() != userID {
		return zero, ErrForbidden
	}
	return rec, nil
}

func (r *Records[T, I]) upload(ctx context.Context, f media.File) (string, error) {
	url, err := r.media.Upload(ctx, media.FolderCertificates, f)
	if err != nil {
		if errors.Is(err, media.ErrMediaDisabled) {
			return "", err
		}
		r.obs.Log.Error().Err(err).Str("file", f.Name).Msg("certificate upload failed")
		return "", ErrInternal
	}
	return url, nil
}

// dropMedia logs and counts failures but never returns them.
func (r *Records[T, I]) dropMedia(ctx context.Context, url string) {
	dropMedia(ctx, r.media, r.obs, url)
}

func (r *Records[T, I]) changed(ctx context.Context, userID uuid.UUID) {
	invalidateProfile(ctx, r.cache, r.obs, userID)
}

func dropMedia(ctx context.Context, store media.Store, obs Observers, url string) {
	if url == "" {
		return
	}
	if err := store.Delete(ctx, url); err != nil {
		if errors.Is(err, media.ErrNotManaged) {
			obs.Log.Debug().Str("url", url).Msg("skipping foreign media url")
			return
		}
		obs.mediaDeleteFailed()
		obs.Log.Warn().Err(err).Str("url", url).Msg("media delete failed")
	}
}

func invalidateProfile(ctx context.Context, cache ProfileCache, obs Observers, userID uuid.UUID) {
	if cache != nil {
		if _, err := cache.Incr(ctx, profileGenerationKey(userID)); err != nil {
			obs.Log.Warn().Err(err).Str("user_id", userID.String()).Msg("profile cache invalidation failed")
		}
	}
	obs.publish(userID, EventProfileChanged)
}

type RecordUsecase[T profile.Record, I Input[T]] interface {
	List(ctx context.Context, userID uuid.UUID) ([]T, error)
	Get(ctx context.Context, userID, id uuid.UUID) (T, error)
	Create(ctx context.Context, userID uuid.UUID, in I, cert *media.File) (T, error)
	Update(ctx context.Context, userID, id uuid.UUID, in I, cert *media.File) (T, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}
