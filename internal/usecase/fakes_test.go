package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"profile-hub/internal/domain/profile"
	"profile-hub/internal/domain/user"
	"profile-hub/internal/infrastructure/media"

	"github.com/google/uuid"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]user.User

	// rotateHook runs inside RotateRefreshToken before the swap, with the lock released.
	rotateHook func()
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]user.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUsers) SetRefreshToken(_ context.Context, id uuid.UUID, hash *string, expiresAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.RefreshTokenHash, u.RefreshTokenExpiresAt = hash, expiresAt
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) RotateRefreshToken(_ context.Context, id uuid.UUID, oldHash, newHash string, expiresAt time.Time) (bool, error) {
	if f.rotateHook != nil {
		hook := f.rotateHook
		f.rotateHook = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != oldHash {
		return false, nil
	}
	u.RefreshTokenHash, u.RefreshTokenExpiresAt = &newHash, &expiresAt
	f.byID[id] = u
	return true, nil
}

func (f *fakeUsers) ClearExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, u := range f.byID {
		if u.RefreshTokenExpiresAt != nil && u.RefreshTokenExpiresAt.Before(now) {
			u.RefreshTokenHash, u.RefreshTokenExpiresAt = nil, nil
			f.byID[id] = u
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, p user.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Profile = p
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) session(id uuid.UUID) *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].RefreshTokenHash
}

type fakeRecords[T profile.Record] struct {
	mu        sync.Mutex
	items     []T
	err       error
	deleteErr error

	// listHook runs once at the start of ListByUser, before the lock is taken.
	listHook func()
}

func (f *fakeRecords[T]) ListByUser(_ context.Context, userID uuid.UUID) ([]T, error) {
	if f.listHook != nil {
		hook := f.listHook
		f.listHook = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]T, 0)
	for _, it := range f.items {
		if it.Owner() == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeRecords[T]) GetByID(_ context.Context, id uuid.UUID) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.Key() == id {
			return it, nil
		}
	}
	var zero T
	return zero, profile.ErrRecordNotFound
}

func (f *fakeRecords[T]) Create(_ context.Context, rec T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	f.items = append(f.items, rec)
	return rec, nil
}

func (f *fakeRecords[T]) Update(_ context.Context, rec T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.Key() == rec.Key() {
			f.items[i] = rec
			return rec, nil
		}
	}
	var zero T
	return zero, profile.ErrRecordNotFound
}

func (f *fakeRecords[T]) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, it := range f.items {
		if it.Key() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return profile.ErrRecordNotFound
}

func (f *fakeRecords[T]) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	kept := f.items[:0]
	var n int64
	for _, it := range f.items {
		if it.Owner() == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

type fakeMedia struct {
	mu        sync.Mutex
	uploads   []string
	deleted   []string
	deleteErr error
	uploadErr error
}

func (f *fakeMedia) Upload(_ context.Context, folder string, file media.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := "https://media.test/" + folder + "/" + file.Name
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return f.deleteErr
}

type publishedEvent struct {
	userID uuid.UUID
	event  string
}

type fakeEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeEvents) Publish(userID uuid.UUID, event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{userID: userID, event: event})
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.event)
	}
	return out
}

type fakeRecorder struct {
	mu            sync.Mutex
	auth          map[string]int
	mediaFailures int
}

func (f *fakeRecorder) AuthEvent(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.auth == nil {
		f.auth = map[string]int{}
	}
	f.auth[event]++
}

func (f *fakeRecorder) MediaDeleteFailed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mediaFailures++
}

func strPtr(s string) *string { return &s }
