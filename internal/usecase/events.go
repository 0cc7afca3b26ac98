package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	EventSessionRevoked = "session_revoked"
	EventLoggedOut      = "logged_out"
	EventProfileChanged = "profile_changed"
)

// EventPublisher pushes session events to a user's live connections.
type EventPublisher interface {
	Publish(userID uuid.UUID, event string)
}

type Recorder interface {
	AuthEvent(event string)
	MediaDeleteFailed()
}

// ProfileCache is the read-through cache in front of GetProfile.
type ProfileCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Observers bundles the side channels every usecase reports to. Zero values are valid.
type Observers struct {
	Events  EventPublisher
	Metrics Recorder
	Log     zerolog.Logger
}

func (o Observers) publish(userID uuid.UUID, event string) {
	if o.Events != nil {
		o.Events.Publish(userID, event)
	}
}

func (o Observers) authEvent(event string) {
	if o.Metrics != nil {
		o.Metrics.AuthEvent(event)
	}
}

func (o Observers) mediaDeleteFailed() {
	if o.Metrics != nil {
		o.Metrics.MediaDeleteFailed()
	}
}

// Cached views are keyed by the user's profile generation. A mutation bumps
// the generation, so a view loaded before it can only land under a key no
// reader asks for again.
func profileCacheKey(userID uuid.UUID, generation int64) string {
	return "profile:" + userID.String() + ":" + strconv.FormatInt(generation, 10)
}

func profileGenerationKey(userID uuid.UUID) string {
	return "profile-gen:" + userID.String()
}
