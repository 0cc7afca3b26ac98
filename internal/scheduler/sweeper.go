package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type ExpiredSessionClearer interface {
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically nulls refresh tokens whose expiry has passed so a
// stored token always denotes a live session.
type Sweeper struct {
	store   ExpiredSessionClearer
	log     zerolog.Logger
	timeout time.Duration
	now     func() time.Time

	cron *cron.Cron
}

func NewSweeper(store ExpiredSessionClearer, log zerolog.Logger) *Sweeper {
	return &Sweeper{store: store, log: log, timeout: 30 * time.Second, now: time.Now}
}

// Start schedules the sweep with a standard cron spec or descriptor ("@every 1h").
func (s *Sweeper) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { _, _ = s.Sweep(context.Background()) }); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	s.log.Info().Str("schedule", spec).Msg("session sweeper started")
	return nil
}

// Stop waits for a running sweep to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.store.ClearExpiredRefreshTokens(ctx, s.now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("cleared", n).Msg("expired sessions cleared")
	}
	return n, nil
}
