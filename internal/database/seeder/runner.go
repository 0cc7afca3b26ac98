package seeder

import (
	"context"
	"fmt"
)

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, d Deps) error {
	if d.Auth == nil || d.Users == nil {
		return fmt.Errorf("seeder deps are incomplete")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, d); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		d.Log.Info().Str("seeder", s.Name()).Msg("seeded")
	}
	return nil
}
