package seeder_test

import (
	"context"
	"testing"

	"profile-hub/internal/app"
	"profile-hub/internal/config"
	"profile-hub/internal/database/seeder"
	"profile-hub/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoUserSeeder_IsIdempotent(t *testing.T) {
	env := map[string]string{
		"APP_ENV":            "test",
		"HTTP_PORT":          "0",
		"JWT_ACCESS_SECRET":  "a",
		"JWT_REFRESH_SECRET": "r",
		"CORS_ORIGIN":        "*",
		"DB_DRIVER":          "sqlite",
		"SQLITE_PATH":        ":memory:",
	}
	cfg, err := config.FromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)

	ctx := context.Background()
	c, err := app.NewContainer(ctx, cfg, logger.New(logger.Options{Level: "error"}))
	require.NoError(t, err)
	defer c.Close()

	deps := app.SeederDeps(c)
	runner := seeder.Runner{Seeders: seeder.Defaults()}
	require.NoError(t, runner.Run(ctx, deps))
	require.NoError(t, runner.Run(ctx, deps))

	u, err := c.Repos.Users.GetByEmail(ctx, seeder.DemoEmail)
	require.NoError(t, err)
	assert.Equal(t, "Demo User", u.Name)

	view, err := c.Profile.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, view.Skills, 3)
	assert.Len(t, view.Educations, 1)
	assert.Len(t, view.Experiences, 1)
	assert.Len(t, view.Hobbies, 2)
}

func TestRunner_RejectsMissingDeps(t *testing.T) {
	err := seeder.Runner{Seeders: seeder.Defaults()}.Run(context.Background(), seeder.Deps{})
	assert.Error(t, err)
}
