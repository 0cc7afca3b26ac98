package app

import (
	"context"
	"io"
	"time"

	"profile-hub/internal/config"
	"profile-hub/internal/database/migration"
	dbpostgres "profile-hub/internal/database/postgres"
	"profile-hub/internal/database/seeder"
	"profile-hub/internal/infrastructure/cache"
	"profile-hub/internal/infrastructure/media"
	"profile-hub/internal/infrastructure/persistence/gormstore"
	"profile-hub/internal/infrastructure/persistence/postgres"
	"profile-hub/internal/pkg/jwt"
	"profile-hub/internal/pkg/logger"
	"profile-hub/internal/pkg/metrics"
	"profile-hub/internal/scheduler"
	"profile-hub/internal/usecase"
	ucauth "profile-hub/internal/usecase/auth"
	"profile-hub/internal/ws"
	"profile-hub/migrations"

	"github.com/rs/zerolog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Container owns every long-lived dependency of the server process.
type Container struct {
	Config  config.Config
	Log     zerolog.Logger
	Metrics *metrics.Metrics
	JWT     *jwt.HMACService

	DB    Pinger
	Repos usecase.ProfileRepositories
	Cache cache.JSON
	Media media.Store

	Hub     *ws.Hub
	Sweeper *scheduler.Sweeper

	Auth        *usecase.Auth
	Profile     *usecase.Profile
	Educations  *usecase.EducationUsecase
	Experiences *usecase.ExperienceUsecase
	Skills      *usecase.SkillUsecase
	Hobbies     *usecase.HobbyUsecase

	closers []io.Closer
}

func NewContainer(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Container, error) {
	tokens, err := jwt.NewHMACService(jwt.Options{
		AccessSecret:     cfg.JWT.AccessSecret,
		RefreshSecret:    cfg.JWT.RefreshSecret,
		AccessExpiresIn:  cfg.JWT.AccessExpiresIn,
		RefreshExpiresIn: cfg.JWT.RefreshExpiresIn,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Log: log, Metrics: metrics.New(), JWT: tokens}

	if err := c.openStore(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Cache = cache.New(ctx, cfg.Cache, logger.Component(log, "cache"))
	if closer, ok := c.Cache.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}

	c.Media, err = media.New(cfg.Media, logger.Component(log, "media"))
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Hub = ws.NewHub(logger.Component(log, "ws"), c.Metrics)
	c.Sweeper = scheduler.NewSweeper(c.Repos.Users, logger.Component(log, "sweeper"))

	obs := usecase.Observers{Events: c.Hub, Metrics: c.Metrics, Log: logger.Component(log, "usecase")}
	c.Auth = usecase.NewAuthUsecase(ucauth.NewService(c.Repos.Users), c.Repos.Users, tokens, obs)
	c.Profile = usecase.NewProfileUsecase(c.Repos, c.Media, c.Cache, cfg.Cache.ProfileTTL, obs)
	c.Educations = usecase.NewEducationUsecase(c.Repos.Educations, c.Media, c.Cache, obs)
	c.Experiences = usecase.NewExperienceUsecase(c.Repos.Experiences, c.Media, c.Cache, obs)
	c.Skills = usecase.NewSkillUsecase(c.Repos.Skills, c.Media, c.Cache, obs)
	c.Hobbies = usecase.NewHobbyUsecase(c.Repos.Hobbies, c.Cache, obs)

	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.Database.Driver {
	case config.DriverSQLite:
		store, err := gormstore.Open(c.Config.Database.SQLitePath, logger.Component(c.Log, "gormstore"))
		if err != nil {
			return err
		}
		c.closers = append(c.closers, store)
		c.DB = store
		c.Repos = usecase.ProfileRepositories{
			Users:       store.Users(),
			Educations:  store.Educations(),
			Experiences: store.Experiences(),
			Skills:      store.Skills(),
			Hobbies:     store.Hobbies(),
		}
		return nil

	default:
		pool, err := dbpostgres.Connect(ctx, c.Config.Database, 30*time.Second, logger.Component(c.Log, "postgres"))
		if err != nil {
			return err
		}
		c.closers = append(c.closers, pool)
		c.DB = pool

		runner := migration.Runner{Source: migrations.FS, Log: logger.Component(c.Log, "migration")}
		if _, err := runner.Run(ctx, pool.SQLDB()); err != nil {
			return err
		}

		c.Repos = usecase.ProfileRepositories{
			Users:       postgres.NewUserRepository(pool),
			Educations:  postgres.NewEducationRepository(pool),
			Experiences: postgres.NewExperienceRepository(pool),
			Skills:      postgres.NewSkillRepository(pool),
			Hobbies:     postgres.NewHobbyRepository(pool),
		}
		return nil
	}
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// SeederDeps exposes the container's usecases to the seed runner.
func SeederDeps(c *Container) seeder.Deps {
	return seeder.Deps{
		Auth:        c.Auth,
		Users:       c.Repos.Users,
		Profile:     c.Profile,
		Educations:  c.Educations,
		Experiences: c.Experiences,
		Skills:      c.Skills,
		Hobbies:     c.Hobbies,
		Log:         logger.Component(c.Log, "seeder"),
	}
}
