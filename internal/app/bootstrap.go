package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"profile-hub/internal/config"
	"profile-hub/internal/delivery/http/handler"
	"profile-hub/internal/delivery/http/middleware"
	"profile-hub/internal/delivery/http/routes"
	v1 "profile-hub/internal/delivery/http/routes/v1"
	"profile-hub/internal/pkg/logger"
	"profile-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New assembles the HTTP surface over an already built container.
func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:     cfg.App.AppName,
		BodyLimit:   cfg.HTTP.BodyLimit,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, the HTTP app and the background workers.
// The returned cleanup stops the workers and closes every resource.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	log := logger.New(logger.Options{
		AppName:     cfg.App.AppName,
		Environment: cfg.App.Environment,
		Level:       cfg.App.LogLevel,
	})

	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	workers, stopWorkers := context.WithCancel(context.Background())
	go c.Hub.Run(workers)

	if err := c.Sweeper.Start(cfg.Session.SweepSchedule); err != nil {
		stopWorkers()
		_ = c.Close()
		return nil, nil, fmt.Errorf("session sweeper: %w", err)
	}

	cleanup := func() error {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Sweeper.Stop(stopCtx)
		stopWorkers()
		return c.Close()
	}

	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger.Component(c.Log, "http")).Middleware())
	app.Use(c.Metrics.Middleware())
	app.Use(adaptor.HTTPMiddleware(cors.New(cors.Options{
		AllowedOrigins:   c.Config.HTTP.CORSOrigins,
		AllowedMethods:   []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
		AllowedHeaders:   []string{fiber.HeaderAuthorization, fiber.HeaderContentType, middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
	}).Handler))
	app.Use(middleware.NewErrorMiddleware(logger.Component(c.Log, "http")).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	cfg := c.Config
	authMw := middleware.NewAuthMiddleware(c.JWT)

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": c.DB,
		"cache":    c.Cache,
	})

	users := v1.UsersDeps{
		Auth: handler.NewAuthHandler(c.Auth, handler.CookieOptions{
			Secure:     cfg.HTTP.CookieSecure,
			AccessTTL:  c.JWT.AccessTokenTTL(),
			RefreshTTL: c.JWT.RefreshTokenTTL(),
		}),
		Profile: handler.NewProfileHandler(c.Profile),
		Records: []v1.RouteRegistrar{
			handler.NewEducationHandler(c.Educations),
			handler.NewExperienceHandler(c.Experiences),
			handler.NewSkillHandler(c.Skills),
			handler.NewHobbyHandler(c.Hobbies),
		},
		RequireAuth:   authMw.Middleware(),
		RequireAuthWS: authMw.WebSocketMiddleware(),
		AuthLimit:     authLimiter(cfg.HTTP.AuthRateLimit),
		SessionWS:     ws.NewHandler(c.Hub, logger.Component(c.Log, "ws"), cfg.HTTP.CORSOrigins).HandleSessionWS,
	}

	routes.NewRegistry(health, adaptor.HTTPHandler(c.Metrics.Handler()), users).Register(app)
}

// authLimiter caps credential and refresh attempts per client IP per minute.
func authLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c fiber.Ctx) error {
			return middleware.NewAppError(fiber.StatusTooManyRequests, "Too many requests", nil, nil)
		},
	})
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", errors.New("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
