package routes

import (
	"profile-hub/internal/delivery/http/handler"
	v1 "profile-hub/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health  *handler.HealthHandler
	metrics fiber.Handler
	users   v1.UsersDeps
}

func NewRegistry(health *handler.HealthHandler, metrics fiber.Handler, users v1.UsersDeps) *Registry {
	return &Registry{health: health, metrics: metrics, users: users}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
	if r.metrics != nil {
		app.Get("/metrics", r.metrics)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.users)
}
