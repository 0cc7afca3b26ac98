package v1

import (
	"profile-hub/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// RouteRegistrar is any handler that mounts its own endpoints.
type RouteRegistrar interface {
	RegisterRoutes(r fiber.Router)
}

type UsersDeps struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Records []RouteRegistrar

	RequireAuth fiber.Handler
	// RequireAuthWS also accepts the token as a query parameter.
	RequireAuthWS fiber.Handler
	AuthLimit     fiber.Handler
	SessionWS     fiber.Handler
}

func RegisterUsers(r fiber.Router, d UsersDeps) {
	if r == nil {
		return
	}

	if d.Auth != nil {
		d.Auth.RegisterRoutes(r, d.RequireAuth, d.AuthLimit)
	}
	if d.SessionWS != nil {
		r.Get("/ws", d.RequireAuthWS, d.SessionWS)
	}

	protected := r.Group("", d.RequireAuth)
	if d.Profile != nil {
		d.Profile.RegisterRoutes(protected)
	}
	for _, rr := range d.Records {
		if rr != nil {
			rr.RegisterRoutes(protected)
		}
	}
}
