package routes

import (
	v1 "profile-hub/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, users v1.UsersDeps) {
	if r == nil {
		return
	}

	v1.RegisterUsers(r.Group("/users"), users)
}
