package v1

import (
	"skill-swap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// RegisterAdmin expects r to have resolved the caller already. Bootstrap is
// the one admin route open to non-admins.
func RegisterAdmin(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterBootstrapRoutes(r)
	}

	admin := r.Group("")
	admin.Use(middleware.RequireAdmin())
	if h.AdminStats != nil {
		h.AdminStats.RegisterRoutes(admin)
	}
	if h.Skill != nil {
		h.Skill.RegisterAdminRoutes(admin)
	}
	if h.User != nil {
		h.User.RegisterAdminRoutes(admin)
	}
}
