package v1

import (
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	UserSkill  *handler.UserSkillHandler
	Skill      *handler.SkillHandler
	Swap       *handler.SwapHandler
	AdminStats *handler.AdminStatsHandler
	WS         *ws.Handler
}

type Middlewares struct {
	Auth        *middleware.AuthMiddleware
	RequireUser fiber.Handler
	RateLimiter *middleware.RateLimiter
}

// Register mounts every /api/v1 route. Inside a protected group the token is
// verified first, then the per-caller limiter runs, then the local user lookup.
func Register(r fiber.Router, h Handlers, mw Middlewares) {
	if r == nil || mw.Auth == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"), mw.Auth.Middleware())
	}

	if h.WS != nil && mw.RequireUser != nil {
		r.Get("/ws/swaps", mw.Auth.QueryTokenMiddleware(), mw.RequireUser, h.WS.HandleSwapsWS)
	}

	RegisterUsers(protectedGroup(r, "/users", mw, true), h.User, h.UserSkill)
	RegisterAdmin(protectedGroup(r, "/admin", mw, true), h)

	// Registered last: an unprefixed group's middleware matches every path
	// below it. The swap manager resolves the caller itself, so no user lookup.
	rest := protectedGroup(r, "", mw, false)
	if h.Skill != nil {
		h.Skill.RegisterRoutes(rest)
	}
	RegisterSwaps(rest, h.Swap)
}

func protectedGroup(r fiber.Router, prefix string, mw Middlewares, requireUser bool) fiber.Router {
	grp := r.Group(prefix)
	grp.Use(mw.Auth.Middleware())
	if mw.RateLimiter != nil {
		grp.Use(mw.RateLimiter.GeneralMiddleware())
	}
	if requireUser && mw.RequireUser != nil {
		grp.Use(mw.RequireUser)
	}
	return grp
}
