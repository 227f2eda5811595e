package handler

import (
	"context"
	"time"

	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db    usecase.Pinger
	cache usecase.Pinger
}

// NewHealthHandler accepts nil pingers; a nil cache is reported as disabled.
func NewHealthHandler(db, cache usecase.Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

// Check reports 503 only when the database is unreachable. Redis is optional.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthPingTimeout)
	defer cancel()

	dbStatus := pingStatus(ctx, h.db)
	cacheStatus := pingStatus(ctx, h.cache)

	data := map[string]string{
		"database": dbStatus,
		"cache":    cacheStatus,
	}
	if dbStatus != "up" {
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func pingStatus(ctx context.Context, p usecase.Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
