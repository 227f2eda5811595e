package handler

import (
	"log"
	"time"

	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminStatsHandler struct {
	uc  usecase.PlatformStatsUsecase
	log *log.Logger
}

func NewAdminStatsHandler(uc usecase.PlatformStatsUsecase, logger *log.Logger) *AdminStatsHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &AdminStatsHandler{uc: uc, log: logger}
}

func (h *AdminStatsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/stats", h.GetStats)
}

// GetStats always answers 200; sections that failed to load are zero valued
// and the health block says which dependency is down.
func (h *AdminStatsHandler) GetStats(c fiber.Ctx) error {
	start := time.Now()

	data, err := h.uc.GetStats(c.Context())
	if err != nil {
		h.log.Printf("Admin stats partial | duration=%s err=%v", time.Since(start), err)
		return response.Success(c, fiber.StatusOK, response.MessageOK, data)
	}

	h.log.Printf("Admin stats served | duration=%s", time.Since(start))
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
