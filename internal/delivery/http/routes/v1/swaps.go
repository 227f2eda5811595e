package v1

import (
	"skill-swap/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterSwaps(r fiber.Router, swapHandler *handler.SwapHandler) {
	if r == nil {
		return
	}
	if swapHandler == nil {
		return
	}

	swapHandler.RegisterRoutes(r)
}
