package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
)

// parseQueryIntStrict returns defaultVal for an absent key and an error for a
// present but non-numeric one.
func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
