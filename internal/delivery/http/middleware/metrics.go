package middleware

import (
	"time"

	"skill-swap/internal/metrics"

	"github.com/gofiber/fiber/v3"
)

// Metrics records request counts and latency labelled by route pattern, not
// raw path, to keep label cardinality bounded.
func Metrics(rec metrics.Recorder) fiber.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = normalizeError(err)
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		rec.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
