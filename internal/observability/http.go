package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScrapeHandler serves the gradebook_* collectors to a Prometheus scraper.
// Registration is idempotent, so mounting the handler is safe even when the
// request middleware already initialised the collectors.
func ScrapeHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
