package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// RateLimitRejections counts requests rejected by the Redis rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_rate_limit_rejections_total",
		Help: "Total number of requests rejected by a rate limit",
	}, []string{"resource"})
)

// InitMetrics returns the process-wide Prometheus middleware.
// fiberprometheus registers its collectors on the default registry, so it is built once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware records request metrics, skipping the scrape endpoint itself.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		return p.Middleware(c)
	}
}
