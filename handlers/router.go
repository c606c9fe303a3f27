package handlers

import (
	"myusers/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewEcho assembles the HTTP server: middleware, error handler, the declared operations and the
// operational endpoints /healthz and /metrics, which are not part of the API document.
// metrics, gatherer and health are optional.
func NewEcho(server ServerInterface, metrics *Metrics, gatherer prometheus.Gatherer, health *HealthReporter, logger log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	service.RegisterErrorHandler(e, logger)

	e.Use(
		RequestID(),
		RequestLogger(logger),
		metrics.Middleware(),
		middleware.Recover(),
	)

	RegisterHandlers(e, server)

	if health != nil {
		e.GET("/healthz", health.Healthz)
	}
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return e
}
