package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/canalcerto/canalcerto-backend/internal/analytics/controllers"
	"github.com/canalcerto/canalcerto-backend/internal/analytics/services"
	"github.com/canalcerto/canalcerto-backend/pkg/metrics"
	"github.com/canalcerto/canalcerto-backend/ws"
)

// Init wires all routes using the Echo framework.
func Init(e *echo.Echo, dataset *services.DatasetService, hub *ws.Hub, logger *logrus.Logger) {
	// Services
	metricsService := services.NewMetricsService(logger)
	insightService := services.NewInsightService()

	// Controllers
	dashboardController := controllers.NewDashboardController(dataset, metricsService, insightService, hub)

	e.Use(httpMetrics)

	// Main API group
	api := e.Group("/api")

	analytics := api.Group("/analytics")
	analytics.GET("/dashboard", dashboardController.GetDashboard)
	analytics.GET("/channels", dashboardController.GetChannels)
	analytics.GET("/demographics", dashboardController.GetDemographics)
	analytics.GET("/insights", dashboardController.GetInsights)
	analytics.POST("/regenerate", dashboardController.Regenerate)

	// Dashboard push channel
	e.GET("/ws/dashboard", ws.ServeWS(hub))

	// Operational endpoints
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// httpMetrics records request counts and latency per route.
func httpMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		route := c.Path()
		if route == "" {
			route = c.Request().URL.Path
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Response().Status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}
