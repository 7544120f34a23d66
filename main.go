package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/canalcerto/canalcerto-backend/config"
	"github.com/canalcerto/canalcerto-backend/internal/analytics/services"
	"github.com/canalcerto/canalcerto-backend/internal/routes"
	"github.com/canalcerto/canalcerto-backend/pkg/metrics"
	"github.com/canalcerto/canalcerto-backend/ws"
)

func main() {
	cfg := config.LoadConfig()

	logger := logrus.New()
	if cfg.AppEnv == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	metrics.Init(logger)

	// Generate the initial synthetic dataset; run-scoped, no persistence.
	dataset, err := services.NewDatasetService(cfg.DatasetSize, cfg.DatasetSeed, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to generate initial dataset")
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	routes.Init(e, dataset, hub, logger)

	logger.WithField("port", cfg.Port).Info("CanalCerto analytics backend listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}
