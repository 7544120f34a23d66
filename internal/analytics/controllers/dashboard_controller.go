package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/canalcerto/canalcerto-backend/internal/analytics/models"
	"github.com/canalcerto/canalcerto-backend/internal/analytics/services"
	apperrors "github.com/canalcerto/canalcerto-backend/pkg/errors"
	"github.com/canalcerto/canalcerto-backend/ws"
)

// dateLayout matches the dashboard date pickers (dd/mm/yyyy).
const dateLayout = "02/01/2006"

// DashboardController handles the analytics dashboard endpoints.
type DashboardController struct {
	Dataset  *services.DatasetService
	Metrics  *services.MetricsService
	Insights *services.InsightService
	Hub      *ws.Hub
}

func NewDashboardController(ds *services.DatasetService, ms *services.MetricsService, is *services.InsightService, hub *ws.Hub) *DashboardController {
	return &DashboardController{Dataset: ds, Metrics: ms, Insights: is, Hub: hub}
}

// GetDashboard handles GET /api/analytics/dashboard
// Response structure: { "status": HTTP_CODE, "message": "Feedback", "data": {...} }
func (dc *DashboardController) GetDashboard(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	records := filter.Apply(dc.Dataset.Records())
	return ok(c, "Dashboard data retrieved successfully", dc.buildDashboard(records))
}

// GetChannels handles GET /api/analytics/channels
func (dc *DashboardController) GetChannels(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	records := filter.Apply(dc.Dataset.Records())
	return ok(c, "Channel metrics retrieved successfully", dc.Metrics.ChannelMetrics(records))
}

// GetDemographics handles GET /api/analytics/demographics
func (dc *DashboardController) GetDemographics(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	records := filter.Apply(dc.Dataset.Records())
	return ok(c, "Demographics retrieved successfully", dc.Metrics.Demographics(records))
}

// GetInsights handles GET /api/analytics/insights
func (dc *DashboardController) GetInsights(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	records := filter.Apply(dc.Dataset.Records())
	channels := dc.Metrics.ChannelMetrics(records)
	demo := dc.Metrics.Demographics(records)
	return ok(c, "Insights retrieved successfully", dc.Insights.FromMetrics(channels, demo))
}

// Regenerate handles POST /api/analytics/regenerate
// Rebuilds the dataset with the given count and seed, then pushes a fresh
// dashboard snapshot to every connected websocket client.
func (dc *DashboardController) Regenerate(c echo.Context) error {
	count, seed := dc.Dataset.Params()

	if s := c.QueryParam("count"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return badRequest(c, "invalid count")
		}
		count = v
	}
	if s := c.QueryParam("seed"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return badRequest(c, "invalid seed")
		}
		seed = v
	}

	if err := dc.Dataset.Regenerate(count, seed); err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidParameter) {
			return badRequest(c, err.Error())
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to regenerate dataset: " + err.Error(),
			"data":    nil,
		})
	}

	dash := dc.buildDashboard(dc.Dataset.Records())
	payload, err := json.Marshal(dash)
	if err != nil {
		err = apperrors.Wrap(apperrors.ErrRenderFailed, err.Error())
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to render dashboard snapshot: " + err.Error(),
			"data":    nil,
		})
	}
	if dc.Hub != nil {
		dc.Hub.Broadcast <- payload
	}

	return ok(c, "Dataset regenerated successfully", map[string]interface{}{
		"count": count,
		"seed":  seed,
	})
}

func (dc *DashboardController) buildDashboard(records []models.AppointmentRecord) models.DashboardData {
	channels := dc.Metrics.ChannelMetrics(records)
	demo := dc.Metrics.Demographics(records)
	return models.DashboardData{
		Overview:     dc.Metrics.Overview(records),
		Channels:     channels,
		Demographics: demo,
		Insights:     dc.Insights.FromMetrics(channels, demo),
	}
}

// parseFilter builds a Filter from query params. Repeated params are
// accepted for channel, status and sex (e.g. ?channel=SMS&channel=App).
func parseFilter(c echo.Context) (models.Filter, error) {
	var f models.Filter

	if s := c.QueryParam("start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, apperrors.Wrap(apperrors.ErrInvalidParameter, "invalid start date, expected dd/mm/yyyy")
		}
		f.Start = &t
	}
	if s := c.QueryParam("end"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, apperrors.Wrap(apperrors.ErrInvalidParameter, "invalid end date, expected dd/mm/yyyy")
		}
		// extend end to end of day
		t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		f.End = &t
	}

	for _, s := range c.QueryParams()["channel"] {
		if !models.ValidChannel(s) {
			return f, apperrors.Wrapf(apperrors.ErrInvalidParameter, "unknown channel %q", s)
		}
		f.Channels = append(f.Channels, models.Channel(s))
	}
	for _, s := range c.QueryParams()["status"] {
		if !models.ValidStatus(s) {
			return f, apperrors.Wrapf(apperrors.ErrInvalidParameter, "unknown status %q", s)
		}
		f.Statuses = append(f.Statuses, models.Status(s))
	}
	for _, s := range c.QueryParams()["sex"] {
		if !models.ValidSex(s) {
			return f, apperrors.Wrapf(apperrors.ErrInvalidParameter, "unknown sex %q", s)
		}
		f.Sexes = append(f.Sexes, models.Sex(s))
	}

	if s := c.QueryParam("age_min"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return f, apperrors.Wrap(apperrors.ErrInvalidParameter, "invalid age_min")
		}
		f.AgeMin = &v
	}
	if s := c.QueryParam("age_max"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return f, apperrors.Wrap(apperrors.ErrInvalidParameter, "invalid age_max")
		}
		f.AgeMax = &v
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return f, apperrors.Wrap(apperrors.ErrInvalidParameter, "age_min greater than age_max")
	}

	return f, nil
}

func ok(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": message,
		"data":    data,
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"status":  http.StatusBadRequest,
		"message": message,
		"data":    nil,
	})
}
