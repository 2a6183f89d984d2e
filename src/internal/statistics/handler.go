package statistics

import (
	"context"
	"fmt"
	"net/http"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/middleware"
	"pomodoro-api-svc/src/internal/models"
	"pomodoro-api-svc/src/internal/response"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	GetStatistics(c *gin.Context)
	GetWeeklyStats(c *gin.Context)
	GetMonthlyStats(c *gin.Context)
	GetCalendarData(c *gin.Context)
	GetDailyDetail(c *gin.Context)
}

type handler struct {
	config   *config.Configuration
	service  Service
	location *time.Location
	now      func() time.Time
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:   cfg,
		service:  service,
		location: cfg.Location(),
		now:      time.Now,
	}
}

func (h *handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func (h *handler) GetStatistics(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "get statistics")
		return
	}

	stats, err := h.service.GetStatistics(ctx, userID)
	if err != nil {
		response.FromError(c, err, "get statistics")
		return
	}

	response.Success(c, http.StatusOK, stats, "Statistics retrieved successfully")
}

func (h *handler) GetWeeklyStats(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "get weekly statistics")
		return
	}

	week, err := h.service.GetWeeklyStats(ctx, userID)
	if err != nil {
		response.FromError(c, err, "get weekly statistics")
		return
	}

	response.Success(c, http.StatusOK, week, "Weekly statistics retrieved successfully")
}

func (h *handler) GetMonthlyStats(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "get monthly statistics")
		return
	}

	now := h.now().In(h.location)
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		response.FromError(c, err, "get monthly statistics")
		return
	}
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		response.FromError(c, err, "get monthly statistics")
		return
	}

	stats, err := h.service.GetMonthlyStats(ctx, userID, year, month)
	if err != nil {
		response.FromError(c, err, "get monthly statistics")
		return
	}

	response.Success(c, http.StatusOK, stats, "Monthly statistics retrieved successfully")
}

func (h *handler) GetCalendarData(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "get calendar data")
		return
	}

	start, err := h.dateQuery(c, "startDate")
	if err != nil {
		response.FromError(c, err, "get calendar data")
		return
	}
	end, err := h.dateQuery(c, "endDate")
	if err != nil {
		response.FromError(c, err, "get calendar data")
		return
	}

	data, err := h.service.GetCalendarData(ctx, userID, start, end)
	if err != nil {
		response.FromError(c, err, "get calendar data")
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"start":   data.StartDate,
		"end":     data.EndDate,
	}).Info("GetCalendarData completed successfully")

	response.Success(c, http.StatusOK, data, "Calendar data retrieved successfully")
}

func (h *handler) GetDailyDetail(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "get daily detail")
		return
	}

	date, err := h.dateQuery(c, "date")
	if err != nil {
		response.FromError(c, err, "get daily detail")
		return
	}
	if date == nil {
		response.FromError(c, fmt.Errorf("%w: date is required", models.ErrInvalidParams), "get daily detail")
		return
	}

	detail, err := h.service.GetDailyDetail(ctx, userID, *date)
	if err != nil {
		response.FromError(c, err, "get daily detail")
		return
	}

	response.Success(c, http.StatusOK, detail, "Daily detail retrieved successfully")
}

// dateQuery parses an optional yyyy-MM-dd (or RFC 3339) query parameter into a
// calendar date. Timestamps take their date in the service time zone.
func (h *handler) dateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(DateLayout, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		logrus.WithField(name, raw).Warn("Invalid date parameter")
		return nil, fmt.Errorf("%w: %s must be a date in yyyy-MM-dd format", models.ErrInvalidParams, name)
	}
	t = DayOf(t, h.location)
	return &t, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrInvalidParams, name)
	}
	return v, nil
}
