package session

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
	GetSessions(c *gin.Context)
	GetSession(c *gin.Context)
	CreateSession(c *gin.Context)
	CompleteSession(c *gin.Context)
	DeleteSession(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:  cfg,
		service: service,
	}
}

func (h *handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func (h *handler) GetSessions(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "list sessions")
		return
	}

	sessions, err := h.service.ListSessions(ctx, userID)
	if err != nil {
		response.FromError(c, err, "list sessions")
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(sessions),
	}).Info("GetSessions completed successfully")

	response.Success(c, http.StatusOK, sessions, "Sessions retrieved successfully")
}

func (h *handler) GetSession(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, id, ok := h.caller(c, "get session")
	if !ok {
		return
	}

	session, err := h.service.GetSession(ctx, id, userID)
	if err != nil {
		response.FromError(c, err, "get session")
		return
	}

	response.Success(c, http.StatusOK, session, "Session retrieved successfully")
}

func (h *handler) CreateSession(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "create session")
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Invalid create session payload")
		response.FromError(c, fmt.Errorf("%w: %v", models.ErrInvalidParams, err), "create session")
		return
	}

	session, err := h.service.CreateSession(ctx, userID, &req)
	if err != nil {
		response.FromError(c, err, "create session")
		return
	}

	c.Header("Location", fmt.Sprintf("/api/pomodoro/%d", session.ID))
	response.Success(c, http.StatusCreated, session, "Session created successfully")
}

func (h *handler) CompleteSession(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, id, ok := h.caller(c, "complete session")
	if !ok {
		return
	}

	if err := h.service.CompleteSession(ctx, id, userID); err != nil {
		response.FromError(c, err, "complete session")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) DeleteSession(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	userID, id, ok := h.caller(c, "delete session")
	if !ok {
		return
	}

	if err := h.service.DeleteSession(ctx, id, userID); err != nil {
		response.FromError(c, err, "delete session")
		return
	}

	c.Status(http.StatusNoContent)
}

// caller resolves the authenticated user and the :id path parameter.
// An id that cannot name any session is reported as not found.
func (h *handler) caller(c *gin.Context, action string) (string, int64, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, action)
		return "", 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		logrus.WithField("id", c.Param("id")).Warn("Invalid session id")
		response.FromError(c, models.ErrSessionNotFound, action)
		return "", 0, false
	}

	return userID, id, true
}
