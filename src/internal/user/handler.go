package user

import (
	"context"
	"fmt"
	"net/http"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/middleware"
	"pomodoro-api-svc/src/internal/models"
	"pomodoro-api-svc/src/internal/response"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetProfile(c *gin.Context)
	Logout(c *gin.Context)
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

func (h *handler) Register(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Invalid register payload")
		response.FromError(c, fmt.Errorf("%w: %v", models.ErrInvalidParams, err), "register user")
		return
	}

	profile, err := h.service.Register(ctx, &req)
	if err != nil {
		response.FromError(c, err, "register user")
		return
	}

	response.Success(c, http.StatusCreated, profile, "User registered successfully")
}

func (h *handler) Login(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Invalid login payload")
		response.FromError(c, fmt.Errorf("%w: %v", models.ErrInvalidParams, err), "login")
		return
	}

	result, err := h.service.Login(ctx, &req)
	if err != nil {
		response.FromError(c, err, "login")
		return
	}

	response.Success(c, http.StatusOK, result, "Login successful")
}

func (h *handler) GetProfile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "get profile")
		return
	}

	profile, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		response.FromError(c, err, "get profile")
		return
	}

	response.Success(c, http.StatusOK, profile, "Profile retrieved successfully")
}

func (h *handler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	claims, ok := middleware.TokenClaims(c)
	if !ok {
		response.FromError(c, models.ErrUnauthenticated, "logout")
		return
	}

	if err := h.service.Logout(ctx, claims); err != nil {
		response.FromError(c, err, "logout")
		return
	}

	response.Success(c, http.StatusOK, nil, "Logged out successfully")
}
