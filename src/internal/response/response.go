package response

import (
	"errors"
	"net/http"
	"pomodoro-api-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func Success(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func Error(c *gin.Context, statusCode int, error, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   error,
		"message": message,
	})
}

// FromError maps a service error onto a status code. Unknown errors are logged
// and reported as a generic server error without internal details.
func FromError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrTokenRevoked):
		Error(c, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrRecordNotFound):
		Error(c, http.StatusNotFound, "Not found", "The requested resource was not found or you do not have access to it")
	case errors.Is(err, models.ErrSessionAlreadyCompleted):
		Error(c, http.StatusConflict, "Session already completed", "The session has already been completed")
	case errors.Is(err, models.ErrDuplicateRecord):
		Error(c, http.StatusConflict, "Already exists", "A user with this username or email already exists")
	case errors.Is(err, models.ErrInvalidRange), errors.Is(err, models.ErrInvalidParams):
		Error(c, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		logrus.WithError(err).WithField("action", action).Error("Request failed")
		Error(c, http.StatusInternalServerError, "Internal server error", "Failed to "+action)
	}
}
