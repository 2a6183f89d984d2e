package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"pomodoro-api-svc/src/internal/models"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "unauthenticated", err: models.ErrUnauthenticated, expected: http.StatusUnauthorized},
		{name: "not found", err: models.ErrSessionNotFound, expected: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", models.ErrSessionNotFound), expected: http.StatusNotFound},
		{name: "already completed", err: models.ErrSessionAlreadyCompleted, expected: http.StatusConflict},
		{name: "duplicate user", err: models.ErrDuplicateRecord, expected: http.StatusConflict},
		{name: "invalid range", err: fmt.Errorf("%w: month 13", models.ErrInvalidRange), expected: http.StatusBadRequest},
		{name: "invalid params", err: models.ErrInvalidParams, expected: http.StatusBadRequest},
		{name: "storage failure", err: errors.New("connection reset"), expected: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err, "load data")

			assert.Equal(t, tt.expected, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestFromErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, errors.New("dial tcp 10.0.0.3:27017: refused"), "load statistics")

	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Contains(t, w.Body.String(), "Failed to load statistics")
}
