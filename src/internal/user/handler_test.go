package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/middleware"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc, tokens, c := newTestUserService(t)
	cfg := &config.Configuration{App: config.Application{Timeout: 5}, Security: *testSecurity}
	h := NewHandler(cfg, svc)
	authMiddleware := middleware.NewAuthMiddleware(tokens, c, &cfg.Security)

	r := gin.New()
	r.POST("/api/user/register", h.Register)
	r.POST("/api/user/login", h.Login)
	r.GET("/api/user/profile", authMiddleware.RequireAuth(), h.GetProfile)
	r.POST("/api/user/logout", authMiddleware.RequireAuth(), h.Logout)
	return r
}

func send(r *gin.Engine, method, target, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserEndpoints(t *testing.T) {
	r := newUserRouter(t)

	w := send(r, http.MethodPost, "/api/user/register", "", gin.H{"username": "ayse", "email": "ayse@example.com", "password": "s3cret!"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = send(r, http.MethodPost, "/api/user/register", "", gin.H{"username": "ayse", "email": "ayse@example.com", "password": "s3cret!"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(r, http.MethodPost, "/api/user/login", "", gin.H{"login": "ayse", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodPost, "/api/user/login", "", gin.H{"login": "ayse", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	w = send(r, http.MethodGet, "/api/user/profile", login.Data.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"ayse"`)

	w = send(r, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodPost, "/api/user/logout", login.Data.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newUserRouter(t)

	w := send(r, http.MethodPost, "/api/user/register", "", gin.H{"username": "ay", "email": "not-an-email", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
