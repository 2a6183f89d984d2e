package server

import (
	"context"
	"net/http"
	"pomodoro-api-svc/src/internal/dependency"
	"pomodoro-api-svc/src/internal/middleware"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)

	authMiddleware := middleware.NewAuthMiddleware(deps.TokenManager, deps.CacheService, &deps.Config.Security)
	setupUserRoutes(router, deps, authMiddleware)
	setupPomodoroRoutes(router, deps, authMiddleware)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	cfg := deps.Config
	checks := deps.HealthChecks()

	router.GET("/health", func(c *gin.Context) {
		log.Debug("Health check endpoint requested")

		status := gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		for name, result := range runChecks(c.Request.Context(), checks) {
			if result != nil {
				status[name] = "error: " + result.Error()
				continue
			}
			status[name] = "ok"
		}

		c.JSON(http.StatusOK, status)
	})

	router.GET("/health/detailed", func(c *gin.Context) {
		log.Info("Detailed health check endpoint requested")

		components := gin.H{}
		overall := "operational"
		for name, result := range runChecks(c.Request.Context(), checks) {
			components[name] = getStatus(result == nil)
			if result != nil {
				overall = "degraded"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  overall,
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"components": gin.H{
				"database": components,
				"services": gin.H{
					"sessions":   "operational",
					"statistics": "operational",
					"cache":      getStatus(cfg.Cache.Enabled && deps.Redis != nil),
					"events":     getStatus(deps.RabbitMQ != nil),
				},
			},
		})
	})
}

func setupUserRoutes(router *gin.Engine, deps *dependency.Manager, authMiddleware *middleware.AuthMiddleware) {
	handler := deps.UserHandler

	users := router.Group("/api/user")
	{
		users.POST("/register", setRouteName("registerUser"), handler.Register)
		users.POST("/login", setRouteName("loginUser"), handler.Login)

		users.GET("/profile",
			setRouteName("getProfile"),
			authMiddleware.RequireAuth(),
			handler.GetProfile)

		users.POST("/logout",
			setRouteName("logoutUser"),
			authMiddleware.RequireAuth(),
			handler.Logout)
	}
}

func setupPomodoroRoutes(router *gin.Engine, deps *dependency.Manager, authMiddleware *middleware.AuthMiddleware) {
	sessions := deps.SessionHandler
	stats := deps.StatisticsHandler

	// Apply route name FIRST, then auth middleware
	pomodoro := router.Group("/api/pomodoro")
	{
		pomodoro.GET("/statistics", setRouteName("getStatistics"), authMiddleware.RequireAuth(), stats.GetStatistics)
		pomodoro.GET("/weekly-stats", setRouteName("getWeeklyStats"), authMiddleware.RequireAuth(), stats.GetWeeklyStats)
		pomodoro.GET("/monthly-stats", setRouteName("getMonthlyStats"), authMiddleware.RequireAuth(), stats.GetMonthlyStats)
		pomodoro.GET("/calendar-data", setRouteName("getCalendarData"), authMiddleware.RequireAuth(), stats.GetCalendarData)
		pomodoro.GET("/daily-detail", setRouteName("getDailyDetail"), authMiddleware.RequireAuth(), stats.GetDailyDetail)

		pomodoro.GET("", setRouteName("getSessions"), authMiddleware.RequireAuth(), sessions.GetSessions)
		pomodoro.POST("", setRouteName("createSession"), authMiddleware.RequireAuth(), sessions.CreateSession)
		pomodoro.GET("/:id", setRouteName("getSession"), authMiddleware.RequireAuth(), sessions.GetSession)
		pomodoro.PUT("/:id/complete", setRouteName("completeSession"), authMiddleware.RequireAuth(), sessions.CompleteSession)
		pomodoro.DELETE("/:id", setRouteName("deleteSession"), authMiddleware.RequireAuth(), sessions.DeleteSession)
	}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

// runChecks pings every backend with a short timeout.
func runChecks(ctx context.Context, checks map[string]func(ctx context.Context) error) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	results := make(map[string]error, len(checks))
	for name, check := range checks {
		results[name] = check(ctx)
	}
	return results
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}
