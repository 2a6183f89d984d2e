package middleware

import (
	"errors"
	"net/http"
	"pomodoro-api-svc/src/internal/auth"
	"pomodoro-api-svc/src/internal/cache"
	"pomodoro-api-svc/src/internal/config"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ContextUserID   = "user_id"
	ContextTokenID  = "token_id"
	ContextUsername = "username"
	ContextEmail    = "user_email"
	ContextClaims   = "token_claims"
)

// AuthMiddleware handles authentication
type AuthMiddleware struct {
	tokens         *auth.TokenManager
	cacheService   cache.Service
	singleUserMode bool
	defaultUserID  string
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *auth.TokenManager, cacheService cache.Service, cfg *config.SecuritySettings) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:         tokens,
		cacheService:   cacheService,
		singleUserMode: cfg.SingleUserMode,
		defaultUserID:  cfg.DefaultUserID,
	}
}

// RequireAuth validates the bearer token and stores the caller in the context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" && m.singleUserMode {
			logrus.WithField("user_id", m.defaultUserID).Debug("Single-user mode, using default user")
			c.Set(ContextUserID, m.defaultUserID)
			c.Next()
			return
		}

		token := extractToken(authHeader)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authorization token is required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			logrus.WithError(err).Warn("JWT token validation failed")
			message := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "Token expired - please login again"
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   message,
			})
			c.Abort()
			return
		}

		revoked, err := m.cacheService.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logrus.WithError(err).Error("Token revocation check failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Token validation error",
			})
			c.Abort()
			return
		}

		if revoked {
			logrus.WithField("token_id", claims.ID).Warn("Revoked token used")
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Session ended - please login again",
			})
			c.Abort()
			return
		}

		// Store user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextTokenID, claims.ID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextClaims, claims)

		logrus.WithFields(logrus.Fields{
			"user_id":  claims.UserID,
			"token_id": claims.ID,
		}).Debug("User authenticated successfully")

		c.Next()
	}
}

// UserID returns the authenticated caller set by RequireAuth.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserID)
	return userID, userID != ""
}

// TokenClaims returns the parsed token, absent in single-user mode.
func TokenClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// extractToken extracts JWT token from "Bearer <token>"
func extractToken(authHeader string) string {
	if authHeader == "" {
		logrus.Debug("Authorization header missing")
		return ""
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		logrus.Warn("Invalid authorization header format")
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}
