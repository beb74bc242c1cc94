package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/pkg/jwt"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated user's information
type UserContext struct {
	UserID int `json:"user_id"`
}

// SessionChecker reports whether a token still has a session
type SessionChecker interface {
	ExistsByToken(ctx context.Context, token string) (bool, error)
}

func abortUnauthorized(c *gin.Context, errCode, message, code string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   errCode,
		"message": message,
		"code":    code,
	})
	c.Abort()
}

// AuthMiddleware creates a middleware that validates JWT tokens and requires
// a live session for each of them
func AuthMiddleware(jwtService *jwt.Service, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logrus.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		})

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Auth failed: missing authorization header")
			abortUnauthorized(c, "unauthorized", "Authorization header is required", "MISSING_AUTH_HEADER")
			return
		}

		// Check Bearer token format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Auth failed: invalid authorization format")
			abortUnauthorized(c, "unauthorized", "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			log.Warn("Auth failed: empty token")
			abortUnauthorized(c, "unauthorized", "Token cannot be empty", "INVALID_AUTH_FORMAT")
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				log.WithError(err).Warn("Auth failed: token expired")
				abortUnauthorized(c, "token_expired", "Access token has expired. Please sign in again.", "TOKEN_EXPIRED")
			} else {
				log.WithError(err).Warn("Auth failed: invalid token")
				abortUnauthorized(c, "invalid_token", "Invalid access token", "INVALID_TOKEN")
			}
			return
		}

		exists, err := sessions.ExistsByToken(c.Request.Context(), tokenString)
		if err != nil {
			log.WithError(err).Error("Auth failed: session lookup error")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to verify session",
			})
			c.Abort()
			return
		}
		if !exists {
			log.WithField("user_id", claims.UserID).Warn("Auth failed: session not found")
			abortUnauthorized(c, "unauthorized", "Session not found. Please sign in again.", "SESSION_NOT_FOUND")
			return
		}

		c.Set(UserContextKey, UserContext{UserID: claims.UserID})

		c.Next()
	}
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}

	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics (use only after AuthMiddleware)
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure AuthMiddleware is applied")
	}
	return userCtx
}
