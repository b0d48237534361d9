package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/logger"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.NewLogger()

const bearerPrefix = "Bearer "

func abortUnauthorized(c *gin.Context, reason string) {
	log.Warn("Request rejected", zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusUnauthorized, gin.H{"error": reason})
	c.Abort()
}

// NewAuthMiddleware authenticates the bearer token and the session behind
// it. On success the context carries user_id, email, token and session.
func NewAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "authorization header is required")
			return
		}
		token := strings.TrimPrefix(header, bearerPrefix)

		if auth.GetTokenBlacklist().IsBlacklisted(token) {
			abortUnauthorized(c, "token has been invalidated")
			return
		}

		claims, err := auth.ValidateToken(token, jwtSecret)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		store := auth.GetSessionStore()
		session, ok := store.GetSession(token)
		if !ok {
			abortUnauthorized(c, "invalid or expired session")
			return
		}
		// A token replayed against someone else's session is rejected.
		if session.UserID != claims.UserID {
			abortUnauthorized(c, "invalid session")
			return
		}
		store.UpdateSessionActivity(token)

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("token", token)
		c.Set("session", session)
		c.Next()
	}
}

// RateLimitMiddleware throttles by client IP and path using the supplied
// limiter.
func RateLimitMiddleware(limiter auth.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", c.ClientIP(), c.Request.URL.Path)

		allowed, remaining, resetAt, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Error("Rate limiter error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", resetAt.String())

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":    "rate limit exceeded",
				"reset_in": time.Until(resetAt).String(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID reads the authenticated user's ID set by NewAuthMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	return v.(uuid.UUID), true
}
