package routes

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

type NotificationRoutes struct {
	handler     *handlers.NotificationHandler
	jwtSecret   string
	rateLimiter *auth.RedisRateLimiter
}

func NewNotificationRoutes(handler *handlers.NotificationHandler, jwtSecret string, rateLimiter *auth.RedisRateLimiter) *NotificationRoutes {
	return &NotificationRoutes{
		handler:     handler,
		jwtSecret:   jwtSecret,
		rateLimiter: rateLimiter,
	}
}

// RegisterRoutes registers notification routes. The websocket endpoint
// authenticates inside the handler, so it stays outside the auth group.
func (n *NotificationRoutes) RegisterRoutes(router *gin.Engine) {
	limit := middleware.RateLimitMiddleware(n.rateLimiter.WithLimit(120, time.Minute))

	jwtSecretMiddleware := func(c *gin.Context) {
		c.Set("jwt_secret", n.jwtSecret)
		c.Next()
	}

	notifications := router.Group("/api/notifications")
	notifications.Use(middleware.NewAuthMiddleware(n.jwtSecret))
	notifications.GET("", limit, n.handler.ListNotifications)
	notifications.GET("/unread-count", limit, n.handler.GetUnreadCount)
	notifications.PUT("/read-all", limit, n.handler.MarkAllAsRead)
	notifications.GET("/:id", limit, n.handler.GetNotification)
	notifications.PUT("/:id/read", limit, n.handler.MarkAsRead)
	notifications.DELETE("/:id", limit, n.handler.DeleteNotification)

	ws := router.Group("/api/notifications")
	ws.GET("/ws", jwtSecretMiddleware, n.handler.WebSocketHandler)
}
