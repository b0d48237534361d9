package routes

import (
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type FocusRoutes struct {
	handler   *handlers.FocusHandler
	jwtSecret string
}

func NewFocusRoutes(handler *handlers.FocusHandler, jwtSecret string) *FocusRoutes {
	return &FocusRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all focus-session routes
func (f *FocusRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	validation := middleware.NewValidationMiddleware()

	focus := router.Group("/api/focus-sessions")
	focus.Use(middleware.NewAuthMiddleware(f.jwtSecret))

	focus.GET("", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), f.handler.ListSessions)
	focus.POST("", validation.ValidateRequest(&dto.CreateFocusSessionRequest{}), cache.CacheInvalidate("focus:*"), f.handler.CreateSession)

	focus.GET("/:id", cache.CacheResponse(), f.handler.GetSession)
	focus.DELETE("/:id", cache.CacheInvalidate("focus:*"), f.handler.DeleteSession)
}
