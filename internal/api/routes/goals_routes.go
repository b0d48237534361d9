package routes

import (
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type GoalsRoutes struct {
	handler   *handlers.GoalsHandler
	jwtSecret string
}

func NewGoalsRoutes(handler *handlers.GoalsHandler, jwtSecret string) *GoalsRoutes {
	return &GoalsRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all goal-related routes
func (g *GoalsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	validation := middleware.NewValidationMiddleware()

	goals := router.Group("/api/goals")
	goals.Use(middleware.NewAuthMiddleware(g.jwtSecret))

	goals.GET("", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), g.handler.ListGoals)
	goals.POST("", validation.ValidateRequest(&dto.CreateGoalRequest{}), cache.CacheInvalidate("goals:*"), g.handler.CreateGoal)

	goals.GET("/:id", cache.CacheResponse(), g.handler.GetGoal)
	goals.PUT("/:id", validation.ValidateRequest(&dto.UpdateGoalRequest{}), cache.CacheInvalidate("goals:*"), g.handler.UpdateGoal)
	goals.DELETE("/:id", cache.CacheInvalidate("goals:*"), g.handler.DeleteGoal)

	goals.POST("/:id/milestones/:index/toggle", cache.CacheInvalidate("goals:*"), g.handler.ToggleMilestone)
}
