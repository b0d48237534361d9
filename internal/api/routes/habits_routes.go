package routes

import (
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type HabitsRoutes struct {
	handler   *handlers.HabitsHandler
	jwtSecret string
}

func NewHabitsRoutes(handler *handlers.HabitsHandler, jwtSecret string) *HabitsRoutes {
	return &HabitsRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes wires the habit endpoints. Static paths are registered
// before the :id routes so gin does not treat "heatmap" as an id.
func (h *HabitsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	validation := middleware.NewValidationMiddleware()
	invalidate := cache.CacheInvalidate("habits:*")
	// Heatmaps and long habit lists compress well
	compress := gzip.Gzip(gzip.DefaultCompression)

	habits := router.Group("/api/habits")
	habits.Use(middleware.NewAuthMiddleware(h.jwtSecret))

	habits.GET("", cache.CacheResponse(), compress, h.handler.ListHabits)
	habits.GET("/heatmap", cache.CacheResponse(), compress, h.handler.GetHeatmap)
	habits.GET("/top-streaks", cache.CacheResponse(), h.handler.GetTopStreaks)

	habits.POST("", validation.ValidateRequest(&dto.CreateHabitRequest{}), invalidate, h.handler.CreateHabit)
	habits.GET("/:id", cache.CacheResponse(), h.handler.GetHabit)
	habits.PUT("/:id", validation.ValidateRequest(&dto.UpdateHabitRequest{}), invalidate, h.handler.UpdateHabit)
	habits.DELETE("/:id", invalidate, h.handler.ArchiveHabit)

	habits.POST("/:id/complete", invalidate, h.handler.CompleteHabit)
	habits.POST("/:id/uncomplete", invalidate, h.handler.UncompleteHabit)
}
