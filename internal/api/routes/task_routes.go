package routes

import (
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type TaskRoutes struct {
	handler   *handlers.TaskHandler
	jwtSecret string
}

func NewTaskRoutes(handler *handlers.TaskHandler, jwtSecret string) *TaskRoutes {
	return &TaskRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all task-related routes
func (t *TaskRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	validation := middleware.NewValidationMiddleware()

	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.NewAuthMiddleware(t.jwtSecret))

	tasks.GET("", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), t.handler.ListTasks)
	tasks.POST("", validation.ValidateRequest(&dto.CreateTaskRequest{}), cache.CacheInvalidate("tasks:*"), t.handler.CreateTask)

	tasks.GET("/:id", cache.CacheResponse(), t.handler.GetTask)
	tasks.PUT("/:id", validation.ValidateRequest(&dto.UpdateTaskRequest{}), cache.CacheInvalidate("tasks:*"), t.handler.UpdateTask)
	tasks.DELETE("/:id", cache.CacheInvalidate("tasks:*"), t.handler.DeleteTask)

	tasks.POST("/:id/complete", cache.CacheInvalidate("tasks:*"), t.handler.CompleteTask)
}
