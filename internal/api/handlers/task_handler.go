package handlers

import (
	"errors"
	"net/http"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/task"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles HTTP requests for tasks
type TaskHandler struct {
	service task.Service
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask handles the creation of a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.CreateTaskRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.CreateTaskRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	created, err := h.service.CreateTask(c.Request.Context(), userID, task.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Tags:        req.Tags,
	})
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.TaskToResponse(created)})
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.service.GetTask(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.TaskToResponse(found)})
}

// ListTasks returns the user's tasks with optional filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var filter dto.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domainFilter := task.TaskFilter{
		UserID:   userID,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Status != "" {
		status := task.TaskStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Priority != "" {
		priority := task.TaskPriority(filter.Priority)
		domainFilter.Priority = &priority
	}
	if filter.Tag != "" {
		domainFilter.Tag = &filter.Tag
	}

	items, total, err := h.service.ListTasks(c.Request.Context(), domainFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.TaskListResponse{
		Tasks:      dto.TasksToResponse(items),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}})
}

// UpdateTask handles updating an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req dto.UpdateTaskRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.UpdateTaskRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.UpdateTaskRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	updated, err := h.service.UpdateTask(c.Request.Context(), id, userID, task.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Tags:        req.Tags,
	})
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.TaskToResponse(updated)})
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), id, userID); err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// CompleteTask marks a task completed. Repeated calls are no-ops.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	completed, err := h.service.CompleteTask(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.TaskToResponse(completed)})
}

func taskErrorStatus(err error) int {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrInvalidInput), errors.Is(err, task.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
