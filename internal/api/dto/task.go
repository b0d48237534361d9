package dto

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/task"
	"github.com/google/uuid"
)

// CreateTaskRequest represents the request to create a new task
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,not_empty" example:"Write quarterly report"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty" binding:"omitempty,oneof=low medium high" example:"medium"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// UpdateTaskRequest represents the request to update an existing task
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress completed"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// TaskListFilter carries the list query parameters
type TaskListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=todo in_progress completed"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high"`
	Tag      string `form:"tag"`
	Page     int    `form:"page,default=0"`
	PageSize int    `form:"page_size,default=20"`
}

// TaskToResponse converts a domain task to its API representation
func TaskToResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Deadline:    t.Deadline,
		Tags:        []string(t.Tags),
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TasksToResponse converts a slice of domain tasks
func TasksToResponse(items []task.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(items))
	for i := range items {
		out = append(out, TaskToResponse(&items[i]))
	}
	return out
}
