package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// CompletionXP is awarded when a task first transitions to completed.
const CompletionXP = 10

// Task represents a single actionable item owned by a user
type Task struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index:idx_task_user"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Status      TaskStatus     `json:"status" gorm:"not null;default:'todo';index:idx_task_status"`
	Priority    TaskPriority   `json:"priority" gorm:"not null;default:'medium';index:idx_task_priority"`
	Deadline    *time.Time     `json:"deadline,omitempty" gorm:"index:idx_task_deadline"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

type UpdateTaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// TaskMetrics summarizes a user's tasks for the dashboard.
type TaskMetrics struct {
	Total         int64 `json:"total"`
	Completed     int64 `json:"completed"`
	InProgress    int64 `json:"in_progress"`
	Todo          int64 `json:"todo"`
	Overdue       int64 `json:"overdue"`
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// Validate checks if the task data is valid
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidInput
	}
	if t.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new task record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// BeforeUpdate is called before updating a task record
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// IsOverdue reports whether the deadline has passed without completion.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusCompleted && t.Deadline != nil && t.Deadline.Before(now)
}
