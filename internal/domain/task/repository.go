package task

import (
	"context"
	"errors"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskFilter defines filtering options for tasks
type TaskFilter struct {
	UserID       uuid.UUID
	Status       *TaskStatus
	Priority     *TaskPriority
	Tag          *string
	DueDateStart *time.Time
	DueDateEnd   *time.Time
	Page         int
	PageSize     int
}

// TaskRepository defines the interface for task persistence operations
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	CountByStatus(ctx context.Context, userID uuid.UUID) (map[TaskStatus]int64, error)
	CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	CompletionDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
	FindDueSoon(ctx context.Context, from, to time.Time) ([]Task, error)
}

type taskRepository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Task, error) {
	var task Task
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	var tasks []Task
	var total int64

	query := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Tag != nil {
		query = query.Where("? = ANY(tags)", *filter.Tag)
	}
	if filter.DueDateStart != nil {
		query = query.Where("deadline >= ?", *filter.DueDateStart)
	}
	if filter.DueDateEnd != nil {
		query = query.Where("deadline < ?", *filter.DueDateEnd)
	}

	err := query.Model(&Task{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 100
	}

	err = query.Order("created_at DESC").
		Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *taskRepository) Update(ctx context.Context, task *Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountByStatus(ctx context.Context, userID uuid.UUID) (map[TaskStatus]int64, error) {
	var results []struct {
		Status TaskStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&Task{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[TaskStatus]int64)
	for _, result := range results {
		counts[result.Status] = result.Count
	}
	return counts, nil
}

func (r *taskRepository) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Task{}).
		Where("user_id = ? AND status != ? AND deadline IS NOT NULL AND deadline < ?",
			userID, TaskStatusCompleted, now).
		Count(&count).Error
	return count, err
}

// CompletionDays returns the distinct days on which the user completed at
// least one task, in ascending order.
func (r *taskRepository) CompletionDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	var days []time.Time
	err := r.db.WithContext(ctx).Model(&Task{}).
		Select("DISTINCT DATE(completed_at) as day").
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("day ASC").
		Pluck("day", &days).Error
	return days, err
}

func (r *taskRepository) FindDueSoon(ctx context.Context, from, to time.Time) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("status != ? AND deadline IS NOT NULL AND deadline >= ? AND deadline < ?",
			TaskStatusCompleted, from, to).
		Find(&tasks).Error
	return tasks, err
}
