package task

import (
	"context"
	"fmt"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/events"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/streaks"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Rewards awards gamification points to a user. Implemented by the user
// service; declared here so the task package does not import it.
type Rewards interface {
	AwardXP(ctx context.Context, userID uuid.UUID, points int) error
}

type Service interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	UpdateTask(ctx context.Context, id uuid.UUID, userID uuid.UUID, input UpdateTaskInput) (*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	CompleteTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Task, error)
	SendDueSoonReminders(ctx context.Context, window time.Duration) error
	GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*TaskMetrics, error)
}

type service struct {
	repo      TaskRepository
	rewards   Rewards
	notifySvc notification.Service
	redis     *cache.RedisClient
	logger    *zap.Logger
	loc       *time.Location
}

func NewService(repo TaskRepository, rewards Rewards, notifySvc notification.Service, redis *cache.RedisClient, logger *zap.Logger, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:      repo,
		rewards:   rewards,
		notifySvc: notifySvc,
		redis:     redis,
		logger:    logger,
		loc:       loc,
	}
}

func (s *service) CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}

	priority := TaskPriority(input.Priority)
	if input.Priority == "" {
		priority = TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidInput
	}

	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      TaskStatusTodo,
		Priority:    priority,
		Deadline:    input.Deadline,
		Tags:        input.Tags,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, userID, task.ID, map[string]interface{}{
		"action":  "task_created",
		"task_id": task.ID,
	})

	return task, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Task, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *service) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateTask(ctx context.Context, id uuid.UUID, userID uuid.UUID, input UpdateTaskInput) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrInvalidInput
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		priority := TaskPriority(*input.Priority)
		if !priority.IsValid() {
			return nil, ErrInvalidInput
		}
		task.Priority = priority
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	if input.Status != nil {
		status := TaskStatus(*input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		// Completing through a status update goes through the same guard
		// as CompleteTask so XP is never double-awarded.
		if status == TaskStatusCompleted && task.Status != TaskStatusCompleted {
			return s.complete(ctx, task)
		}
		if status != TaskStatusCompleted && task.Status == TaskStatusCompleted {
			task.CompletedAt = nil
		}
		task.Status = status
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, userID, task.ID, map[string]interface{}{
		"action":  "task_updated",
		"task_id": task.ID,
	})

	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.publishDashboardEvent(ctx, userID, id, map[string]interface{}{
		"action":  "task_deleted",
		"task_id": id,
	})

	return nil
}

// CompleteTask marks the task completed. The status check makes repeated
// calls no-ops: XP is only awarded on the first transition to completed.
func (s *service) CompleteTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if task.Status == TaskStatusCompleted {
		return task, nil
	}

	return s.complete(ctx, task)
}

func (s *service) complete(ctx context.Context, task *Task) (*Task, error) {
	now := time.Now()
	task.Status = TaskStatusCompleted
	task.CompletedAt = &now

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.rewards != nil {
		if err := s.rewards.AwardXP(ctx, task.UserID, CompletionXP); err != nil {
			s.logger.Error("failed to award task completion XP",
				zap.String("task_id", task.ID.String()),
				zap.Error(err))
		}
	}

	s.publishDashboardEvent(ctx, task.UserID, task.ID, map[string]interface{}{
		"action":  "task_completed",
		"task_id": task.ID,
	})

	return task, nil
}

// SendDueSoonReminders notifies owners of tasks whose deadline falls
// inside the given window from now.
func (s *service) SendDueSoonReminders(ctx context.Context, window time.Duration) error {
	now := time.Now()
	tasks, err := s.repo.FindDueSoon(ctx, now, now.Add(window))
	if err != nil {
		return fmt.Errorf("failed to find tasks due soon: %w", err)
	}

	var sent int
	for i := range tasks {
		if s.notifySvc == nil {
			break
		}
		t := &tasks[i]
		err := s.notifySvc.CreateForUser(ctx, t.UserID, notification.TaskDueSoon,
			"Task due soon",
			fmt.Sprintf("%q is due %s.", t.Title, t.Deadline.In(s.loc).Format("Mon 15:04")),
			map[string]string{"task_id": t.ID.String()},
			"tasks", t.ID)
		if err != nil {
			s.logger.Error("failed to send due-soon reminder",
				zap.String("task_id", t.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("sent task reminders", zap.Int("count", sent))
	}
	return nil
}

// GetDashboardMetrics summarizes the user's tasks, including a streak over
// the distinct days with at least one task completion.
func (s *service) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*TaskMetrics, error) {
	counts, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	overdue, err := s.repo.CountOverdue(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.CompletionDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys := make([]streaks.DayKey, 0, len(days))
	for _, d := range days {
		keys = append(keys, streaks.NewDayKey(d, time.UTC))
	}
	today := streaks.NewDayKey(now, s.loc)

	metrics := &TaskMetrics{
		Completed:     counts[TaskStatusCompleted],
		InProgress:    counts[TaskStatusInProgress],
		Todo:          counts[TaskStatusTodo],
		Overdue:       overdue,
		CurrentStreak: streaks.Current(keys, today),
		LongestStreak: streaks.Longest(keys),
	}
	metrics.Total = metrics.Completed + metrics.InProgress + metrics.Todo
	return metrics, nil
}

func (s *service) publishDashboardEvent(ctx context.Context, userID uuid.UUID, entityID uuid.UUID, details map[string]interface{}) {
	if s.redis == nil {
		return
	}
	event := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Details:   details,
	}
	if err := s.redis.PublishDashboardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}
