package goals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/events"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTitleRequired      = errors.New("goal title is required")
	ErrTargetDateRequired = errors.New("goal target date is required")
	ErrMilestoneIndex     = errors.New("milestone index out of range")
)

// Rewards awards gamification points to a user. Implemented by the user
// service; declared here so the goals package does not import it.
type Rewards interface {
	AwardXP(ctx context.Context, userID uuid.UUID, points int) error
}

type Service interface {
	CreateGoal(ctx context.Context, userID uuid.UUID, input CreateGoalInput) (*Goal, error)
	GetGoal(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context, filter GoalFilter) ([]Goal, int64, error)
	UpdateGoal(ctx context.Context, id uuid.UUID, userID uuid.UUID, input UpdateGoalInput) (*Goal, error)
	DeleteGoal(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	ToggleMilestone(ctx context.Context, id uuid.UUID, userID uuid.UUID, index int) (*Goal, error)
	GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*GoalMetrics, error)
}

type service struct {
	repo      Repository
	rewards   Rewards
	notifySvc notification.Service
	redis     *cache.RedisClient
	logger    *zap.Logger
}

func NewService(repo Repository, rewards Rewards, notifySvc notification.Service, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		rewards:   rewards,
		notifySvc: notifySvc,
		redis:     redis,
		logger:    logger,
	}
}

func (s *service) CreateGoal(ctx context.Context, userID uuid.UUID, input CreateGoalInput) (*Goal, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.TargetDate.IsZero() {
		return nil, ErrTargetDateRequired
	}

	goal := &Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		TargetDate:  input.TargetDate,
	}
	if err := goal.EncodeMilestones(input.Milestones); err != nil {
		return nil, fmt.Errorf("encoding milestones: %w", err)
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, userID, goal.ID, map[string]interface{}{
		"action":  "goal_created",
		"goal_id": goal.ID,
	})

	return goal, nil
}

func (s *service) GetGoal(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Goal, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *service) ListGoals(ctx context.Context, filter GoalFilter) ([]Goal, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateGoal(ctx context.Context, id uuid.UUID, userID uuid.UUID, input UpdateGoalInput) (*Goal, error) {
	goal, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		goal.Title = *input.Title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Category != nil {
		goal.Category = *input.Category
	}
	if input.TargetDate != nil {
		if input.TargetDate.IsZero() {
			return nil, ErrTargetDateRequired
		}
		goal.TargetDate = *input.TargetDate
	}
	if input.Milestones != nil {
		if err := goal.EncodeMilestones(input.Milestones); err != nil {
			return nil, fmt.Errorf("encoding milestones: %w", err)
		}
		s.applyCompletion(ctx, goal)
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, userID, goal.ID, map[string]interface{}{
		"action":  "goal_updated",
		"goal_id": goal.ID,
	})

	return goal, nil
}

func (s *service) DeleteGoal(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.publishDashboardEvent(ctx, userID, id, map[string]interface{}{
		"action":  "goal_deleted",
		"goal_id": id,
	})

	return nil
}

// ToggleMilestone flips one milestone and recomputes progress from the
// full milestone list.
func (s *service) ToggleMilestone(ctx context.Context, id uuid.UUID, userID uuid.UUID, index int) (*Goal, error) {
	goal, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	milestones, err := goal.DecodeMilestones()
	if err != nil {
		return nil, fmt.Errorf("decoding milestones: %w", err)
	}
	if index < 0 || index >= len(milestones) {
		return nil, ErrMilestoneIndex
	}

	milestones[index].Completed = !milestones[index].Completed
	if milestones[index].Completed {
		now := time.Now()
		milestones[index].CompletedAt = &now
	} else {
		milestones[index].CompletedAt = nil
	}

	if err := goal.EncodeMilestones(milestones); err != nil {
		return nil, fmt.Errorf("encoding milestones: %w", err)
	}
	s.applyCompletion(ctx, goal)

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, userID, goal.ID, map[string]interface{}{
		"action":   "goal_milestone_toggled",
		"goal_id":  goal.ID,
		"progress": goal.Progress,
	})

	return goal, nil
}

// applyCompletion keeps CompletedAt in sync with progress. Crossing 100
// awards XP and notifies once; dropping back below clears the timestamp.
func (s *service) applyCompletion(ctx context.Context, goal *Goal) {
	if goal.Progress >= 100 && goal.CompletedAt == nil {
		now := time.Now()
		goal.CompletedAt = &now

		if s.rewards != nil {
			if err := s.rewards.AwardXP(ctx, goal.UserID, CompletionXP); err != nil {
				s.logger.Error("failed to award goal completion XP",
					zap.String("goal_id", goal.ID.String()),
					zap.Error(err))
			}
		}
		if s.notifySvc != nil {
			_ = s.notifySvc.CreateForUser(ctx, goal.UserID, notification.GoalCompleted,
				"Goal completed!",
				fmt.Sprintf("You've completed %q. Well done!", goal.Title),
				map[string]string{"goal_id": goal.ID.String()},
				"goals", goal.ID)
		}
	} else if goal.Progress < 100 && goal.CompletedAt != nil {
		goal.CompletedAt = nil
	}
}

func (s *service) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*GoalMetrics, error) {
	completed, active, err := s.repo.CountByCompletion(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GoalMetrics{
		Total:     completed + active,
		Completed: completed,
		Active:    active,
	}, nil
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
