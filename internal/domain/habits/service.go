package habits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/events"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/streaks"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrTitleRequired = errors.New("habit title is required")

// Rewards awards gamification points to a user. Implemented by the user
// service; declared here so the habits package does not import it.
type Rewards interface {
	AwardXP(ctx context.Context, userID uuid.UUID, points int) error
}

type Service interface {
	CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error)
	GetHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*HabitStats, error)
	ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, int64, error)
	UpdateHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, input UpdateHabitInput) (*Habit, error)
	ArchiveHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	CompleteHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) (*CompletionResult, error)
	UncompleteHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) (*Habit, error)
	ResetBrokenStreaks(ctx context.Context) (int64, error)
	GetTopStreaks(ctx context.Context, userID uuid.UUID, limit int) ([]Habit, error)
	GetHeatmapData(ctx context.Context, userID uuid.UUID, period string) (map[string]int, error)
	SendHabitReminders(ctx context.Context, reminderTime string) error
	GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (streaks.Summary, error)
}

type service struct {
	repo      Repository
	rewards   Rewards
	notifySvc *HabitNotificationService
	redis     *cache.RedisClient
	logger    *zap.Logger
	loc       *time.Location
}

func NewService(repo Repository, rewards Rewards, notifySvc *HabitNotificationService, redis *cache.RedisClient, logger *zap.Logger, loc *time.Location) Service {
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

func (s *service) CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	frequency := input.Frequency
	if frequency == "" {
		frequency = FrequencyDaily
	}

	habit := &Habit{
		ID:           uuid.New(),
		UserID:       input.UserID,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Frequency:    frequency,
		CustomDays:   input.CustomDays,
		ReminderTime: input.ReminderTime,
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, input.UserID, habit.ID, map[string]interface{}{
		"action":   "habit_created",
		"habit_id": habit.ID,
		"title":    habit.Title,
	})

	return habit, nil
}

func (s *service) GetHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*HabitStats, error) {
	habit, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.CompletionDays(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := s.dayKeys(days)
	today := streaks.NewDayKey(time.Now(), s.loc)

	completedToday := false
	for _, k := range keys {
		if k == today {
			completedToday = true
			break
		}
	}

	return &HabitStats{
		Habit:          *habit,
		LongestStreak:  streaks.Longest(keys),
		CompletedToday: completedToday,
		TotalDays:      len(keys),
	}, nil
}

func (s *service) ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, input UpdateHabitInput) (*Habit, error) {
	habit, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// Track if anything changed
	changed := false

	if input.Title != nil && habit.Title != *input.Title {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		habit.Title = *input.Title
		changed = true
	}
	if input.Description != nil && habit.Description != *input.Description {
		habit.Description = *input.Description
		changed = true
	}
	if input.Category != nil && habit.Category != *input.Category {
		habit.Category = *input.Category
		changed = true
	}
	if input.Frequency != nil && habit.Frequency != *input.Frequency {
		habit.Frequency = *input.Frequency
		changed = true
	}
	if input.CustomDays != nil {
		habit.CustomDays = input.CustomDays
		changed = true
	}
	if input.ReminderTime != nil && habit.ReminderTime != *input.ReminderTime {
		habit.ReminderTime = *input.ReminderTime
		changed = true
	}

	if !changed {
		return habit, nil
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, userID, habit.ID, map[string]interface{}{
		"action":   "habit_updated",
		"habit_id": habit.ID,
	})

	return habit, nil
}

func (s *service) ArchiveHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if err := s.repo.Archive(ctx, id, userID); err != nil {
		return err
	}

	s.publishDashboardEvent(ctx, userID, id, map[string]interface{}{
		"action":   "habit_archived",
		"habit_id": id,
	})

	return nil
}

// CompleteHabit records a completion for the day of "at". The insert into
// habit_completions carries the idempotency: when the day already has a
// row the call returns AlreadyCompleted without touching streak or XP.
func (s *service) CompleteHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) (*CompletionResult, error) {
	habit, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	dayKey := streaks.NewDayKey(at, s.loc)
	inserted, err := s.repo.InsertCompletion(ctx, &HabitCompletion{
		HabitID: id,
		UserID:  userID,
		Day:     dayKey.Time(time.UTC),
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		return &CompletionResult{Habit: habit, AlreadyCompleted: true}, nil
	}

	// Recompute the cached streak counter from the full history so it can
	// never drift from what the completion rows say. Anchored at the day
	// being completed, not the wall clock, so a request near midnight and
	// a backdated entry both see the streak as of that day.
	days, err := s.repo.CompletionDays(ctx, id)
	if err != nil {
		return nil, err
	}
	current := streaks.Current(s.dayKeys(days), dayKey)

	// last_completed_date holds the day-key date at UTC midnight, the same
	// representation as the completion rows and the reset query.
	completedAt := dayKey.Time(time.UTC)
	if err := s.repo.SetStreak(ctx, id, current, &completedAt); err != nil {
		return nil, err
	}
	habit.CurrentStreak = current
	habit.LastCompletedDate = &completedAt

	if s.rewards != nil {
		if err := s.rewards.AwardXP(ctx, userID, CompletionXP); err != nil {
			s.logger.Error("failed to award completion XP",
				zap.String("habit_id", id.String()),
				zap.Error(err))
		}
	}

	result := &CompletionResult{
		Habit:     habit,
		XPAwarded: CompletionXP,
	}

	milestone := streaks.Classify(current)
	if milestone.Celebrated() {
		result.Milestone = string(milestone)
		result.MilestoneMessage = milestone.Message()

		if s.notifySvc != nil {
			if err := s.notifySvc.NotifyHabitMilestone(ctx, userID, habit, milestone); err != nil {
				s.logger.Error("failed to send milestone notification", zap.Error(err))
			}
		}
	}

	if s.notifySvc != nil {
		if err := s.notifySvc.NotifyHabitCompleted(ctx, userID, habit); err != nil {
			s.logger.Error("failed to send habit completion notification", zap.Error(err))
		}
	}

	s.publishDashboardEvent(ctx, userID, id, map[string]interface{}{
		"action":          "habit_completed",
		"habit_id":        id,
		"completion_time": at.Format(time.RFC3339),
	})

	return result, nil
}

func (s *service) UncompleteHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) (*Habit, error) {
	habit, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	dayKey := streaks.NewDayKey(at, s.loc)
	removed, err := s.repo.DeleteCompletion(ctx, id, userID, dayKey.Time(time.UTC))
	if err != nil {
		return nil, err
	}
	if !removed {
		return habit, nil
	}

	days, err := s.repo.CompletionDays(ctx, id)
	if err != nil {
		return nil, err
	}

	// Unlike CompleteHabit this stays anchored at the current day: removing
	// an old backdated row must not re-evaluate the counter as of that day.
	keys := s.dayKeys(days)
	current := streaks.Current(keys, streaks.NewDayKey(time.Now(), s.loc))

	var lastCompleted *time.Time
	if len(keys) > 0 {
		last := keys[len(keys)-1].Time(time.UTC)
		lastCompleted = &last
	}

	if err := s.repo.SetStreak(ctx, id, current, lastCompleted); err != nil {
		return nil, err
	}
	habit.CurrentStreak = current
	habit.LastCompletedDate = lastCompleted

	s.publishDashboardEvent(ctx, userID, id, map[string]interface{}{
		"action":   "habit_uncompleted",
		"habit_id": id,
	})

	return habit, nil
}

func (s *service) ResetBrokenStreaks(ctx context.Context) (int64, error) {
	affected, err := s.repo.ResetBrokenStreaks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset broken streaks: %w", err)
	}
	if affected > 0 {
		s.logger.Info("reset broken streaks", zap.Int64("count", affected))
	}
	return affected, nil
}

func (s *service) GetTopStreaks(ctx context.Context, userID uuid.UUID, limit int) ([]Habit, error) {
	habits, err := s.repo.GetTopStreaks(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top streaks: %w", err)
	}
	return habits, nil
}

// GetHeatmapData retrieves habit completion data for the heatmap visualization
func (s *service) GetHeatmapData(ctx context.Context, userID uuid.UUID, period string) (map[string]int, error) {
	now := time.Now()
	var startDate time.Time

	switch period {
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "week":
		startDate = now.AddDate(0, 0, -7)
	default:
		startDate = now.AddDate(-1, 0, 0)
	}

	return s.repo.GetHeatmapData(ctx, userID, startDate, now)
}

// SendHabitReminders notifies owners of habits whose reminder time matches.
func (s *service) SendHabitReminders(ctx context.Context, reminderTime string) error {
	habits, err := s.repo.GetHabitsWithReminder(ctx, reminderTime)
	if err != nil {
		return fmt.Errorf("failed to get habits with reminders: %w", err)
	}

	var sent int
	for i := range habits {
		if s.notifySvc == nil {
			break
		}
		if err := s.notifySvc.NotifyHabitReminder(ctx, habits[i].UserID, &habits[i]); err != nil {
			s.logger.Error("failed to send habit reminder",
				zap.String("habit_id", habits[i].ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("sent habit reminders", zap.Int("count", sent), zap.String("reminder_time", reminderTime))
	return nil
}

// GetDashboardMetrics folds the user's habits into the dashboard summary.
func (s *service) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (streaks.Summary, error) {
	habits, err := s.repo.GetActiveHabits(ctx, userID)
	if err != nil {
		return streaks.Summary{}, err
	}

	since := time.Now().AddDate(0, 0, -2)
	daysByHabit, err := s.repo.CompletionDaysForUser(ctx, userID, since)
	if err != nil {
		return streaks.Summary{}, err
	}

	records := make([]streaks.Record, 0, len(habits))
	for _, h := range habits {
		records = append(records, streaks.Record{
			Archived: h.Archived,
			Streak:   h.CurrentStreak,
			Days:     s.dayKeys(daysByHabit[h.ID]),
		})
	}

	return streaks.Aggregate(records, streaks.NewDayKey(time.Now(), s.loc)), nil
}

// dayKeys converts stored completion days to normalized keys. Completion
// days are persisted as UTC midnight dates, so they normalize in UTC
// regardless of the configured display timezone.
func (s *service) dayKeys(days []time.Time) []streaks.DayKey {
	keys := make([]streaks.DayKey, 0, len(days))
	for _, d := range days {
		keys = append(keys, streaks.NewDayKey(d, time.UTC))
	}
	return keys
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
