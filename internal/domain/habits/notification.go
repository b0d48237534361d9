package habits

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/streaks"
	"github.com/google/uuid"
)

// HabitNotificationService produces the in-app notifications the habit
// flows emit: completions, streak milestones, reminders.
type HabitNotificationService struct {
	notifications notification.Service
}

func NewHabitNotificationService(svc notification.Service) *HabitNotificationService {
	return &HabitNotificationService{notifications: svc}
}

func (s *HabitNotificationService) send(ctx context.Context, userID uuid.UUID, kind notification.Type, title, content string, habit *Habit, extra map[string]string) error {
	data := map[string]string{
		"habitID": habit.ID.String(),
		"title":   habit.Title,
	}
	for k, v := range extra {
		data[k] = v
	}
	return s.notifications.CreateForUser(ctx, userID, kind, title, content, data, "habits", habit.ID)
}

func (s *HabitNotificationService) NotifyHabitCompleted(ctx context.Context, userID uuid.UUID, habit *Habit) error {
	return s.send(ctx, userID, notification.HabitCompleted,
		"Habit Completed",
		fmt.Sprintf("You've completed your habit: %s", habit.Title),
		habit, nil)
}

// NotifyHabitMilestone sends a celebration when a streak crosses a tier.
func (s *HabitNotificationService) NotifyHabitMilestone(ctx context.Context, userID uuid.UUID, habit *Habit, milestone streaks.Milestone) error {
	return s.send(ctx, userID, notification.HabitMilestone,
		"Streak Milestone",
		fmt.Sprintf("%s (%s, %d days)", milestone.Message(), habit.Title, habit.CurrentStreak),
		habit, map[string]string{
			"milestone":     string(milestone),
			"currentStreak": strconv.Itoa(habit.CurrentStreak),
		})
}

func (s *HabitNotificationService) NotifyHabitReminder(ctx context.Context, userID uuid.UUID, habit *Habit) error {
	return s.send(ctx, userID, notification.HabitReminder,
		"Habit Reminder",
		fmt.Sprintf("Don't forget to complete your habit: %s", habit.Title),
		habit, nil)
}
