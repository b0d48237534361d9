package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/habits"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/task"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/logger"
	"go.uber.org/zap"
)

// dueSoonWindow is how far ahead task deadline reminders look.
const dueSoonWindow = 24 * time.Hour

type Scheduler struct {
	habitService habits.Service
	taskService  task.Service
	logger       *logger.Logger
	loc          *time.Location
	quit         chan struct{}
}

func NewScheduler(habitService habits.Service, taskService task.Service, logger *logger.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		habitService: habitService,
		taskService:  taskService,
		logger:       logger,
		loc:          loc,
		quit:         make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	// Run immediately at startup so a restart never skips a day.
	s.runMidnightTasks()

	go s.runReminderLoop()

	now := time.Now().In(s.loc)
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, s.loc)
	timeUntilMidnight := nextMidnight.Sub(now)

	s.logger.Info("Scheduler initialized",
		zap.Time("current_time", now),
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", timeUntilMidnight),
	)

	go func() {
		select {
		case <-time.After(timeUntilMidnight):
		case <-s.quit:
			return
		}

		s.runMidnightTasks()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runMidnightTasks()
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop terminates the background loops. Safe to call once.
func (s *Scheduler) Stop() {
	close(s.quit)
}

// runMidnightTasks resets streak counters for habits whose last completion
// is older than yesterday.
func (s *Scheduler) runMidnightTasks() {
	ctx := context.Background()
	startTime := time.Now()

	s.logger.Info("Starting daily streak maintenance", zap.Time("start_time", startTime))

	resetCount, err := s.habitService.ResetBrokenStreaks(ctx)
	if err != nil {
		s.logger.Error("Failed to reset broken streaks", zap.Error(err))
	} else {
		s.logger.Info("Processed broken streaks",
			zap.Int64("reset_count", resetCount),
		)
	}

	s.logger.Info("Completed daily streak maintenance",
		zap.Duration("duration", time.Since(startTime)),
	)
}

// runReminderLoop wakes up every minute and dispatches habit reminders
// whose configured HH:MM matches, plus hourly task deadline reminders.
func (s *Scheduler) runReminderLoop() {
	s.sendTaskReminders()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now().In(s.loc)
			s.sendHabitReminders(fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute()))

			if now.Minute() == 0 {
				s.sendTaskReminders()
			}
		case <-s.quit:
			return
		}
	}
}

func (s *Scheduler) sendHabitReminders(reminderTime string) {
	ctx := context.Background()
	if err := s.habitService.SendHabitReminders(ctx, reminderTime); err != nil {
		s.logger.Error("Failed to send habit reminders",
			zap.String("reminder_time", reminderTime),
			zap.Error(err),
		)
	}
}

func (s *Scheduler) sendTaskReminders() {
	if s.taskService == nil {
		return
	}
	ctx := context.Background()
	if err := s.taskService.SendDueSoonReminders(ctx, dueSoonWindow); err != nil {
		s.logger.Error("Failed to send task reminders", zap.Error(err))
	}
}
