package habits

import (
	"context"
	"testing"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/streaks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Mock repository for testing
type mockRepository struct {
	habits      map[uuid.UUID]*Habit
	completions map[uuid.UUID][]time.Time
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		habits:      make(map[uuid.UUID]*Habit),
		completions: make(map[uuid.UUID][]time.Time),
	}
}

func (m *mockRepository) Create(ctx context.Context, habit *Habit) error {
	m.habits[habit.ID] = habit
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Habit, error) {
	habit, ok := m.habits[id]
	if !ok || habit.UserID != userID {
		return nil, ErrHabitNotFound
	}
	copied := *habit
	return &copied, nil
}

func (m *mockRepository) FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	var out []Habit
	for _, h := range m.habits {
		if filter.UserID != nil && h.UserID != *filter.UserID {
			continue
		}
		if !filter.IncludeArchived && h.Archived {
			continue
		}
		out = append(out, *h)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) Update(ctx context.Context, habit *Habit) error {
	if _, ok := m.habits[habit.ID]; !ok {
		return ErrHabitNotFound
	}
	copied := *habit
	m.habits[habit.ID] = &copied
	return nil
}

func (m *mockRepository) Archive(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	habit, ok := m.habits[id]
	if !ok || habit.UserID != userID {
		return ErrHabitNotFound
	}
	habit.Archived = true
	return nil
}

func (m *mockRepository) InsertCompletion(ctx context.Context, completion *HabitCompletion) (bool, error) {
	for _, day := range m.completions[completion.HabitID] {
		if day.Equal(completion.Day) {
			return false, nil
		}
	}
	m.completions[completion.HabitID] = append(m.completions[completion.HabitID], completion.Day)
	return true, nil
}

func (m *mockRepository) DeleteCompletion(ctx context.Context, habitID uuid.UUID, userID uuid.UUID, day time.Time) (bool, error) {
	days := m.completions[habitID]
	for i, d := range days {
		if d.Equal(day) {
			m.completions[habitID] = append(days[:i], days[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) CompletionDays(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	return m.completions[habitID], nil
}

func (m *mockRepository) CompletionDaysForUser(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID][]time.Time, error) {
	out := make(map[uuid.UUID][]time.Time)
	for id, habit := range m.habits {
		if habit.UserID != userID {
			continue
		}
		for _, d := range m.completions[id] {
			if !d.Before(since) {
				out[id] = append(out[id], d)
			}
		}
	}
	return out, nil
}

func (m *mockRepository) SetStreak(ctx context.Context, habitID uuid.UUID, streak int, lastCompleted *time.Time) error {
	habit, ok := m.habits[habitID]
	if !ok {
		return ErrHabitNotFound
	}
	habit.CurrentStreak = streak
	habit.LastCompletedDate = lastCompleted
	return nil
}

func (m *mockRepository) ResetBrokenStreaks(ctx context.Context) (int64, error) {
	var reset int64
	yesterday := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	for _, h := range m.habits {
		if h.CurrentStreak > 0 && (h.LastCompletedDate == nil || h.LastCompletedDate.Before(yesterday)) {
			h.CurrentStreak = 0
			reset++
		}
	}
	return reset, nil
}

func (m *mockRepository) GetTopStreaks(ctx context.Context, userID uuid.UUID, limit int) ([]Habit, error) {
	habits, _, _ := m.FindAll(ctx, HabitFilter{UserID: &userID})
	return habits, nil
}

func (m *mockRepository) GetActiveHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	habits, _, _ := m.FindAll(ctx, HabitFilter{UserID: &userID})
	return habits, nil
}

func (m *mockRepository) GetHabitsWithReminder(ctx context.Context, reminderTime string) ([]Habit, error) {
	var out []Habit
	for _, h := range m.habits {
		if !h.Archived && h.ReminderTime == reminderTime {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *mockRepository) GetHeatmapData(ctx context.Context, userID uuid.UUID, startDate time.Time, endDate time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

// Mock rewards sink counting XP awards
type mockRewards struct {
	awards []int
}

func (m *mockRewards) AwardXP(ctx context.Context, userID uuid.UUID, points int) error {
	m.awards = append(m.awards, points)
	return nil
}

func newTestService(repo Repository, rewards Rewards) Service {
	return NewService(repo, rewards, nil, nil, zap.NewNop(), time.UTC)
}

func seedHabit(repo *mockRepository, userID uuid.UUID) *Habit {
	habit := &Habit{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Morning run",
		Frequency: FrequencyDaily,
	}
	repo.habits[habit.ID] = habit
	return habit
}

func utcDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func TestCompleteHabitSameDayIdempotent(t *testing.T) {
	repo := newMockRepository()
	rewards := &mockRewards{}
	svc := newTestService(repo, rewards)

	userID := uuid.New()
	habit := seedHabit(repo, userID)

	// Fixed mid-day timestamp so the second call cannot roll past midnight
	morning := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

	first, err := svc.CompleteHabit(context.Background(), habit.ID, userID, morning)
	assert.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, CompletionXP, first.XPAwarded)
	assert.Equal(t, 1, first.Habit.CurrentStreak)

	// Second request later the same day must be a no-op.
	second, err := svc.CompleteHabit(context.Background(), habit.ID, userID, morning.Add(3*time.Hour))
	assert.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, 0, second.XPAwarded)

	assert.Len(t, repo.completions[habit.ID], 1, "history grows by exactly one")
	assert.Len(t, rewards.awards, 1, "experience awarded once")
	assert.Equal(t, 1, repo.habits[habit.ID].CurrentStreak, "streak incremented exactly once")
}

func TestCompleteHabitLateEveningStaysOnItsDay(t *testing.T) {
	repo := newMockRepository()
	rewards := &mockRewards{}
	svc := newTestService(repo, rewards)

	userID := uuid.New()
	habit := seedHabit(repo, userID)

	evening := time.Date(2026, time.March, 14, 23, 25, 0, 0, time.UTC)

	first, err := svc.CompleteHabit(context.Background(), habit.ID, userID, evening)
	assert.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, 1, first.Habit.CurrentStreak)

	second, err := svc.CompleteHabit(context.Background(), habit.ID, userID, evening.Add(30*time.Minute))
	assert.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)

	assert.Len(t, repo.completions[habit.ID], 1)
	assert.Len(t, rewards.awards, 1)
	assert.Equal(t, 1, repo.habits[habit.ID].CurrentStreak)
}

func TestCompleteHabitRecomputesStreakFromHistory(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})

	userID := uuid.New()
	habit := seedHabit(repo, userID)

	today := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	repo.completions[habit.ID] = []time.Time{
		today.AddDate(0, 0, -2),
		today.AddDate(0, 0, -1),
	}

	result, err := svc.CompleteHabit(context.Background(), habit.ID, userID, today)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Habit.CurrentStreak)
	assert.Equal(t, string(streaks.MilestoneMomentum), result.Milestone)
	assert.NotEmpty(t, result.MilestoneMessage)
}

func TestCompleteHabitBackdatedAnchorsAtThatDay(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})

	userID := uuid.New()
	habit := seedHabit(repo, userID)

	day := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	repo.completions[habit.ID] = []time.Time{day.AddDate(0, 0, -1)}

	// Backdated entry counts the run ending on the backdated day.
	result, err := svc.CompleteHabit(context.Background(), habit.ID, userID, day)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Habit.CurrentStreak)
	assert.Equal(t, day, *result.Habit.LastCompletedDate)
}

func TestCompleteHabitAfterGapStartsOver(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})

	userID := uuid.New()
	habit := seedHabit(repo, userID)

	today := utcDay(time.Now().UTC())
	repo.completions[habit.ID] = []time.Time{
		today.AddDate(0, 0, -5),
		today.AddDate(0, 0, -4),
	}

	result, err := svc.CompleteHabit(context.Background(), habit.ID, userID, today)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Habit.CurrentStreak)
	assert.Equal(t, string(streaks.MilestoneFirstDay), result.Milestone)

	// Longest streak is derived on read and keeps the older run.
	stats, err := svc.GetHabit(context.Background(), habit.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.True(t, stats.CompletedToday)
}

func TestCompleteHabitNotOwned(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})

	habit := seedHabit(repo, uuid.New())

	_, err := svc.CompleteHabit(context.Background(), habit.ID, uuid.New(), time.Now().UTC())
	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestUncompleteHabitRollsBackStreak(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})

	userID := uuid.New()
	habit := seedHabit(repo, userID)

	day := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	_, err := svc.CompleteHabit(context.Background(), habit.ID, userID, day)
	assert.NoError(t, err)

	updated, err := svc.UncompleteHabit(context.Background(), habit.ID, userID, day)
	assert.NoError(t, err)
	assert.Equal(t, 0, updated.CurrentStreak)
	assert.Empty(t, repo.completions[habit.ID])
}

func TestCreateHabitRequiresTitle(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockRewards{})

	_, err := svc.CreateHabit(context.Background(), CreateHabitInput{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestGetDashboardMetrics(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})

	userID := uuid.New()

	today := utcDay(time.Now().UTC())

	done := seedHabit(repo, userID)
	done.CurrentStreak = 4
	repo.completions[done.ID] = []time.Time{today}

	pending := seedHabit(repo, userID)
	pending.CurrentStreak = 9

	summary, err := svc.GetDashboardMetrics(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.CompletedToday)
	assert.Equal(t, 2, summary.TotalActive)
	assert.Equal(t, 9, summary.BestStreak)
	assert.Equal(t, 0.5, summary.CompletionRate)
}

func TestGetDashboardMetricsEmpty(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockRewards{})

	summary, err := svc.GetDashboardMetrics(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, streaks.Summary{}, summary)
}
