package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockRepository struct {
	tasks map[uuid.UUID]*Task
}

func newMockRepository() *mockRepository {
	return &mockRepository{tasks: make(map[uuid.UUID]*Task)}
}

func (m *mockRepository) Create(ctx context.Context, t *Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Task, error) {
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (m *mockRepository) FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	var out []Task
	for _, t := range m.tasks {
		if t.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) Update(ctx context.Context, t *Task) error {
	if _, ok := m.tasks[t.ID]; !ok {
		return ErrTaskNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockRepository) CountByStatus(ctx context.Context, userID uuid.UUID) (map[TaskStatus]int64, error) {
	counts := make(map[TaskStatus]int64)
	for _, t := range m.tasks {
		if t.UserID == userID {
			counts[t.Status]++
		}
	}
	return counts, nil
}

func (m *mockRepository) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, t := range m.tasks {
		if t.UserID == userID && t.IsOverdue(now) {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) CompletionDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, t := range m.tasks {
		if t.UserID != userID || t.CompletedAt == nil {
			continue
		}
		d := t.CompletedAt.UTC().Truncate(24 * time.Hour)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days, nil
}

func (m *mockRepository) FindDueSoon(ctx context.Context, from, to time.Time) ([]Task, error) {
	var out []Task
	for _, t := range m.tasks {
		if t.Status == TaskStatusCompleted || t.Deadline == nil {
			continue
		}
		if !t.Deadline.Before(from) && t.Deadline.Before(to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

type mockRewards struct {
	awards []int
}

func (m *mockRewards) AwardXP(ctx context.Context, userID uuid.UUID, points int) error {
	m.awards = append(m.awards, points)
	return nil
}

func newTestService(repo TaskRepository, rewards Rewards) Service {
	return NewService(repo, rewards, nil, nil, zap.NewNop(), time.UTC)
}

func TestCreateTaskDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	userID := uuid.New()

	task, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{
		Title: "Write weekly review",
		Tags:  []string{"writing", "weekly"},
	})
	assert.NoError(t, err)
	assert.Equal(t, TaskStatusTodo, task.Status)
	assert.Equal(t, TaskPriorityMedium, task.Priority)
	assert.Nil(t, task.CompletedAt)
}

func TestCreateTaskValidation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	userID := uuid.New()

	_, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(context.Background(), userID, CreateTaskInput{
		Title:    "Bad priority",
		Priority: "critical",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompleteTaskAwardsXPOnce(t *testing.T) {
	repo := newMockRepository()
	rewards := &mockRewards{}
	svc := newTestService(repo, rewards)
	userID := uuid.New()

	task, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{Title: "Ship release"})
	assert.NoError(t, err)

	done, err := svc.CompleteTask(context.Background(), task.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, TaskStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, []int{CompletionXP}, rewards.awards)

	// Completing again changes nothing and awards nothing.
	again, err := svc.CompleteTask(context.Background(), task.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, done.CompletedAt, again.CompletedAt)
	assert.Len(t, rewards.awards, 1)
}

func TestUpdateTaskStatusGuard(t *testing.T) {
	repo := newMockRepository()
	rewards := &mockRewards{}
	svc := newTestService(repo, rewards)
	userID := uuid.New()

	task, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{Title: "Review PR"})
	assert.NoError(t, err)

	completed := string(TaskStatusCompleted)
	updated, err := svc.UpdateTask(context.Background(), task.ID, userID, UpdateTaskInput{Status: &completed})
	assert.NoError(t, err)
	assert.Equal(t, TaskStatusCompleted, updated.Status)
	assert.Len(t, rewards.awards, 1)

	// Setting completed again through update awards nothing extra.
	_, err = svc.UpdateTask(context.Background(), task.ID, userID, UpdateTaskInput{Status: &completed})
	assert.NoError(t, err)
	assert.Len(t, rewards.awards, 1)

	// Reopening clears the completion timestamp.
	todo := string(TaskStatusTodo)
	reopened, err := svc.UpdateTask(context.Background(), task.ID, userID, UpdateTaskInput{Status: &todo})
	assert.NoError(t, err)
	assert.Equal(t, TaskStatusTodo, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
}

func TestTaskOwnershipScoping(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	owner := uuid.New()
	stranger := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, CreateTaskInput{Title: "Private task"})
	assert.NoError(t, err)

	_, err = svc.GetTask(context.Background(), task.ID, stranger)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.DeleteTask(context.Background(), task.ID, stranger)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.CompleteTask(context.Background(), task.ID, stranger)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskDashboardMetrics(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})
	userID := uuid.New()

	past := time.Now().Add(-time.Hour)
	_, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{Title: "Overdue", Deadline: &past})
	assert.NoError(t, err)

	done, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{Title: "Done"})
	assert.NoError(t, err)
	_, err = svc.CompleteTask(context.Background(), done.ID, userID)
	assert.NoError(t, err)

	metrics, err := svc.GetDashboardMetrics(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), metrics.Total)
	assert.Equal(t, int64(1), metrics.Completed)
	assert.Equal(t, int64(1), metrics.Todo)
	assert.Equal(t, int64(1), metrics.Overdue)
	assert.Equal(t, 1, metrics.CurrentStreak)
	assert.Equal(t, 1, metrics.LongestStreak)
}

func TestTaskDashboardMetricsEmpty(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	metrics, err := svc.GetDashboardMetrics(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), metrics.Total)
	assert.Equal(t, 0, metrics.CurrentStreak)
	assert.Equal(t, 0, metrics.LongestStreak)
}
