package goals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockRepository struct {
	goals map[uuid.UUID]*Goal
}

func newMockRepository() *mockRepository {
	return &mockRepository{goals: make(map[uuid.UUID]*Goal)}
}

func (m *mockRepository) Create(ctx context.Context, g *Goal) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	m.goals[g.ID] = g
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Goal, error) {
	g, ok := m.goals[id]
	if !ok || g.UserID != userID {
		return nil, ErrGoalNotFound
	}
	return g, nil
}

func (m *mockRepository) FindAll(ctx context.Context, filter GoalFilter) ([]Goal, int64, error) {
	var out []Goal
	for _, g := range m.goals {
		if g.UserID != filter.UserID {
			continue
		}
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) Update(ctx context.Context, g *Goal) error {
	if _, ok := m.goals[g.ID]; !ok {
		return ErrGoalNotFound
	}
	m.goals[g.ID] = g
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	g, ok := m.goals[id]
	if !ok || g.UserID != userID {
		return ErrGoalNotFound
	}
	delete(m.goals, id)
	return nil
}

func (m *mockRepository) CountByCompletion(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var completed, active int64
	for _, g := range m.goals {
		if g.UserID != userID {
			continue
		}
		if g.CompletedAt != nil {
			completed++
		} else {
			active++
		}
	}
	return completed, active, nil
}

type mockRewards struct {
	awards []int
}

func (m *mockRewards) AwardXP(ctx context.Context, userID uuid.UUID, points int) error {
	m.awards = append(m.awards, points)
	return nil
}

func newTestService(repo Repository, rewards Rewards) Service {
	return NewService(repo, rewards, nil, nil, zap.NewNop())
}

func targetDate() time.Time {
	return time.Now().AddDate(0, 3, 0)
}

func TestCreateGoalValidation(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)
	userID := uuid.New()

	_, err := svc.CreateGoal(context.Background(), userID, CreateGoalInput{TargetDate: targetDate()})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.CreateGoal(context.Background(), userID, CreateGoalInput{Title: "Run a marathon"})
	assert.ErrorIs(t, err, ErrTargetDateRequired)
}

func TestCreateGoalComputesProgress(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)
	userID := uuid.New()

	goal, err := svc.CreateGoal(context.Background(), userID, CreateGoalInput{
		Title:      "Run a marathon",
		TargetDate: targetDate(),
		Milestones: []Milestone{
			{Title: "Run 5k", Completed: true},
			{Title: "Run 10k"},
			{Title: "Run 21k"},
			{Title: "Run 42k"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 25, goal.Progress)
	assert.Nil(t, goal.CompletedAt)
}

func TestToggleMilestoneRecomputesProgress(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	userID := uuid.New()

	goal, err := svc.CreateGoal(context.Background(), userID, CreateGoalInput{
		Title:      "Read more",
		TargetDate: targetDate(),
		Milestones: []Milestone{
			{Title: "Book one"},
			{Title: "Book two"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, goal.Progress)

	toggled, err := svc.ToggleMilestone(context.Background(), goal.ID, userID, 0)
	assert.NoError(t, err)
	assert.Equal(t, 50, toggled.Progress)

	milestones, err := toggled.DecodeMilestones()
	assert.NoError(t, err)
	assert.True(t, milestones[0].Completed)
	assert.NotNil(t, milestones[0].CompletedAt)

	// Toggling back clears completion state.
	reverted, err := svc.ToggleMilestone(context.Background(), goal.ID, userID, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, reverted.Progress)
}

func TestToggleMilestoneCompletesGoalOnce(t *testing.T) {
	repo := newMockRepository()
	rewards := &mockRewards{}
	svc := newTestService(repo, rewards)
	userID := uuid.New()

	goal, err := svc.CreateGoal(context.Background(), userID, CreateGoalInput{
		Title:      "Single step goal",
		TargetDate: targetDate(),
		Milestones: []Milestone{{Title: "The step"}},
	})
	assert.NoError(t, err)

	done, err := svc.ToggleMilestone(context.Background(), goal.ID, userID, 0)
	assert.NoError(t, err)
	assert.Equal(t, 100, done.Progress)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, []int{CompletionXP}, rewards.awards)

	// Un-toggling reopens the goal; completing again awards XP again
	// because the goal genuinely crossed the line a second time.
	reopened, err := svc.ToggleMilestone(context.Background(), goal.ID, userID, 0)
	assert.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestToggleMilestoneIndexOutOfRange(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	userID := uuid.New()

	goal, err := svc.CreateGoal(context.Background(), userID, CreateGoalInput{
		Title:      "Short list",
		TargetDate: targetDate(),
		Milestones: []Milestone{{Title: "Only one"}},
	})
	assert.NoError(t, err)

	_, err = svc.ToggleMilestone(context.Background(), goal.ID, userID, 1)
	assert.ErrorIs(t, err, ErrMilestoneIndex)
	_, err = svc.ToggleMilestone(context.Background(), goal.ID, userID, -1)
	assert.ErrorIs(t, err, ErrMilestoneIndex)
}

func TestGoalOwnershipScoping(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	owner := uuid.New()
	stranger := uuid.New()

	goal, err := svc.CreateGoal(context.Background(), owner, CreateGoalInput{
		Title:      "Private goal",
		TargetDate: targetDate(),
	})
	assert.NoError(t, err)

	_, err = svc.GetGoal(context.Background(), goal.ID, stranger)
	assert.ErrorIs(t, err, ErrGoalNotFound)
	err = svc.DeleteGoal(context.Background(), goal.ID, stranger)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalDashboardMetrics(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockRewards{})
	userID := uuid.New()

	_, err := svc.CreateGoal(context.Background(), userID, CreateGoalInput{
		Title:      "Active goal",
		TargetDate: targetDate(),
	})
	assert.NoError(t, err)

	done, err := svc.CreateGoal(context.Background(), userID, CreateGoalInput{
		Title:      "Done goal",
		TargetDate: targetDate(),
		Milestones: []Milestone{{Title: "Step"}},
	})
	assert.NoError(t, err)
	_, err = svc.ToggleMilestone(context.Background(), done.ID, userID, 0)
	assert.NoError(t, err)

	metrics, err := svc.GetDashboardMetrics(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), metrics.Total)
	assert.Equal(t, int64(1), metrics.Completed)
	assert.Equal(t, int64(1), metrics.Active)
}
