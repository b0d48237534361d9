package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/habits"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/streaks"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Stub habits service recording the timestamps handed to it
type stubHabitsService struct {
	completedAt   *time.Time
	uncompletedAt *time.Time
}

func (s *stubHabitsService) CompleteHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) (*habits.CompletionResult, error) {
	s.completedAt = &at
	return &habits.CompletionResult{Habit: &habits.Habit{ID: id, UserID: userID}, XPAwarded: habits.CompletionXP}, nil
}

func (s *stubHabitsService) UncompleteHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) (*habits.Habit, error) {
	s.uncompletedAt = &at
	return &habits.Habit{ID: id, UserID: userID}, nil
}

func (s *stubHabitsService) CreateHabit(ctx context.Context, input habits.CreateHabitInput) (*habits.Habit, error) {
	return nil, nil
}

func (s *stubHabitsService) GetHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*habits.HabitStats, error) {
	return nil, nil
}

func (s *stubHabitsService) ListHabits(ctx context.Context, filter habits.HabitFilter) ([]habits.Habit, int64, error) {
	return nil, 0, nil
}

func (s *stubHabitsService) UpdateHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID, input habits.UpdateHabitInput) (*habits.Habit, error) {
	return nil, nil
}

func (s *stubHabitsService) ArchiveHabit(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return nil
}

func (s *stubHabitsService) ResetBrokenStreaks(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *stubHabitsService) GetTopStreaks(ctx context.Context, userID uuid.UUID, limit int) ([]habits.Habit, error) {
	return nil, nil
}

func (s *stubHabitsService) GetHeatmapData(ctx context.Context, userID uuid.UUID, period string) (map[string]int, error) {
	return nil, nil
}

func (s *stubHabitsService) SendHabitReminders(ctx context.Context, reminderTime string) error {
	return nil
}

func (s *stubHabitsService) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (streaks.Summary, error) {
	return streaks.Summary{}, nil
}

func habitsTestRouter(handler *HabitsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New())
	})
	router.POST("/api/habits/:id/complete", handler.CompleteHabit)
	router.POST("/api/habits/:id/uncomplete", handler.UncompleteHabit)
	return router
}

func postCompletion(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCompleteHabitBackdateUsesConfiguredTimezone(t *testing.T) {
	// Under a negative-UTC offset a midnight-UTC parse would land the
	// completion on the previous calendar day.
	loc := time.FixedZone("UTC-5", -5*60*60)
	svc := &stubHabitsService{}
	router := habitsTestRouter(NewHabitsHandler(svc, loc))

	id := uuid.New()
	w := postCompletion(router, "/api/habits/"+id.String()+"/complete", `{"completion_date":"2026-03-14"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.completedAt) {
		assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, loc), *svc.completedAt)
		assert.Equal(t, streaks.DayKey{Year: 2026, Month: time.March, Day: 14}, streaks.NewDayKey(*svc.completedAt, loc))
	}
}

func TestUncompleteHabitBackdateUsesConfiguredTimezone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	svc := &stubHabitsService{}
	router := habitsTestRouter(NewHabitsHandler(svc, loc))

	id := uuid.New()
	w := postCompletion(router, "/api/habits/"+id.String()+"/uncomplete", `{"completion_date":"2026-03-14"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.uncompletedAt) {
		assert.Equal(t, streaks.DayKey{Year: 2026, Month: time.March, Day: 14}, streaks.NewDayKey(*svc.uncompletedAt, loc))
	}
}

func TestCompleteHabitRejectsFutureDate(t *testing.T) {
	svc := &stubHabitsService{}
	router := habitsTestRouter(NewHabitsHandler(svc, time.UTC))

	id := uuid.New()
	future := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	w := postCompletion(router, "/api/habits/"+id.String()+"/complete", `{"completion_date":"`+future+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "future")
	assert.Nil(t, svc.completedAt, "service must not see a future-dated completion")
}

func TestCompleteHabitRejectsMalformedDate(t *testing.T) {
	svc := &stubHabitsService{}
	router := habitsTestRouter(NewHabitsHandler(svc, time.UTC))

	id := uuid.New()
	w := postCompletion(router, "/api/habits/"+id.String()+"/complete", `{"completion_date":"14-03-2026"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.completedAt)
}

func TestCompleteHabitWithoutBodyDefaultsToNow(t *testing.T) {
	svc := &stubHabitsService{}
	router := habitsTestRouter(NewHabitsHandler(svc, time.UTC))

	id := uuid.New()
	before := time.Now()
	w := postCompletion(router, "/api/habits/"+id.String()+"/complete", "")

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.completedAt) {
		assert.False(t, svc.completedAt.Before(before))
		assert.False(t, svc.completedAt.After(time.Now()))
	}
}
