package dto

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/focus"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/goals"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/streaks"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/task"
)

// DashboardUserMetrics is the gamification slice of the dashboard
type DashboardUserMetrics struct {
	XP     int      `json:"xp"`
	Level  int      `json:"level"`
	Badges []string `json:"badges,omitempty"`
}

// DashboardMetricsResponse aggregates every domain's counters for the
// home screen. Served from cache when fresh.
type DashboardMetricsResponse struct {
	User      DashboardUserMetrics `json:"user"`
	Habits    streaks.Summary      `json:"habits"`
	Tasks     task.TaskMetrics     `json:"tasks"`
	Goals     goals.GoalMetrics    `json:"goals"`
	Focus     focus.FocusMetrics   `json:"focus"`
	Timestamp time.Time            `json:"timestamp"`
}
