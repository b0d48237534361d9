package dto

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/goals"
	"github.com/google/uuid"
)

// MilestoneInput is one step in a goal creation or update request
type MilestoneInput struct {
	Title     string `json:"title" binding:"required,not_empty"`
	Completed bool   `json:"completed"`
}

// CreateGoalRequest represents the request to create a new goal
type CreateGoalRequest struct {
	Title       string           `json:"title" binding:"required,not_empty" example:"Read 12 books"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty" example:"learning"`
	TargetDate  time.Time        `json:"target_date" binding:"required"`
	Milestones  []MilestoneInput `json:"milestones,omitempty"`
}

// UpdateGoalRequest represents the request to update an existing goal
type UpdateGoalRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	TargetDate  *time.Time       `json:"target_date,omitempty"`
	Milestones  []MilestoneInput `json:"milestones,omitempty"`
}

// MilestoneResponse is one step of a goal in API responses
type MilestoneResponse struct {
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category,omitempty"`
	TargetDate  time.Time           `json:"target_date"`
	Progress    int                 `json:"progress"`
	Milestones  []MilestoneResponse `json:"milestones"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// GoalListResponse represents a paginated list of goals
type GoalListResponse struct {
	Goals      []GoalResponse `json:"goals"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// GoalListFilter carries the list query parameters
type GoalListFilter struct {
	Category  string `form:"category"`
	Completed *bool  `form:"completed"`
	Page      int    `form:"page,default=0"`
	PageSize  int    `form:"page_size,default=20"`
}

// GoalToResponse converts a domain goal to its API representation. A goal
// whose milestones column cannot be decoded still renders, with an empty
// milestone list.
func GoalToResponse(g *goals.Goal) GoalResponse {
	milestones, err := g.DecodeMilestones()
	if err != nil {
		milestones = []goals.Milestone{}
	}

	out := GoalResponse{
		ID:          g.ID,
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		TargetDate:  g.TargetDate,
		Progress:    g.Progress,
		Milestones:  make([]MilestoneResponse, 0, len(milestones)),
		CompletedAt: g.CompletedAt,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	for _, m := range milestones {
		out.Milestones = append(out.Milestones, MilestoneResponse{
			Title:       m.Title,
			Completed:   m.Completed,
			CompletedAt: m.CompletedAt,
		})
	}
	return out
}

// GoalsToResponse converts a slice of domain goals
func GoalsToResponse(items []goals.Goal) []GoalResponse {
	out := make([]GoalResponse, 0, len(items))
	for i := range items {
		out = append(out, GoalToResponse(&items[i]))
	}
	return out
}

// MilestonesToDomain converts request milestones to their domain form
func MilestonesToDomain(items []MilestoneInput) []goals.Milestone {
	out := make([]goals.Milestone, 0, len(items))
	for _, m := range items {
		out = append(out, goals.Milestone{Title: m.Title, Completed: m.Completed})
	}
	return out
}
