package dto

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/focus"
	"github.com/google/uuid"
)

// CreateFocusSessionRequest logs one completed or in-flight timer interval
type CreateFocusSessionRequest struct {
	Kind            string    `json:"kind,omitempty" binding:"omitempty,oneof=focus break" example:"focus"`
	StartedAt       time.Time `json:"started_at,omitempty"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1" example:"25"`
	Completed       bool      `json:"completed"`
}

// FocusSessionResponse represents a focus session in API responses
type FocusSessionResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Kind            string    `json:"kind"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
}

// FocusSessionListResponse represents a paginated list of focus sessions
type FocusSessionListResponse struct {
	Sessions   []FocusSessionResponse `json:"sessions"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
}

// FocusListFilter carries the list query parameters
type FocusListFilter struct {
	Kind     string     `form:"kind" binding:"omitempty,oneof=focus break"`
	Since    *time.Time `form:"since" time_format:"2006-01-02"`
	Page     int        `form:"page,default=0"`
	PageSize int        `form:"page_size,default=20"`
}

// FocusSessionToResponse converts a domain session to its API representation
func FocusSessionToResponse(s *focus.Session) FocusSessionResponse {
	return FocusSessionResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		Kind:            string(s.Kind),
		StartedAt:       s.StartedAt,
		DurationMinutes: s.DurationMinutes,
		Completed:       s.Completed,
		CreatedAt:       s.CreatedAt,
	}
}

// FocusSessionsToResponse converts a slice of domain sessions
func FocusSessionsToResponse(items []focus.Session) []FocusSessionResponse {
	out := make([]FocusSessionResponse, 0, len(items))
	for i := range items {
		out = append(out, FocusSessionToResponse(&items[i]))
	}
	return out
}
