package dto

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/habits"
	"github.com/google/uuid"
)

// CreateHabitRequest represents the request to create a new habit
type CreateHabitRequest struct {
	Title        string  `json:"title" binding:"required,not_empty" example:"Morning run"`
	Description  string  `json:"description,omitempty" example:"30 minutes before work"`
	Category     string  `json:"category,omitempty" example:"health"`
	Frequency    string  `json:"frequency,omitempty" binding:"omitempty,oneof=daily weekly custom" example:"daily"`
	CustomDays   []int64 `json:"custom_days,omitempty" example:"1,3,5"`
	ReminderTime string  `json:"reminder_time,omitempty" example:"07:30"`
}

// UpdateHabitRequest represents the request to update an existing habit
type UpdateHabitRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Category     *string `json:"category,omitempty"`
	Frequency    *string `json:"frequency,omitempty" binding:"omitempty,oneof=daily weekly custom"`
	CustomDays   []int64 `json:"custom_days,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
}

// CompleteHabitRequest optionally backdates a completion
type CompleteHabitRequest struct {
	CompletionDate string `json:"completion_date,omitempty" example:"2025-03-14"`
}

// HabitResponse represents a habit in API responses
type HabitResponse struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Category          string     `json:"category,omitempty"`
	Frequency         string     `json:"frequency"`
	CustomDays        []int64    `json:"custom_days,omitempty"`
	ReminderTime      string     `json:"reminder_time,omitempty"`
	CurrentStreak     int        `json:"current_streak"`
	LastCompletedDate *time.Time `json:"last_completed_date,omitempty"`
	Archived          bool       `json:"archived"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// HabitStatsResponse is the detail view of a habit with derived counters
type HabitStatsResponse struct {
	Habit          HabitResponse `json:"habit"`
	LongestStreak  int           `json:"longest_streak"`
	CompletedToday bool          `json:"completed_today"`
	TotalDays      int           `json:"total_days"`
}

// CompletionResponse is returned when a habit is marked completed
type CompletionResponse struct {
	Habit            HabitResponse `json:"habit"`
	AlreadyCompleted bool          `json:"already_completed"`
	XPAwarded        int           `json:"xp_awarded"`
	Milestone        string        `json:"milestone,omitempty"`
	MilestoneMessage string        `json:"milestone_message,omitempty"`
}

// HabitListResponse represents a paginated list of habits
type HabitListResponse struct {
	Habits     []HabitResponse `json:"habits"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// HabitListFilter carries the list query parameters
type HabitListFilter struct {
	Title           string `form:"title"`
	Category        string `form:"category"`
	IncludeArchived bool   `form:"include_archived"`
	Page            int    `form:"page,default=0"`
	PageSize        int    `form:"page_size,default=20"`
}

// HeatmapResponse represents completion counts per day for calendar views
type HeatmapResponse struct {
	Data     map[string]int `json:"data"`
	Period   string         `json:"period"`
	MinValue int            `json:"min_value"`
	MaxValue int            `json:"max_value"`
}

// TopStreaksResponse lists the user's habits with the longest active streaks
type TopStreaksResponse struct {
	Habits []HabitResponse `json:"habits"`
}

// HabitToResponse converts a domain habit to its API representation
func HabitToResponse(h *habits.Habit) HabitResponse {
	return HabitResponse{
		ID:                h.ID,
		UserID:            h.UserID,
		Title:             h.Title,
		Description:       h.Description,
		Category:          h.Category,
		Frequency:         string(h.Frequency),
		CustomDays:        []int64(h.CustomDays),
		ReminderTime:      h.ReminderTime,
		CurrentStreak:     h.CurrentStreak,
		LastCompletedDate: h.LastCompletedDate,
		Archived:          h.Archived,
		CreatedAt:         h.CreatedAt,
		UpdatedAt:         h.UpdatedAt,
	}
}

// HabitsToResponse converts a slice of domain habits
func HabitsToResponse(items []habits.Habit) []HabitResponse {
	out := make([]HabitResponse, 0, len(items))
	for i := range items {
		out = append(out, HabitToResponse(&items[i]))
	}
	return out
}
