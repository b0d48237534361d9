package habits

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Frequency is the cadence a habit is tracked at.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// CompletionXP is the experience awarded for the first completion of a
// habit on a given day. Repeat completions on the same day award nothing.
const CompletionXP = 10

type Habit struct {
	ID                uuid.UUID     `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Title             string        `gorm:"size:255;not null" json:"title"`
	Description       string        `gorm:"type:text" json:"description"`
	Category          string        `gorm:"size:100" json:"category"`
	Frequency         Frequency     `gorm:"size:20;not null;default:'daily'" json:"frequency"`
	CustomDays        pq.Int64Array `gorm:"type:integer[]" json:"custom_days"`
	ReminderTime      string        `gorm:"size:5" json:"reminder_time"`
	CurrentStreak     int           `gorm:"default:0;not null" json:"current_streak"`
	LastCompletedDate *time.Time    `gorm:"default:null" json:"last_completed_date"`
	Archived          bool          `gorm:"default:false;not null" json:"archived"`
	CreatedAt         time.Time     `gorm:"not null;default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:current_timestamp;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Habit model
func (Habit) TableName() string {
	return "habits"
}

// BeforeCreate is called before creating a new habit record
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	h.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a habit record
func (h *Habit) BeforeUpdate(tx *gorm.DB) error {
	h.UpdatedAt = time.Now()
	return nil
}

// HabitCompletion is one fulfilled day for a habit. The unique index on
// (habit_id, day) is what makes same-day completion idempotent under
// concurrent requests: the second insert conflicts and affects no rows.
type HabitCompletion struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_habit_completion_day,priority:1" json:"habit_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_completion_user_day,priority:1" json:"user_id"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:idx_habit_completion_day,priority:2;index:idx_completion_user_day,priority:2" json:"day"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp" json:"created_at"`
}

// TableName specifies the table name for the HabitCompletion model
func (HabitCompletion) TableName() string {
	return "habit_completions"
}

// CreateHabitInput represents the input for creating a new habit
type CreateHabitInput struct {
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Frequency    Frequency `json:"frequency"`
	CustomDays   []int64   `json:"custom_days"`
	ReminderTime string    `json:"reminder_time"`
}

// UpdateHabitInput represents the input for updating a habit
type UpdateHabitInput struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Frequency    *Frequency `json:"frequency,omitempty"`
	CustomDays   []int64    `json:"custom_days,omitempty"`
	ReminderTime *string    `json:"reminder_time,omitempty"`
}

// CompletionResult is what a complete-habit request produces.
type CompletionResult struct {
	Habit            *Habit `json:"habit"`
	AlreadyCompleted bool   `json:"already_completed"`
	XPAwarded        int    `json:"xp_awarded"`
	Milestone        string `json:"milestone,omitempty"`
	MilestoneMessage string `json:"milestone_message,omitempty"`
}

// HabitStats is the per-habit detail view with the derived longest streak.
type HabitStats struct {
	Habit          Habit `json:"habit"`
	LongestStreak  int   `json:"longest_streak"`
	CompletedToday bool  `json:"completed_today"`
	TotalDays      int   `json:"total_days"`
}
