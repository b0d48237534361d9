package focus

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionKind string

const (
	KindFocus SessionKind = "focus"
	KindBreak SessionKind = "break"
)

// Session represents one timed focus or break interval
type Session struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	UserID          uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index:idx_focus_user"`
	Kind            SessionKind `json:"kind" gorm:"not null;default:'focus'"`
	StartedAt       time.Time   `json:"started_at" gorm:"not null;index:idx_focus_started"`
	DurationMinutes int         `json:"duration_minutes" gorm:"not null"`
	Completed       bool        `json:"completed" gorm:"default:false"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type CreateSessionInput struct {
	Kind            string    `json:"kind,omitempty"`
	StartedAt       time.Time `json:"started_at,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
}

// FocusMetrics summarizes a user's focus activity for the dashboard.
type FocusMetrics struct {
	SessionsToday     int64 `json:"sessions_today"`
	FocusMinutesToday int64 `json:"focus_minutes_today"`
	TotalSessions     int64 `json:"total_sessions"`
}

func (k SessionKind) IsValid() bool {
	switch k {
	case KindFocus, KindBreak:
		return true
	}
	return false
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "focus_sessions"
}

// BeforeCreate is called before creating a new session record
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a session record
func (s *Session) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}
