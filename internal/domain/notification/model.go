package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type categorizes a notification for filtering and rendering.
type Type string

const (
	General  Type = "general"
	Reminder Type = "reminder"
	System   Type = "system"

	HabitCompleted Type = "habit_completed"
	HabitMilestone Type = "habit_milestone"
	HabitBroken    Type = "habit_broken"
	HabitReminder  Type = "habit_reminder"

	TaskDueSoon Type = "task_due_soon"
	TaskOverdue Type = "task_overdue"

	GoalProgress  Type = "goal_progress"
	GoalCompleted Type = "goal_completed"

	LevelUp       Type = "level_up"
	BadgeAwarded  Type = "badge_awarded"
	AccountSystem Type = "account_system"
)

type Status string

const (
	Unread Status = "UNREAD"
	Read   Status = "READ"
)

// StringMap stores arbitrary key/value payload data in a jsonb column.
type StringMap map[string]string

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = StringMap{}
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StringMap", value)
	}
	out := StringMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

func (m StringMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

type Notification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Type        Type       `json:"type" gorm:"not null"`
	Title       string     `json:"title" gorm:"not null"`
	Content     string     `json:"content" gorm:"not null"`
	Status      Status     `json:"status" gorm:"not null;default:'UNREAD'"`
	Data        StringMap  `json:"data" gorm:"type:jsonb"`
	Reference   string     `json:"reference" gorm:"index"`
	ReferenceID uuid.UUID  `json:"reference_id" gorm:"type:uuid;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`
	ReadAt      *time.Time `json:"read_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = Unread
	}
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}
	return nil
}
