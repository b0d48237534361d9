package goals

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompletionXP is awarded when a goal reaches full progress.
const CompletionXP = 25

// Milestone is one step toward a goal, stored inside the milestones
// JSON column.
type Milestone struct {
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Goal represents a longer-term objective made of milestones
type Goal struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index:idx_goal_user"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Category    string         `json:"category" gorm:"index:idx_goal_category"`
	TargetDate  time.Time      `json:"target_date" gorm:"not null"`
	Progress    int            `json:"progress" gorm:"default:0"`
	Milestones  datatypes.JSON `json:"milestones"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateGoalInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	TargetDate  time.Time   `json:"target_date"`
	Milestones  []Milestone `json:"milestones,omitempty"`
}

type UpdateGoalInput struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Category    *string     `json:"category,omitempty"`
	TargetDate  *time.Time  `json:"target_date,omitempty"`
	Milestones  []Milestone `json:"milestones,omitempty"`
}

// GoalMetrics summarizes a user's goals for the dashboard.
type GoalMetrics struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Active    int64 `json:"active"`
}

// TableName specifies the table name for the Goal model
func (Goal) TableName() string {
	return "goals"
}

// BeforeCreate is called before creating a new goal record
func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.CreatedAt = time.Now()
	g.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a goal record
func (g *Goal) BeforeUpdate(tx *gorm.DB) error {
	g.UpdatedAt = time.Now()
	return nil
}

// DecodeMilestones unpacks the milestones column. A missing or empty
// column decodes to an empty slice.
func (g *Goal) DecodeMilestones() ([]Milestone, error) {
	if len(g.Milestones) == 0 {
		return []Milestone{}, nil
	}
	var milestones []Milestone
	if err := json.Unmarshal(g.Milestones, &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

// EncodeMilestones packs milestones back into the column and recomputes
// progress as the share of completed milestones, in whole percent.
func (g *Goal) EncodeMilestones(milestones []Milestone) error {
	raw, err := json.Marshal(milestones)
	if err != nil {
		return err
	}
	g.Milestones = datatypes.JSON(raw)
	g.Progress = computeProgress(milestones)
	return nil
}

func computeProgress(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	var done int
	for _, m := range milestones {
		if m.Completed {
			done++
		}
	}
	return done * 100 / len(milestones)
}
