package migrations

import (
	"fmt"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/focus"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/goals"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/habits"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/task"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/user"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrationRecord tracks which schema steps have been applied.
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// step pairs a model with a stable name for the migration ledger.
type step struct {
	name  string
	model interface{}
}

// steps are ordered so that foreign key targets migrate before their
// dependents.
var steps = []step{
	{"users", &user.User{}},
	{"habits", &habits.Habit{}},
	{"habit_completions", &habits.HabitCompletion{}},
	{"tasks", &task.Task{}},
	{"goals", &goals.Goal{}},
	{"focus_sessions", &focus.Session{}},
	{"notifications", &notification.Notification{}},
}

// AutoMigrate applies any pending schema steps inside a single
// transaction and records each one in schema_migrations.
func AutoMigrate(db *connection.Database, logger *zap.Logger) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema_migrations table: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		txDB := &connection.Database{DB: tx}

		var version int
		if err := tx.Model(&MigrationRecord{}).
			Select("COALESCE(MAX(version), 0)").
			Scan(&version).Error; err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}

		for _, s := range steps {
			var count int64
			if err := tx.Model(&MigrationRecord{}).
				Where("name = ?", s.name).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check migration %s: %w", s.name, err)
			}

			if err := txDB.AutoMigrate(s.model); err != nil {
				return fmt.Errorf("failed to migrate %s: %w", s.name, err)
			}

			if count > 0 {
				continue
			}
			version++
			record := MigrationRecord{
				Name:      s.name,
				Version:   version,
				AppliedAt: time.Now().UTC(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", s.name, err)
			}
			logger.Info("applied migration",
				zap.String("name", s.name),
				zap.Int("version", version))
		}
		return nil
	})
}
