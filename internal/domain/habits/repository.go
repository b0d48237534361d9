package habits

import (
	"context"
	"errors"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// HabitFilter defines the filtering options for habits
type HabitFilter struct {
	UserID          *uuid.UUID
	Title           *string
	Category        *string
	IncludeArchived bool
	Page            int
	PageSize        int
}

// Repository defines the interface for habit persistence operations.
// All lookups are owner-scoped so one user can never touch another's
// habits; a wrong owner surfaces as ErrHabitNotFound.
type Repository interface {
	Create(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Habit, error)
	FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error)
	Update(ctx context.Context, habit *Habit) error
	Archive(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	// InsertCompletion appends one completion row. It returns false when
	// a row for the same habit and day already exists, without error:
	// the conflicting insert is the atomic same-day idempotency check.
	InsertCompletion(ctx context.Context, completion *HabitCompletion) (bool, error)
	DeleteCompletion(ctx context.Context, habitID uuid.UUID, userID uuid.UUID, day time.Time) (bool, error)
	CompletionDays(ctx context.Context, habitID uuid.UUID) ([]time.Time, error)
	CompletionDaysForUser(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID][]time.Time, error)

	SetStreak(ctx context.Context, habitID uuid.UUID, streak int, lastCompleted *time.Time) error
	ResetBrokenStreaks(ctx context.Context) (int64, error)
	GetTopStreaks(ctx context.Context, userID uuid.UUID, limit int) ([]Habit, error)
	GetActiveHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	GetHabitsWithReminder(ctx context.Context, reminderTime string) ([]Habit, error)

	GetHeatmapData(ctx context.Context, userID uuid.UUID, startDate time.Time, endDate time.Time) (map[string]int, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Habit, error) {
	var habit Habit
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&habit)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *repository) FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	var habits []Habit
	var total int64
	query := r.db.WithContext(ctx).Model(&Habit{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Title != nil {
		query = query.Where("title LIKE ?", "%"+*filter.Title+"%")
	}

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	if !filter.IncludeArchived {
		query = query.Where("archived = ?", false)
	}

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	// Set default PageSize if not set
	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}

	err = query.Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Order("created_at DESC").
		Find(&habits).Error
	if err != nil {
		return nil, 0, err
	}

	return habits, total, nil
}

func (r *repository) Update(ctx context.Context, habit *Habit) error {
	result := r.db.WithContext(ctx).Save(habit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// Archive soft-deletes a habit. Rows are never hard-deleted so completion
// history survives for longest-streak computation.
func (r *repository) Archive(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Habit{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("archived", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *repository) InsertCompletion(ctx context.Context, completion *HabitCompletion) (bool, error) {
	if completion.ID == uuid.Nil {
		completion.ID = uuid.New()
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DeleteCompletion(ctx context.Context, habitID uuid.UUID, userID uuid.UUID, day time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("habit_id = ? AND user_id = ? AND day = ?", habitID, userID, day).
		Delete(&HabitCompletion{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CompletionDays(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	var days []time.Time
	err := r.db.WithContext(ctx).Model(&HabitCompletion{}).
		Where("habit_id = ?", habitID).
		Order("day ASC").
		Pluck("day", &days).Error
	return days, err
}

func (r *repository) CompletionDaysForUser(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID][]time.Time, error) {
	var rows []HabitCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day >= ?", userID, since).
		Order("day ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byHabit := make(map[uuid.UUID][]time.Time)
	for _, row := range rows {
		byHabit[row.HabitID] = append(byHabit[row.HabitID], row.Day)
	}
	return byHabit, nil
}

func (r *repository) SetStreak(ctx context.Context, habitID uuid.UUID, streak int, lastCompleted *time.Time) error {
	return r.db.WithContext(ctx).Model(&Habit{}).
		Where("id = ?", habitID).
		Updates(map[string]interface{}{
			"current_streak":      streak,
			"last_completed_date": lastCompleted,
		}).Error
}

// ResetBrokenStreaks zeroes the cached counter for every habit whose most
// recent completion is older than yesterday. The comparison happens in
// Postgres so one statement covers all users.
func (r *repository) ResetBrokenStreaks(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Habit{}).
		Where("current_streak > 0 AND (last_completed_date IS NULL OR DATE(last_completed_date AT TIME ZONE 'UTC') < DATE(NOW() AT TIME ZONE 'UTC' - INTERVAL '1 day'))").
		Update("current_streak", 0)

	return result.RowsAffected, result.Error
}

func (r *repository) GetTopStreaks(ctx context.Context, userID uuid.UUID, limit int) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND archived = ?", userID, false).
		Order("current_streak desc").
		Limit(limit).
		Find(&habits).Error

	return habits, err
}

func (r *repository) GetActiveHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND archived = ?", userID, false).
		Find(&habits).Error
	return habits, err
}

func (r *repository) GetHabitsWithReminder(ctx context.Context, reminderTime string) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Where("archived = ? AND reminder_time = ?", false, reminderTime).
		Find(&habits).Error
	return habits, err
}

func (r *repository) GetHeatmapData(ctx context.Context, userID uuid.UUID, startDate time.Time, endDate time.Time) (map[string]int, error) {
	// Query to get counts of completed habits per day
	var results []struct {
		Date           string
		CompletedCount int
	}

	query := `
		SELECT
			TO_CHAR(day, 'YYYY-MM-DD') AS date,
			COUNT(*) AS completed_count
		FROM
			habit_completions
		WHERE
			user_id = ?
			AND day BETWEEN ? AND ?
		GROUP BY
			TO_CHAR(day, 'YYYY-MM-DD')
		ORDER BY
			date;
	`

	err := r.db.WithContext(ctx).Raw(query, userID, startDate, endDate).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	heatmapData := make(map[string]int)
	for _, result := range results {
		heatmapData[result.Date] = result.CompletedCount
	}

	return heatmapData, nil
}
