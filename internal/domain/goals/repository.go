package goals

import (
	"context"
	"errors"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidInput = errors.New("invalid input")
)

// GoalFilter defines filtering options for goals
type GoalFilter struct {
	UserID    uuid.UUID
	Category  *string
	Completed *bool
	Page      int
	PageSize  int
}

type Repository interface {
	Create(ctx context.Context, goal *Goal) error
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Goal, error)
	FindAll(ctx context.Context, filter GoalFilter) ([]Goal, int64, error)
	Update(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	CountByCompletion(ctx context.Context, userID uuid.UUID) (completed int64, active int64, err error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, goal *Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Goal, error) {
	var goal Goal
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&goal)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, result.Error
	}
	return &goal, nil
}

func (r *repository) FindAll(ctx context.Context, filter GoalFilter) ([]Goal, int64, error) {
	var goals []Goal
	var total int64

	query := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Completed != nil {
		if *filter.Completed {
			query = query.Where("completed_at IS NOT NULL")
		} else {
			query = query.Where("completed_at IS NULL")
		}
	}

	err := query.Model(&Goal{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 100
	}

	err = query.Order("target_date ASC").
		Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Find(&goals).Error
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

func (r *repository) Update(ctx context.Context, goal *Goal) error {
	result := r.db.WithContext(ctx).Save(goal)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Goal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *repository) CountByCompletion(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var completed, active int64

	err := r.db.WithContext(ctx).Model(&Goal{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&completed).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.WithContext(ctx).Model(&Goal{}).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Count(&active).Error
	if err != nil {
		return 0, 0, err
	}

	return completed, active, nil
}
