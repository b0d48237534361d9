package focus

import (
	"context"
	"errors"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("focus session not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// SessionFilter defines filtering options for focus sessions
type SessionFilter struct {
	UserID   uuid.UUID
	Kind     *SessionKind
	Since    *time.Time
	Page     int
	PageSize int
}

type Repository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Session, error)
	FindAll(ctx context.Context, filter SessionFilter) ([]Session, int64, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	SumFocusMinutes(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	CountAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Session, error) {
	var session Session
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, result.Error
	}
	return &session, nil
}

func (r *repository) FindAll(ctx context.Context, filter SessionFilter) ([]Session, int64, error) {
	var sessions []Session
	var total int64

	query := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Since != nil {
		query = query.Where("started_at >= ?", *filter.Since)
	}

	err := query.Model(&Session{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 100
	}

	err = query.Order("started_at DESC").
		Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *repository) Update(ctx context.Context, session *Session) error {
	result := r.db.WithContext(ctx).Save(session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *repository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Session{}).
		Where("user_id = ? AND started_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *repository) SumFocusMinutes(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var minutes int64
	err := r.db.WithContext(ctx).Model(&Session{}).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Where("user_id = ? AND kind = ? AND started_at >= ?", userID, KindFocus, since).
		Scan(&minutes).Error
	return minutes, err
}

func (r *repository) CountAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Session{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
