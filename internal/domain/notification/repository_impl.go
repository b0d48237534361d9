package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type postgresRepository struct {
	db     *connection.Database
	logger *logrus.Logger
}

func NewRepository(db *connection.Database, logger *logrus.Logger) Repository {
	return &postgresRepository{db: db, logger: logger}
}

var connectionErrorMarkers = []string{
	"connection refused",
	"bad connection",
	"connection reset by peer",
	"broken pipe",
	"connection closed",
}

func looksLikeConnectionError(err error) bool {
	msg := err.Error()
	for _, marker := range connectionErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// run executes fn, reconnecting and retrying once if the failure looks
// like a dropped connection.
func (r *postgresRepository) run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := fn(r.db.WithContext(ctx))
	if err == nil {
		return nil
	}

	r.logger.WithError(err).WithField("operation", op).Error("Database operation failed")
	if !looksLikeConnectionError(err) {
		return err
	}

	if rerr := r.db.Reconnect(); rerr != nil {
		r.logger.WithError(rerr).Error("Database reconnect failed")
		return err
	}
	return fn(r.db.WithContext(ctx))
}

func (r *postgresRepository) Create(ctx context.Context, notification *Notification) error {
	return r.run(ctx, "Create", func(tx *gorm.DB) error {
		return tx.Create(notification).Error
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	var n Notification
	err := r.run(ctx, "GetByID", func(tx *gorm.DB) error {
		return tx.First(&n, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *postgresRepository) listByUser(ctx context.Context, op string, limit, offset int, where func(tx *gorm.DB) *gorm.DB) ([]*Notification, error) {
	var out []*Notification
	err := r.run(ctx, op, func(tx *gorm.DB) error {
		q := where(tx.Model(&Notification{}))
		if limit > 0 {
			q = q.Limit(limit)
		}
		if offset > 0 {
			q = q.Offset(offset)
		}
		return q.Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return r.listByUser(ctx, "GetByUserID", limit, offset, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID).
			Order("status ASC, created_at DESC")
	})
}

func (r *postgresRepository) GetUnreadByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return r.listByUser(ctx, "GetUnreadByUserID", limit, offset, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ? AND status = ?", userID, Unread).
			Order("created_at DESC")
	})
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.run(ctx, "UpdateStatus", func(tx *gorm.DB) error {
		res := tx.Model(&Notification{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postgresRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.run(ctx, "MarkAsRead", func(tx *gorm.DB) error {
		res := tx.Model(&Notification{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     Read,
				"read_at":    now,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postgresRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	return r.run(ctx, "MarkAllAsRead", func(tx *gorm.DB) error {
		return tx.Model(&Notification{}).
			Where("user_id = ? AND status = ?", userID, Unread).
			Updates(map[string]interface{}{
				"status":     Read,
				"read_at":    now,
				"updated_at": now,
			}).Error
	})
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.run(ctx, "Delete", func(tx *gorm.DB) error {
		res := tx.Delete(&Notification{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postgresRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := r.run(ctx, "CountUnread", func(tx *gorm.DB) error {
		return tx.Model(&Notification{}).
			Where("user_id = ? AND status = ?", userID, Unread).
			Count(&count).Error
	})
	return int(count), err
}

func (r *postgresRepository) DeleteExpired(ctx context.Context) error {
	return r.run(ctx, "DeleteExpired", func(tx *gorm.DB) error {
		return tx.Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
			Delete(&Notification{}).Error
	})
}
