package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DeliveryMethod names a channel a notification can go out on.
type DeliveryMethod string

const (
	InApp DeliveryMethod = "in_app"
	Email DeliveryMethod = "email"
)

// DeliveryService sends a stored notification over one channel.
type DeliveryService interface {
	Deliver(ctx context.Context, notification *Notification, method DeliveryMethod) error
}

// Service is the notification domain API. Every created notification is
// persisted and pushed to live subscribers; DeliverNotification
// additionally fans out to external channels.
type Service interface {
	Create(ctx context.Context, notification *Notification) error
	CreateForUser(ctx context.Context, userID uuid.UUID, notificationType Type, title, content string, data map[string]string, reference string, referenceID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)
	GetUnreadByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	SubscribeToNotifications(userID uuid.UUID) (<-chan *Notification, func(), error)
	DeliverNotification(ctx context.Context, notification *Notification, methods []DeliveryMethod) error
}

type ServiceConfig struct {
	Repository       Repository
	Logger           *logrus.Logger
	SignalRepo       SignalRepository
	DeliveryServices map[DeliveryMethod]DeliveryService
}

type serviceImpl struct {
	repo       Repository
	logger     *logrus.Logger
	signals    SignalRepository
	deliverers map[DeliveryMethod]DeliveryService
}

func NewService(config ServiceConfig) Service {
	return &serviceImpl{
		repo:       config.Repository,
		logger:     config.Logger,
		signals:    config.SignalRepo,
		deliverers: config.DeliveryServices,
	}
}

func (s *serviceImpl) Create(ctx context.Context, notification *Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.WithError(err).Error("Failed to create notification")
		return err
	}
	s.signals.Publish(notification.UserID.String(), notification)
	return nil
}

func (s *serviceImpl) CreateForUser(ctx context.Context, userID uuid.UUID, notificationType Type, title, content string, data map[string]string, reference string, referenceID uuid.UUID) error {
	now := time.Now()
	return s.Create(ctx, &Notification{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        notificationType,
		Title:       title,
		Content:     content,
		Status:      Unread,
		Data:        data,
		Reference:   reference,
		ReferenceID: referenceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *serviceImpl) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *serviceImpl) GetUnreadByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.GetUnreadByUserID(ctx, userID, limit, offset)
}

func (s *serviceImpl) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *serviceImpl) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *serviceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *serviceImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *serviceImpl) SubscribeToNotifications(userID uuid.UUID) (<-chan *Notification, func(), error) {
	return s.signals.Subscribe(userID.String())
}

// DeliverNotification stores the notification, pushes it to live
// subscribers, then tries each extra channel. A failing channel is
// logged and skipped so one outage cannot block the rest.
func (s *serviceImpl) DeliverNotification(ctx context.Context, notification *Notification, methods []DeliveryMethod) error {
	if notification == nil {
		return ErrNotFound
	}
	if err := s.Create(ctx, notification); err != nil {
		return err
	}

	for _, method := range methods {
		if method == InApp {
			continue // Create already published in-app
		}
		deliverer, ok := s.deliverers[method]
		if !ok {
			continue
		}
		if err := deliverer.Deliver(ctx, notification, method); err != nil {
			s.logger.WithError(err).WithField("method", method).
				Error("Notification channel delivery failed")
		}
	}
	return nil
}
