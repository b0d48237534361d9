package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// inAppDeliveryService implements DeliveryService for in-app notifications
type inAppDeliveryService struct {
	signalRepo SignalRepository
	logger     *logrus.Logger
}

// NewInAppDeliveryService creates a new in-app delivery service
func NewInAppDeliveryService(signalRepo SignalRepository, logger *logrus.Logger) DeliveryService {
	return &inAppDeliveryService{
		signalRepo: signalRepo,
		logger:     logger,
	}
}

// Deliver publishes the notification to in-process subscribers.
func (s *inAppDeliveryService) Deliver(ctx context.Context, notification *Notification, method DeliveryMethod) error {
	return s.signalRepo.Publish(notification.UserID.String(), notification)
}

// EmailResolver looks up the email address of a user. Implemented by the
// user service; declared here to avoid an import cycle.
type EmailResolver func(ctx context.Context, userID uuid.UUID) (string, error)

// emailDeliveryService implements DeliveryService for email notifications
type emailDeliveryService struct {
	mailer       Mailer
	resolveEmail EmailResolver
	logger       *logrus.Logger
}

// NewEmailDeliveryService creates a new email delivery service
func NewEmailDeliveryService(mailer Mailer, resolveEmail EmailResolver, logger *logrus.Logger) DeliveryService {
	return &emailDeliveryService{
		mailer:       mailer,
		resolveEmail: resolveEmail,
		logger:       logger,
	}
}

// Deliver sends the notification as an email to the owning user.
func (s *emailDeliveryService) Deliver(ctx context.Context, notification *Notification, method DeliveryMethod) error {
	if method != Email {
		return fmt.Errorf("unsupported delivery method: %s", method)
	}

	email, err := s.resolveEmail(ctx, notification.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient email: %w", err)
	}

	if err := s.mailer.SendNotificationEmail(email, notification); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"notification_id": notification.ID,
			"user_id":         notification.UserID,
		}).Error("Failed to deliver notification email")
		return err
	}

	return nil
}
