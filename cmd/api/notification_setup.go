package main

import (
	"context"
	"errors"
	"sync"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationSystem holds the notification-related components shared
// across the wiring in main
type NotificationSystem struct {
	Service          notification.Service
	SignalRepository notification.SignalRepository
	Mailer           notification.Mailer
	Logger           *logrus.Logger
}

// emailResolverBinding breaks the construction cycle between the
// notification system and the user service: the email delivery channel
// needs to turn user ids into addresses, but the user service that can
// do that is built after the notification service. The binding is
// filled in once the user service exists.
type emailResolverBinding struct {
	mu sync.RWMutex
	fn notification.EmailResolver
}

func (b *emailResolverBinding) Bind(fn notification.EmailResolver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fn = fn
}

func (b *emailResolverBinding) Resolve(ctx context.Context, userID uuid.UUID) (string, error) {
	b.mu.RLock()
	fn := b.fn
	b.mu.RUnlock()
	if fn == nil {
		return "", errors.New("email resolver not bound yet")
	}
	return fn(ctx, userID)
}

// SetupNotificationSystem initializes and configures all notification
// components
func SetupNotificationSystem(
	db *connection.Database,
	cfg *config.Config,
	isDevelopment bool,
) (*NotificationSystem, *emailResolverBinding, error) {
	notifLogger := logrus.New()
	notifLogger.SetFormatter(&logrus.JSONFormatter{})
	if isDevelopment {
		notifLogger.SetLevel(logrus.DebugLevel)
	} else {
		notifLogger.SetLevel(logrus.InfoLevel)
	}

	repo := notification.NewRepository(db, notifLogger)
	signalRepo := notification.NewSignalRepository(100) // Buffer size of 100

	mailer := notification.NewSMTPMailer(&cfg.Mail, notifLogger)

	resolverBinding := &emailResolverBinding{}
	inAppDelivery := notification.NewInAppDeliveryService(signalRepo, notifLogger)
	emailDelivery := notification.NewEmailDeliveryService(mailer, resolverBinding.Resolve, notifLogger)

	svc := notification.NewService(notification.ServiceConfig{
		Repository: repo,
		Logger:     notifLogger,
		SignalRepo: signalRepo,
		DeliveryServices: map[notification.DeliveryMethod]notification.DeliveryService{
			notification.InApp: inAppDelivery,
			notification.Email: emailDelivery,
		},
	})

	return &NotificationSystem{
		Service:          svc,
		SignalRepository: signalRepo,
		Mailer:           mailer,
		Logger:           notifLogger,
	}, resolverBinding, nil
}
