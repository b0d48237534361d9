package focus

import (
	"context"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/events"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/streaks"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateSession(ctx context.Context, userID uuid.UUID, input CreateSessionInput) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]Session, int64, error)
	DeleteSession(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*FocusMetrics, error)
}

type service struct {
	repo   Repository
	redis  *cache.RedisClient
	logger *zap.Logger
	loc    *time.Location
}

func NewService(repo Repository, redis *cache.RedisClient, logger *zap.Logger, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:   repo,
		redis:  redis,
		logger: logger,
		loc:    loc,
	}
}

func (s *service) CreateSession(ctx context.Context, userID uuid.UUID, input CreateSessionInput) (*Session, error) {
	if input.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}

	kind := SessionKind(input.Kind)
	if input.Kind == "" {
		kind = KindFocus
	}
	if !kind.IsValid() {
		return nil, ErrInvalidInput
	}

	startedAt := input.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	session := &Session{
		ID:              uuid.New(),
		UserID:          userID,
		Kind:            kind,
		StartedAt:       startedAt,
		DurationMinutes: input.DurationMinutes,
		Completed:       input.Completed,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, userID, session.ID, map[string]interface{}{
		"action":     "focus_session_created",
		"session_id": session.ID,
		"kind":       string(kind),
	})

	return session, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Session, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *service) ListSessions(ctx context.Context, filter SessionFilter) ([]Session, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) DeleteSession(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.publishDashboardEvent(ctx, userID, id, map[string]interface{}{
		"action":     "focus_session_deleted",
		"session_id": id,
	})

	return nil
}

func (s *service) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*FocusMetrics, error) {
	startOfDay := streaks.NewDayKey(time.Now(), s.loc).Time(s.loc)

	sessionsToday, err := s.repo.CountSince(ctx, userID, startOfDay)
	if err != nil {
		return nil, err
	}

	minutesToday, err := s.repo.SumFocusMinutes(ctx, userID, startOfDay)
	if err != nil {
		return nil, err
	}

	totalSessions, err := s.repo.CountAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FocusMetrics{
		SessionsToday:     sessionsToday,
		FocusMinutesToday: minutesToday,
		TotalSessions:     totalSessions,
	}, nil
}

func (s *service) publishDashboardEvent(ctx context.Context, userID uuid.UUID, entityID uuid.UUID, details map[string]interface{}) {
	if s.redis == nil {
		return
	}
	event := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Details:   details,
	}
	if err := s.redis.PublishDashboardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}
