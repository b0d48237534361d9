package focus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockRepository struct {
	sessions map[uuid.UUID]*Session
}

func newMockRepository() *mockRepository {
	return &mockRepository{sessions: make(map[uuid.UUID]*Session)}
}

func (m *mockRepository) Create(ctx context.Context, s *Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *mockRepository) FindAll(ctx context.Context, filter SessionFilter) ([]Session, int64, error) {
	var out []Session
	for _, s := range m.sessions {
		if s.UserID != filter.UserID {
			continue
		}
		if filter.Kind != nil && s.Kind != *filter.Kind {
			continue
		}
		if filter.Since != nil && s.StartedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) Update(ctx context.Context, s *Session) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockRepository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, s := range m.sessions {
		if s.UserID == userID && !s.StartedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) SumFocusMinutes(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var minutes int64
	for _, s := range m.sessions {
		if s.UserID == userID && s.Kind == KindFocus && !s.StartedAt.Before(since) {
			minutes += int64(s.DurationMinutes)
		}
	}
	return minutes, nil
}

func (m *mockRepository) CountAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, s := range m.sessions {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, zap.NewNop(), time.UTC)
}

func TestCreateSessionDefaults(t *testing.T) {
	svc := newTestService(newMockRepository())
	userID := uuid.New()

	session, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{
		DurationMinutes: 25,
		Completed:       true,
	})
	assert.NoError(t, err)
	assert.Equal(t, KindFocus, session.Kind)
	assert.False(t, session.StartedAt.IsZero())
	assert.Equal(t, 25, session.DurationMinutes)
}

func TestCreateSessionValidation(t *testing.T) {
	svc := newTestService(newMockRepository())
	userID := uuid.New()

	_, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateSession(context.Background(), userID, CreateSessionInput{
		DurationMinutes: 25,
		Kind:            "nap",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSessionOwnershipScoping(t *testing.T) {
	svc := newTestService(newMockRepository())
	owner := uuid.New()
	stranger := uuid.New()

	session, err := svc.CreateSession(context.Background(), owner, CreateSessionInput{DurationMinutes: 25})
	assert.NoError(t, err)

	_, err = svc.GetSession(context.Background(), session.ID, stranger)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	err = svc.DeleteSession(context.Background(), session.ID, stranger)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFocusDashboardMetrics(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	userID := uuid.New()

	_, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{
		DurationMinutes: 25,
		Completed:       true,
	})
	assert.NoError(t, err)

	_, err = svc.CreateSession(context.Background(), userID, CreateSessionInput{
		DurationMinutes: 5,
		Kind:            string(KindBreak),
	})
	assert.NoError(t, err)

	// A session from a week ago counts toward the total only.
	lastWeek := time.Now().AddDate(0, 0, -7)
	_, err = svc.CreateSession(context.Background(), userID, CreateSessionInput{
		DurationMinutes: 50,
		StartedAt:       lastWeek,
	})
	assert.NoError(t, err)

	metrics, err := svc.GetDashboardMetrics(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), metrics.SessionsToday)
	assert.Equal(t, int64(25), metrics.FocusMinutesToday)
	assert.Equal(t, int64(3), metrics.TotalSessions)
}
