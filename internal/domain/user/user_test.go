package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	users map[uuid.UUID]*User
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepository) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*User, error) {
	for _, u := range m.users {
		if u.ResetPasswordTokenHash != "" && u.ResetPasswordTokenHash == tokenHash {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) Update(ctx context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockRepository) SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.ResetPasswordTokenHash = tokenHash
	u.ResetPasswordExpiresAt = &expiresAt
	return nil
}

func (m *mockRepository) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.ResetPasswordTokenHash = ""
	u.ResetPasswordExpiresAt = nil
	return nil
}

func (m *mockRepository) SetVerificationCode(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.VerificationCode = code
	u.VerificationCodeExpiresAt = &expiresAt
	return nil
}

func (m *mockRepository) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.IsVerified = true
	u.VerificationCode = ""
	u.VerificationCodeExpiresAt = nil
	return nil
}

func (m *mockRepository) AddXP(ctx context.Context, userID uuid.UUID, points int) (*User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.XP += points
	return u, nil
}

func (m *mockRepository) UpdateBadges(ctx context.Context, userID uuid.UUID, badges pq.StringArray) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Badges = badges
	return nil
}

type mockMailer struct {
	fail       bool
	codes      []string
	resetLinks []string
}

func (m *mockMailer) SendVerificationCode(to, code string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.codes = append(m.codes, code)
	return nil
}

func (m *mockMailer) SendPasswordReset(to, link string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.resetLinks = append(m.resetLinks, link)
	return nil
}

func (m *mockMailer) SendNotificationEmail(to string, n *notification.Notification) error {
	return nil
}

const testBaseURL = "https://app.focusflow.dev"

func newTestService(repo Repository, mailer *mockMailer) Service {
	return NewService(repo, mailer, nil, auth.GetSessionStore(), testBaseURL, zap.NewNop())
}

func seedUser(t *testing.T, repo *mockRepository, email, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     strings.Split(email, "@")[0],
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
		Status:       UserStatusActive,
		IsActive:     true,
		IsVerified:   true,
	}
	repo.users[u.ID] = u
	return u
}

func TestCreateUserHashesPasswordAndSendsCode(t *testing.T) {
	repo := newMockRepository()
	mailer := &mockMailer{}
	svc := newTestService(repo, mailer)

	u, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "dana@example.com",
		Username:  "dana",
		Password:  "supersecret1",
		FirstName: "Dana",
		LastName:  "Reyes",
	})
	assert.NoError(t, err)
	assert.NotEqual(t, "supersecret1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret1")))
	assert.False(t, u.IsVerified)
	assert.NotEmpty(t, u.VerificationCode)
	assert.NotNil(t, u.VerificationCodeExpiresAt)
	assert.Len(t, mailer.codes, 1)
	assert.Equal(t, u.VerificationCode, mailer.codes[0])
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	seedUser(t, repo, "dana@example.com", "supersecret1")

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "dana@example.com",
		Username:  "dana2",
		Password:  "supersecret1",
		FirstName: "Dana",
		LastName:  "Reyes",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateUserSucceedsWhenMailFails(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{fail: true})

	u, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "dana@example.com",
		Username:  "dana",
		Password:  "supersecret1",
		FirstName: "Dana",
		LastName:  "Reyes",
	})
	assert.NoError(t, err)
	assert.NotNil(t, u)
}

func TestVerifyEmail(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	u := seedUser(t, repo, "dana@example.com", "supersecret1")
	u.IsVerified = false
	expiry := time.Now().Add(10 * time.Minute)
	u.VerificationCode = "482913"
	u.VerificationCodeExpiresAt = &expiry

	err := svc.VerifyEmail(context.Background(), "dana@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidVerification)

	err = svc.VerifyEmail(context.Background(), "nobody@example.com", "482913")
	assert.ErrorIs(t, err, ErrInvalidVerification)

	err = svc.VerifyEmail(context.Background(), "dana@example.com", "482913")
	assert.NoError(t, err)
	assert.True(t, repo.users[u.ID].IsVerified)

	err = svc.VerifyEmail(context.Background(), "dana@example.com", "482913")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	u := seedUser(t, repo, "dana@example.com", "supersecret1")
	u.IsVerified = false
	expiry := time.Now().Add(-time.Minute)
	u.VerificationCode = "482913"
	u.VerificationCodeExpiresAt = &expiry

	err := svc.VerifyEmail(context.Background(), "dana@example.com", "482913")
	assert.ErrorIs(t, err, ErrInvalidVerification)
}

func TestForgotPasswordUnknownEmailStaysSilent(t *testing.T) {
	repo := newMockRepository()
	mailer := &mockMailer{}
	svc := newTestService(repo, mailer)
	seedUser(t, repo, "dana@example.com", "supersecret1")

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, mailer.resetLinks)
	for _, u := range repo.users {
		assert.Empty(t, u.ResetPasswordTokenHash)
	}
}

func TestForgotPasswordStoresHashNotToken(t *testing.T) {
	repo := newMockRepository()
	mailer := &mockMailer{}
	svc := newTestService(repo, mailer)
	u := seedUser(t, repo, "dana@example.com", "supersecret1")

	err := svc.ForgotPassword(context.Background(), "dana@example.com")
	assert.NoError(t, err)
	assert.Len(t, mailer.resetLinks, 1)

	token := strings.TrimPrefix(mailer.resetLinks[0], testBaseURL+"/reset-password?token=")
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, repo.users[u.ID].ResetPasswordTokenHash)
	assert.Equal(t, auth.HashToken(token), repo.users[u.ID].ResetPasswordTokenHash)
	assert.NotNil(t, repo.users[u.ID].ResetPasswordExpiresAt)
}

func TestForgotPasswordRollsBackTokenWhenMailFails(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{fail: true})
	u := seedUser(t, repo, "dana@example.com", "supersecret1")

	err := svc.ForgotPassword(context.Background(), "dana@example.com")
	assert.ErrorIs(t, err, ErrMailDelivery)
	assert.Empty(t, repo.users[u.ID].ResetPasswordTokenHash)
	assert.Nil(t, repo.users[u.ID].ResetPasswordExpiresAt)
}

func TestResetPasswordFlow(t *testing.T) {
	repo := newMockRepository()
	mailer := &mockMailer{}
	svc := newTestService(repo, mailer)
	u := seedUser(t, repo, "dana@example.com", "supersecret1")

	sessions := auth.GetSessionStore()
	sessions.CreateSession(u.ID, "test-device", "127.0.0.1", "session-token-"+u.ID.String(), time.Hour)

	err := svc.ForgotPassword(context.Background(), "dana@example.com")
	assert.NoError(t, err)
	token := strings.TrimPrefix(mailer.resetLinks[0], testBaseURL+"/reset-password?token=")

	err = svc.ResetPassword(context.Background(), token, "brandnewsecret")
	assert.NoError(t, err)

	_, err = svc.AuthenticateUser(context.Background(), "dana@example.com", "brandnewsecret")
	assert.NoError(t, err)
	_, err = svc.AuthenticateUser(context.Background(), "dana@example.com", "supersecret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Empty(t, repo.users[u.ID].ResetPasswordTokenHash)
	assert.Empty(t, sessions.GetUserSessions(u.ID))

	// A consumed token cannot be replayed.
	err = svc.ResetPassword(context.Background(), token, "anotherpassword")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	u := seedUser(t, repo, "dana@example.com", "supersecret1")

	token, hash, err := auth.GenerateResetToken()
	assert.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	u.ResetPasswordTokenHash = hash
	u.ResetPasswordExpiresAt = &expired

	err = svc.ResetPassword(context.Background(), token, "brandnewsecret")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
	assert.Empty(t, repo.users[u.ID].ResetPasswordTokenHash)
}

func TestResetPasswordGarbageToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	seedUser(t, repo, "dana@example.com", "supersecret1")

	err := svc.ResetPassword(context.Background(), "not-a-real-token", "brandnewsecret")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthenticateLockoutAfterRepeatedFailures(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	seedUser(t, repo, "dana@example.com", "supersecret1")

	for i := 0; i < maxFailedLogins; i++ {
		_, err := svc.AuthenticateUser(context.Background(), "dana@example.com", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.AuthenticateUser(context.Background(), "dana@example.com", "supersecret1")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestGrantXP(t *testing.T) {
	tests := []struct {
		name      string
		startXP   int
		points    int
		wantLevel int
		wantUp    bool
		wantBadge string
	}{
		{name: "no level up", startXP: 10, points: 10, wantLevel: 1, wantUp: false},
		{name: "level up without badge", startXP: 95, points: 10, wantLevel: 2, wantUp: true},
		{name: "level up with badge", startXP: 390, points: 10, wantLevel: 5, wantUp: true, wantBadge: "consistent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newTestService(repo, &mockMailer{})
			u := seedUser(t, repo, "dana@example.com", "supersecret1")
			u.XP = tt.startXP

			award, err := svc.GrantXP(context.Background(), u.ID, tt.points)
			assert.NoError(t, err)
			assert.Equal(t, tt.startXP+tt.points, award.XP)
			assert.Equal(t, tt.wantLevel, award.Level)
			assert.Equal(t, tt.wantUp, award.LeveledUp)
			assert.Equal(t, tt.wantBadge, award.NewBadge)
			if tt.wantBadge != "" {
				assert.Contains(t, []string(repo.users[u.ID].Badges), tt.wantBadge)
			}
		})
	}
}

func TestGrantXPRejectsNonPositivePoints(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	u := seedUser(t, repo, "dana@example.com", "supersecret1")

	_, err := svc.GrantXP(context.Background(), u.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, repo.users[u.ID].XP)
}

func TestGrantXPIsCumulative(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	u := seedUser(t, repo, "dana@example.com", "supersecret1")

	for i := 0; i < 3; i++ {
		err := svc.AwardXP(context.Background(), u.ID, 10)
		assert.NoError(t, err)
	}
	assert.Equal(t, 30, repo.users[u.ID].XP)
	assert.Equal(t, 1, repo.users[u.ID].Level())
}

func TestResolveEmail(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockMailer{})
	u := seedUser(t, repo, "dana@example.com", "supersecret1")

	email, err := svc.ResolveEmail(context.Background(), u.ID)
	assert.NoError(t, err)
	assert.Equal(t, "dana@example.com", email)

	_, err = svc.ResolveEmail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
