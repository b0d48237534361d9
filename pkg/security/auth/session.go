package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one device login. Sessions live in memory keyed by token;
// removing the entry is the only invalidation.
type Session struct {
	ID           string    `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Token        string    `json:"token"`
	DeviceInfo   string    `json:"device_info"`
	IPAddress    string    `json:"ip_address"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SessionStore struct {
	mu      sync.RWMutex
	byToken map[string]*Session
}

var (
	sessionStore     *SessionStore
	sessionStoreOnce sync.Once
)

// GetSessionStore returns the process-wide session store.
func GetSessionStore() *SessionStore {
	sessionStoreOnce.Do(func() {
		sessionStore = &SessionStore{byToken: make(map[string]*Session)}
	})
	return sessionStore
}

func (ss *SessionStore) CreateSession(userID uuid.UUID, deviceInfo, ipAddress string, token string, expiryDuration time.Duration) *Session {
	now := time.Now()
	session := &Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		Token:        token,
		DeviceInfo:   deviceInfo,
		IPAddress:    ipAddress,
		LastActivity: now,
		ExpiresAt:    now.Add(expiryDuration),
	}

	ss.mu.Lock()
	ss.byToken[token] = session
	ss.mu.Unlock()
	return session
}

// GetSession looks a session up by token. Expired sessions are treated
// as absent.
func (ss *SessionStore) GetSession(token string) (*Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	session, ok := ss.byToken[token]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return session, true
}

func (ss *SessionStore) InvalidateSession(token string) {
	ss.mu.Lock()
	delete(ss.byToken, token)
	ss.mu.Unlock()
}

// InvalidateUserSessions drops every session belonging to a user.
// Called after a password reset so stolen tokens stop working.
func (ss *SessionStore) InvalidateUserSessions(userID uuid.UUID) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for token, session := range ss.byToken {
		if session.UserID == userID {
			delete(ss.byToken, token)
		}
	}
}

// GetUserSessions lists a user's live sessions.
func (ss *SessionStore) GetUserSessions(userID uuid.UUID) []*Session {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	now := time.Now()
	var out []*Session
	for _, session := range ss.byToken {
		if session.UserID == userID && now.Before(session.ExpiresAt) {
			out = append(out, session)
		}
	}
	return out
}

func (ss *SessionStore) UpdateSessionActivity(token string) {
	ss.mu.Lock()
	if session, ok := ss.byToken[token]; ok {
		session.LastActivity = time.Now()
	}
	ss.mu.Unlock()
}
