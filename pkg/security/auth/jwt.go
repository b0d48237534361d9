package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the authenticated identity carried by a session token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 session token valid for expiryHours.
func GenerateToken(userID uuid.UUID, email string, secret string, expiryHours int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryHours) * time.Hour)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func hmacKeyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}

// ValidateToken parses and verifies a session token.
func ValidateToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, hmacKeyFunc(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateTemporaryToken signs a short-lived token used between password
// login and MFA code verification. It carries a temp marker so it can
// never pass as a session token.
func GenerateTemporaryToken(userID uuid.UUID, email string, secret string, expiryHours int) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"temp":    true,
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		"exp":     now.Add(time.Duration(expiryHours) * time.Hour).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return signed, nil
}

// ValidateTemporaryToken verifies an MFA exchange token and returns its
// claims. Regular session tokens are rejected.
func ValidateTemporaryToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, hmacKeyFunc(secret))
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if temp, _ := claims["temp"].(bool); !temp {
		return nil, errors.New("not a temporary token")
	}
	return claims, nil
}

// TokenBlacklist tracks tokens revoked before their natural expiry
// (logout, session revocation).
type TokenBlacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

var (
	blacklist     *TokenBlacklist
	blacklistOnce sync.Once
)

// GetTokenBlacklist returns the process-wide blacklist.
func GetTokenBlacklist() *TokenBlacklist {
	blacklistOnce.Do(func() {
		blacklist = &TokenBlacklist{revoked: make(map[string]time.Time)}
	})
	return blacklist
}

// AddToBlacklist revokes a token until expiryTime, after which it falls
// out on the next write.
func (tb *TokenBlacklist) AddToBlacklist(tokenString string, expiryTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.revoked[tokenString] = expiryTime

	now := time.Now()
	for token, expiry := range tb.revoked {
		if now.After(expiry) {
			delete(tb.revoked, token)
		}
	}
}

func (tb *TokenBlacklist) IsBlacklisted(tokenString string) bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	_, ok := tb.revoked[tokenString]
	return ok
}
