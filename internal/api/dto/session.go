package dto

import "time"

// SessionResponse describes one active login session. The bearer token
// itself is never echoed back.
type SessionResponse struct {
	ID           string    `json:"id"`
	DeviceInfo   string    `json:"device_info"`
	IPAddress    string    `json:"ip_address"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}
