package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	DashboardEventMetricsUpdate   = "metrics_update"
	DashboardEventCacheInvalidate = "cache_invalidate"
)

// DashboardEvent travels over the Redis dashboard channel so every
// instance can drop stale cached metrics for the affected user.
type DashboardEvent struct {
	EventType string      `json:"event_type"`
	UserID    uuid.UUID   `json:"user_id"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}
