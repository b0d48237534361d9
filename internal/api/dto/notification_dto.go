package dto

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationFilter carries list query parameters.
type NotificationFilter struct {
	Status   string `form:"status"`
	Type     string `form:"type"`
	Page     int    `form:"page,default=0"`
	PageSize int    `form:"page_size,default=10"`
}

type NotificationDTO struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Status      string            `json:"status"`
	Data        map[string]string `json:"data,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	ReferenceID uuid.UUID         `json:"reference_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ReadAt      *time.Time        `json:"read_at,omitempty"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
}

type NotificationListResponse struct {
	Items       []NotificationDTO `json:"items"`
	TotalCount  int               `json:"total_count"`
	UnreadCount int               `json:"unread_count"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
}

type NotificationCountResponse struct {
	UnreadCount int `json:"unread_count"`
	TotalCount  int `json:"total_count"`
}

func ToDTO(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID,
		UserID:      n.UserID,
		Type:        string(n.Type),
		Title:       n.Title,
		Content:     n.Content,
		Status:      string(n.Status),
		Data:        map[string]string(n.Data),
		Reference:   n.Reference,
		ReferenceID: n.ReferenceID,
		CreatedAt:   n.CreatedAt,
		ReadAt:      n.ReadAt,
		ExpiresAt:   n.ExpiresAt,
	}
}

func ToDTOs(notifications []*notification.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		out[i] = ToDTO(n)
	}
	return out
}
