package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NotificationHandler handles HTTP and websocket requests for notifications
type NotificationHandler struct {
	service notification.Service
	logger  *logrus.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service notification.Service, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: logger}
}

// ListNotifications returns the user's notifications, newest first
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var filter dto.NotificationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	offset := filter.Page * filter.PageSize

	var (
		items []*notification.Notification
		err   error
	)
	if filter.Status == string(notification.Unread) {
		items, err = h.service.GetUnreadByUserID(c.Request.Context(), userID, filter.PageSize, offset)
	} else {
		items, err = h.service.GetByUserID(c.Request.Context(), userID, filter.PageSize, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	unread, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NotificationListResponse{
		Items:       dto.ToDTOs(items),
		TotalCount:  len(items),
		UnreadCount: unread,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
	}})
}

// GetNotification returns a single notification owned by the user
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(notificationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if found.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": notification.ErrNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToDTO(found)})
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	unread, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NotificationCountResponse{UnreadCount: unread}})
}

// MarkAsRead marks one notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(notificationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if found.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": notification.ErrNotFound.Error()})
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id); err != nil {
		c.JSON(notificationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// MarkAllAsRead marks every unread notification as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

// DeleteNotification removes a notification
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(notificationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if found.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": notification.ErrNotFound.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(notificationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

type wsCommand struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

// WebSocketHandler streams notifications to the client as they are
// created. The token comes through a query parameter because browsers
// cannot set headers on websocket upgrades.
func (h *NotificationHandler) WebSocketHandler(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}

	secretVal, exists := c.Get("jwt_secret")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	claims, err := auth.ValidateToken(tokenString, secretVal.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, unsubscribe, err := h.service.SubscribeToNotifications(claims.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Notification subscription failed")
		return
	}
	defer unsubscribe()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	// Read loop handles client commands and detects disconnects
	go func() {
		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				conn.Close()
				return
			}
			switch cmd.Action {
			case "mark_read":
				if id, err := uuid.Parse(cmd.ID); err == nil {
					if n, err := h.service.GetByID(c.Request.Context(), id); err == nil && n.UserID == claims.UserID {
						h.service.MarkAsRead(c.Request.Context(), id)
					}
				}
			case "mark_all_read":
				h.service.MarkAllAsRead(c.Request.Context(), claims.UserID)
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(dto.ToDTO(n)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func notificationErrorStatus(err error) int {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, notification.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
