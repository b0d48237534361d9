package handlers

import (
	"errors"
	"net/http"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/focus"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FocusHandler handles HTTP requests for focus sessions
type FocusHandler struct {
	service focus.Service
}

// NewFocusHandler creates a new focus handler
func NewFocusHandler(service focus.Service) *FocusHandler {
	return &FocusHandler{service: service}
}

// CreateSession logs a focus or break interval
func (h *FocusHandler) CreateSession(c *gin.Context) {
	var req dto.CreateFocusSessionRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.CreateFocusSessionRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.CreateFocusSessionRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	created, err := h.service.CreateSession(c.Request.Context(), userID, focus.CreateSessionInput{
		Kind:            req.Kind,
		StartedAt:       req.StartedAt,
		DurationMinutes: req.DurationMinutes,
		Completed:       req.Completed,
	})
	if err != nil {
		c.JSON(focusErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.FocusSessionToResponse(created)})
}

// GetSession returns a single focus session
func (h *FocusHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.service.GetSession(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(focusErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FocusSessionToResponse(found)})
}

// ListSessions returns the user's focus history with optional filters
func (h *FocusHandler) ListSessions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var filter dto.FocusListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domainFilter := focus.SessionFilter{
		UserID:   userID,
		Since:    filter.Since,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Kind != "" {
		kind := focus.SessionKind(filter.Kind)
		domainFilter.Kind = &kind
	}

	items, total, err := h.service.ListSessions(c.Request.Context(), domainFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FocusSessionListResponse{
		Sessions:   dto.FocusSessionsToResponse(items),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}})
}

// DeleteSession removes a focus session
func (h *FocusHandler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.DeleteSession(c.Request.Context(), id, userID); err != nil {
		c.JSON(focusErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func focusErrorStatus(err error) int {
	switch {
	case errors.Is(err, focus.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, focus.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
