package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/goals"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoalsHandler handles HTTP requests for goals
type GoalsHandler struct {
	service goals.Service
}

// NewGoalsHandler creates a new goals handler
func NewGoalsHandler(service goals.Service) *GoalsHandler {
	return &GoalsHandler{service: service}
}

// CreateGoal handles the creation of a new goal
func (h *GoalsHandler) CreateGoal(c *gin.Context) {
	var req dto.CreateGoalRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.CreateGoalRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.CreateGoalRequest", validated)
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

	created, err := h.service.CreateGoal(c.Request.Context(), userID, goals.CreateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
		Milestones:  dto.MilestonesToDomain(req.Milestones),
	})
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.GoalToResponse(created)})
}

// GetGoal returns a single goal
func (h *GoalsHandler) GetGoal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.service.GetGoal(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.GoalToResponse(found)})
}

// ListGoals returns the user's goals with optional filters
func (h *GoalsHandler) ListGoals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var filter dto.GoalListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domainFilter := goals.GoalFilter{
		UserID:    userID,
		Completed: filter.Completed,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}
	if filter.Category != "" {
		domainFilter.Category = &filter.Category
	}

	items, total, err := h.service.ListGoals(c.Request.Context(), domainFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.GoalListResponse{
		Goals:      dto.GoalsToResponse(items),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}})
}

// UpdateGoal handles updating an existing goal
func (h *GoalsHandler) UpdateGoal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	var req dto.UpdateGoalRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.UpdateGoalRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.UpdateGoalRequest", validated)
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

	input := goals.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
	}
	if req.Milestones != nil {
		input.Milestones = dto.MilestonesToDomain(req.Milestones)
	}

	updated, err := h.service.UpdateGoal(c.Request.Context(), id, userID, input)
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.GoalToResponse(updated)})
}

// DeleteGoal removes a goal
func (h *GoalsHandler) DeleteGoal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.DeleteGoal(c.Request.Context(), id, userID); err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleMilestone flips one milestone's completed state and recomputes
// the goal's progress
func (h *GoalsHandler) ToggleMilestone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone index"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	updated, err := h.service.ToggleMilestone(c.Request.Context(), id, userID, index)
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.GoalToResponse(updated)})
}

func goalErrorStatus(err error) int {
	switch {
	case errors.Is(err, goals.ErrGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, goals.ErrInvalidInput),
		errors.Is(err, goals.ErrTitleRequired),
		errors.Is(err, goals.ErrTargetDateRequired),
		errors.Is(err, goals.ErrMilestoneIndex):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
