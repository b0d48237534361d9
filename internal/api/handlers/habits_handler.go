package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/habits"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HabitsHandler handles HTTP requests for habits
type HabitsHandler struct {
	service habits.Service
	loc     *time.Location
}

// NewHabitsHandler creates a new habits handler. The location decides
// which calendar day a completion_date names.
func NewHabitsHandler(service habits.Service, loc *time.Location) *HabitsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &HabitsHandler{service: service, loc: loc}
}

// completionDate resolves the optional completion_date of a complete or
// uncomplete request. Dates are read in the configured timezone, not
// UTC, and may not lie in the future. Writes the error response itself
// and returns ok=false when the request is unusable.
func (h *HabitsHandler) completionDate(c *gin.Context) (time.Time, bool) {
	var req dto.CompleteHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CompletionDate == "" {
		return time.Now(), true
	}

	parsed, err := time.ParseInLocation("2006-01-02", req.CompletionDate, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completion_date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	if parsed.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completion_date cannot be in the future"})
		return time.Time{}, false
	}
	return parsed, true
}

// CreateHabit handles the creation of a new habit
func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.CreateHabitRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.CreateHabitRequest", validated)
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

	frequency := habits.Frequency(req.Frequency)
	if req.Frequency == "" {
		frequency = habits.FrequencyDaily
	}

	habit, err := h.service.CreateHabit(c.Request.Context(), habits.CreateHabitInput{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Frequency:    frequency,
		CustomDays:   req.CustomDays,
		ReminderTime: req.ReminderTime,
	})
	if err != nil {
		c.JSON(habitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.HabitToResponse(habit)})
}

// GetHabit returns a single habit with its derived statistics
func (h *HabitsHandler) GetHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	stats, err := h.service.GetHabit(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(habitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitStatsResponse{
		Habit:          dto.HabitToResponse(&stats.Habit),
		LongestStreak:  stats.LongestStreak,
		CompletedToday: stats.CompletedToday,
		TotalDays:      stats.TotalDays,
	}})
}

// ListHabits returns the user's habits with optional filters
func (h *HabitsHandler) ListHabits(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var filter dto.HabitListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domainFilter := habits.HabitFilter{
		UserID:          &userID,
		IncludeArchived: filter.IncludeArchived,
		Page:            filter.Page,
		PageSize:        filter.PageSize,
	}
	if filter.Title != "" {
		domainFilter.Title = &filter.Title
	}
	if filter.Category != "" {
		domainFilter.Category = &filter.Category
	}

	items, total, err := h.service.ListHabits(c.Request.Context(), domainFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitListResponse{
		Habits:     dto.HabitsToResponse(items),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}})
}

// UpdateHabit handles updating an existing habit
func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	var req dto.UpdateHabitRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.UpdateHabitRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.UpdateHabitRequest", validated)
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

	input := habits.UpdateHabitInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		CustomDays:   req.CustomDays,
		ReminderTime: req.ReminderTime,
	}
	if req.Frequency != nil {
		frequency := habits.Frequency(*req.Frequency)
		input.Frequency = &frequency
	}

	habit, err := h.service.UpdateHabit(c.Request.Context(), id, userID, input)
	if err != nil {
		c.JSON(habitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitToResponse(habit)})
}

// ArchiveHabit soft-removes a habit from active tracking
func (h *HabitsHandler) ArchiveHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.ArchiveHabit(c.Request.Context(), id, userID); err != nil {
		c.JSON(habitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// CompleteHabit marks the habit completed for a day. Defaults to today;
// an optional completion_date backdates the entry.
func (h *HabitsHandler) CompleteHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	at, ok := h.completionDate(c)
	if !ok {
		return
	}

	result, err := h.service.CompleteHabit(c.Request.Context(), id, userID, at)
	if err != nil {
		c.JSON(habitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.CompletionResponse{
		Habit:            dto.HabitToResponse(result.Habit),
		AlreadyCompleted: result.AlreadyCompleted,
		XPAwarded:        result.XPAwarded,
		Milestone:        result.Milestone,
		MilestoneMessage: result.MilestoneMessage,
	}})
}

// UncompleteHabit removes a day's completion and recomputes the streak
func (h *HabitsHandler) UncompleteHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	at, ok := h.completionDate(c)
	if !ok {
		return
	}

	habit, err := h.service.UncompleteHabit(c.Request.Context(), id, userID, at)
	if err != nil {
		c.JSON(habitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitToResponse(habit)})
}

// GetHeatmap returns per-day completion counts for calendar rendering
func (h *HabitsHandler) GetHeatmap(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	period := c.DefaultQuery("period", "year")
	switch period {
	case "month", "quarter", "year":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be month, quarter or year"})
		return
	}

	data, err := h.service.GetHeatmapData(c.Request.Context(), userID, period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.HeatmapResponse{Data: data, Period: period}
	for _, v := range data {
		if v > resp.MaxValue {
			resp.MaxValue = v
		}
		if resp.MinValue == 0 || v < resp.MinValue {
			resp.MinValue = v
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetTopStreaks returns the habits with the longest active streaks
func (h *HabitsHandler) GetTopStreaks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = parsed
	}

	items, err := h.service.GetTopStreaks(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.TopStreaksResponse{Habits: dto.HabitsToResponse(items)}})
}

func habitErrorStatus(err error) int {
	switch {
	case errors.Is(err, habits.ErrHabitNotFound):
		return http.StatusNotFound
	case errors.Is(err, habits.ErrInvalidInput), errors.Is(err, habits.ErrTitleRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
