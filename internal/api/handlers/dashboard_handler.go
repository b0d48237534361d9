package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/events"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/focus"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/goals"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/habits"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/task"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/user"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardHandler composes the per-domain metrics into the home screen
// payload. Results are cached per user and invalidated through dashboard
// events published by the domain services.
type DashboardHandler struct {
	habitsService habits.Service
	taskService   task.Service
	goalsService  goals.Service
	focusService  focus.Service
	userService   user.Service
	redisClient   *cache.RedisClient
	logger        *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	habitsService habits.Service,
	taskService task.Service,
	goalsService goals.Service,
	focusService focus.Service,
	userService user.Service,
	redisClient *cache.RedisClient,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		habitsService: habitsService,
		taskService:   taskService,
		goalsService:  goalsService,
		focusService:  focusService,
		userService:   userService,
		redisClient:   redisClient,
		logger:        logger,
	}
}

// GetMetrics returns the aggregated dashboard for the authenticated user
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("dashboard:metrics:%v", userID)

	if h.redisClient != nil {
		if cached, err := h.redisClient.Get(ctx, cacheKey); err == nil && cached != "" {
			var resp dto.DashboardMetricsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, gin.H{"data": resp})
				return
			}
		}
	}

	resp, err := h.buildMetrics(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to build dashboard metrics",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	if h.redisClient != nil {
		if raw, err := json.Marshal(resp); err == nil {
			ttl := h.redisClient.TTLFor("dashboard")
			if err := h.redisClient.Set(ctx, cacheKey, string(raw), ttl); err != nil {
				h.logger.Warn("Failed to cache dashboard metrics", zap.Error(err))
			}
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RefreshMetrics rebuilds the dashboard, replaces the cached copy and
// notifies listeners
func (h *DashboardHandler) RefreshMetrics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx := c.Request.Context()

	resp, err := h.buildMetrics(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to refresh dashboard metrics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh dashboard"})
		return
	}

	if h.redisClient != nil {
		cacheKey := fmt.Sprintf("dashboard:metrics:%v", userID)
		if raw, err := json.Marshal(resp); err == nil {
			h.redisClient.Set(ctx, cacheKey, string(raw), h.redisClient.TTLFor("dashboard"))
		}
		event := &events.DashboardEvent{
			EventType: events.DashboardEventMetricsUpdate,
			UserID:    userID,
			Timestamp: time.Now().UTC(),
		}
		if err := h.redisClient.PublishDashboardEvent(ctx, event); err != nil {
			h.logger.Warn("Failed to publish dashboard event", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *DashboardHandler) buildMetrics(ctx context.Context, userID uuid.UUID) (*dto.DashboardMetricsResponse, error) {
	habitMetrics, err := h.habitsService.GetDashboardMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("habit metrics: %w", err)
	}

	taskMetrics, err := h.taskService.GetDashboardMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("task metrics: %w", err)
	}

	goalMetrics, err := h.goalsService.GetDashboardMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("goal metrics: %w", err)
	}

	focusMetrics, err := h.focusService.GetDashboardMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("focus metrics: %w", err)
	}

	owner, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user metrics: %w", err)
	}

	return &dto.DashboardMetricsResponse{
		User: dto.DashboardUserMetrics{
			XP:     owner.XP,
			Level:  owner.Level(),
			Badges: []string(owner.Badges),
		},
		Habits:    habitMetrics,
		Tasks:     *taskMetrics,
		Goals:     *goalMetrics,
		Focus:     *focusMetrics,
		Timestamp: time.Now().UTC(),
	}, nil
}

// StartDashboardEventListener clears cached dashboards when a domain
// service reports a change. Runs until the context is cancelled.
func (h *DashboardHandler) StartDashboardEventListener(ctx context.Context) {
	if h.redisClient == nil {
		return
	}

	go func() {
		err := h.redisClient.SubscribeToDashboardEvents(ctx, func(event *events.DashboardEvent) error {
			if err := h.redisClient.InvalidateDashboardCache(ctx, event.UserID); err != nil {
				h.logger.Warn("Failed to invalidate dashboard cache",
					zap.String("user_id", event.UserID.String()),
					zap.Error(err))
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			h.logger.Error("Dashboard event listener stopped", zap.Error(err))
		}
	}()
}
