package routes

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

type MFARoutes struct {
	handler     *handlers.MFAHandler
	jwtSecret   string
	rateLimiter *auth.RedisRateLimiter
}

func NewMFARoutes(handler *handlers.MFAHandler, jwtSecret string, rateLimiter *auth.RedisRateLimiter) *MFARoutes {
	return &MFARoutes{
		handler:     handler,
		jwtSecret:   jwtSecret,
		rateLimiter: rateLimiter,
	}
}

// RegisterRoutes registers MFA management and validation routes
func (m *MFARoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()

	// Management endpoints require an authenticated session
	mfa := router.Group("/api/users/mfa")
	mfa.Use(middleware.NewAuthMiddleware(m.jwtSecret))
	mfa.POST("/setup", m.handler.SetupMFA)
	mfa.POST("/verify", validation.ValidateRequest(&dto.VerifyMFARequest{}), m.handler.VerifyMFA)
	mfa.POST("/disable", validation.ValidateRequest(&dto.DisableMFARequest{}), m.handler.DisableMFA)
	mfa.GET("/status", m.handler.GetMFAStatus)

	// Validation happens mid-login, before a session exists
	validate := router.Group("/api/auth/mfa")
	validate.POST("/validate",
		middleware.RateLimitMiddleware(m.rateLimiter.WithLimit(10, time.Minute)),
		validation.ValidateRequest(&dto.ValidateMFARequest{}),
		m.handler.ValidateMFA)
}
