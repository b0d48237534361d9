package routes

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

type UserRoutes struct {
	handler     *handlers.UserHandler
	jwtSecret   string
	rateLimiter *auth.RedisRateLimiter
}

func NewUserRoutes(handler *handlers.UserHandler, jwtSecret string, rateLimiter *auth.RedisRateLimiter) *UserRoutes {
	return &UserRoutes{
		handler:     handler,
		jwtSecret:   jwtSecret,
		rateLimiter: rateLimiter,
	}
}

// RegisterRoutes registers account and auth routes. Everything touching
// credentials or email delivery sits behind a tight rate limit.
func (u *UserRoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()
	authLimit := middleware.RateLimitMiddleware(u.rateLimiter.WithLimit(10, time.Minute))

	public := router.Group("/api/auth")
	public.POST("/register", authLimit, validation.ValidateRequest(&dto.CreateUserRequest{}), u.handler.Register)
	public.POST("/login", authLimit, validation.ValidateRequest(&dto.LoginRequest{}), u.handler.Login)
	public.POST("/forgot-password", authLimit, validation.ValidateRequest(&dto.ForgotPasswordRequest{}), u.handler.ForgotPassword)
	public.POST("/reset-password", authLimit, validation.ValidateRequest(&dto.ResetPasswordRequest{}), u.handler.ResetPassword)
	public.POST("/verify-email", authLimit, validation.ValidateRequest(&dto.VerifyEmailRequest{}), u.handler.VerifyEmail)
	public.POST("/resend-verification", authLimit, validation.ValidateRequest(&dto.ResendVerificationRequest{}), u.handler.ResendVerification)

	users := router.Group("/api/users")
	users.Use(middleware.NewAuthMiddleware(u.jwtSecret))
	users.GET("/me", u.handler.GetProfile)
	users.PUT("/me", validation.ValidateRequest(&dto.UpdateUserRequest{}), u.handler.UpdateProfile)
	users.PUT("/me/password", validation.ValidateRequest(&dto.ChangePasswordRequest{}), u.handler.ChangePassword)
	users.GET("/me/sessions", u.handler.GetUserSessions)
	users.DELETE("/me/sessions/:session_id", u.handler.RevokeSession)
	users.POST("/logout", u.handler.Logout)
}
