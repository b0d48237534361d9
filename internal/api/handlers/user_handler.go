package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/user"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// UserHandler handles HTTP requests for user accounts
type UserHandler struct {
	userService    user.Service
	jwtSecret      string
	jwtExpiryHours int
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService user.Service, jwtSecret string, jwtExpiryHours int) *UserHandler {
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &UserHandler{
		userService:    userService,
		jwtSecret:      jwtSecret,
		jwtExpiryHours: jwtExpiryHours,
	}
}

// Register creates a new user account and sends the verification email
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.CreateUserRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.CreateUserRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.userService.CreateUser(c.Request.Context(), user.CreateUserInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		Timezone:    req.Timezone,
		Locale:      req.Locale,
		Preferences: req.Preferences,
	})
	if err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": dto.UserToResponse(created)})
}

// Login authenticates a user. Accounts with MFA enabled get a short-lived
// temporary token and must complete the code exchange before a session is
// issued.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.LoginRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.LoginRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authenticated, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if authenticated.MFAEnabled {
		tempToken, err := auth.GenerateTemporaryToken(authenticated.ID, authenticated.Email, h.jwtSecret, 1)
		if err != nil {
			log.WithError(err).Error("Failed to generate temporary MFA token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start MFA validation"})
			return
		}
		c.JSON(http.StatusOK, dto.MFARequiredResponse{
			MFARequired: true,
			UserID:      authenticated.ID.String(),
			TempToken:   tempToken,
			Message:     "Please enter your MFA code to complete login",
			TTL:         3600,
		})
		return
	}

	h.issueSession(c, authenticated)
}

func (h *UserHandler) issueSession(c *gin.Context, u *user.User) {
	token, err := auth.GenerateToken(u.ID, u.Email, h.jwtSecret, h.jwtExpiryHours)
	if err != nil {
		log.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	expiry := time.Duration(h.jwtExpiryHours) * time.Hour
	session := auth.GetSessionStore().CreateSession(u.ID, c.Request.UserAgent(), c.ClientIP(), token, expiry)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.UserToResponse(u),
		Session: dto.SessionResponse{
			ID:           session.ID,
			DeviceInfo:   session.DeviceInfo,
			IPAddress:    session.IPAddress,
			LastActivity: session.LastActivity,
			ExpiresAt:    session.ExpiresAt,
		},
	})
}

// Logout invalidates the current token and its session
func (h *UserHandler) Logout(c *gin.Context) {
	tokenVal, exists := c.Get("token")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	token := tokenVal.(string)

	auth.GetTokenBlacklist().AddToBlacklist(token, time.Now().Add(time.Duration(h.jwtExpiryHours)*time.Hour))
	auth.GetSessionStore().InvalidateSession(token)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	found, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.UserToResponse(found)})
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateUserRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.UpdateUserRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.UpdateUserRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), userID, user.UpdateUserInput{
		Email:       req.Email,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		Timezone:    req.Timezone,
		Locale:      req.Locale,
		Preferences: req.Preferences,
	})
	if err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.UserToResponse(updated)})
}

// ChangePassword updates the password after checking the current one
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ChangePasswordRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.ChangePasswordRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.ChangePasswordRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// GetUserSessions lists the user's active sessions
func (h *UserHandler) GetUserSessions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	sessions := auth.GetSessionStore().GetUserSessions(userID)
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.SessionResponse{
			ID:           s.ID,
			DeviceInfo:   s.DeviceInfo,
			IPAddress:    s.IPAddress,
			LastActivity: s.LastActivity,
			ExpiresAt:    s.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// RevokeSession invalidates one of the user's sessions by id
func (h *UserHandler) RevokeSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	sessionID := c.Param("session_id")
	for _, s := range auth.GetSessionStore().GetUserSessions(userID) {
		if s.ID == sessionID {
			auth.GetTokenBlacklist().AddToBlacklist(s.Token, s.ExpiresAt)
			auth.GetSessionStore().InvalidateSession(s.Token)
			c.JSON(http.StatusOK, gin.H{"message": "session revoked"})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
}

// ForgotPassword starts password recovery. The response is identical
// whether or not the address belongs to an account, so the endpoint
// cannot be used to probe for registered emails.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.ForgotPasswordRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.ForgotPasswordRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, user.ErrMailDelivery) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not send reset email, try again later"})
			return
		}
		log.WithError(err).Error("Forgot password failed")
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the address is registered, a reset link has been sent"})
}

// ResetPassword completes password recovery with an emailed token
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.ResetPasswordRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.ResetPasswordRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password has been reset"})
}

// VerifyEmail confirms the emailed verification code
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.VerifyEmailRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.VerifyEmailRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// ResendVerification sends a fresh verification code. Like ForgotPassword
// the response never reveals whether the address exists.
func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.ResendVerificationRequest)
		if !ok {
			log.Errorf("Invalid model type: %T, expected *dto.ResendVerificationRequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ResendVerificationCode(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, user.ErrAlreadyVerified) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Resend verification failed")
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the address is registered, a new code has been sent"})
}

func userErrorStatus(err error) int {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrEmailExists), errors.Is(err, user.ErrUsernameExists), errors.Is(err, user.ErrAlreadyVerified):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrAccountLocked):
		return http.StatusLocked
	case errors.Is(err, user.ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, user.ErrInvalidResetToken), errors.Is(err, user.ErrInvalidVerification),
		errors.Is(err, user.ErrWeakPassword), errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrMailDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
