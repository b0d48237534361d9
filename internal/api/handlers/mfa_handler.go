package handlers

import (
	"errors"
	"net/http"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/dto"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/user"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/mfa"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MFAHandler handles multi-factor authentication endpoints
type MFAHandler struct {
	userService user.Service
	userHandler *UserHandler
	jwtSecret   string
	logger      *logrus.Logger
}

// NewMFAHandler creates a new MFA handler
func NewMFAHandler(userService user.Service, userHandler *UserHandler, jwtSecret string, logger *logrus.Logger) *MFAHandler {
	return &MFAHandler{
		userService: userService,
		userHandler: userHandler,
		jwtSecret:   jwtSecret,
		logger:      logger,
	}
}

// SetupMFA generates a TOTP secret, QR code and backup codes for the
// authenticated user. MFA stays disabled until the first code is verified.
func (h *MFAHandler) SetupMFA(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	setup, err := h.userService.SetupMFA(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("MFA setup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set up MFA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.MFASetupResponse{
		Secret:       setup.Secret,
		QRCodeBase64: setup.QRCodeBase64,
		OTPAuthURL:   setup.OTPAuthURL,
		BackupCodes:  setup.BackupCodes,
	}})
}

// VerifyMFA confirms the first TOTP code and enables MFA on the account
func (h *MFAHandler) VerifyMFA(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.VerifyMFARequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.VerifyMFARequest)
		if !ok {
			h.logger.Errorf("Invalid model type: %T, expected *dto.VerifyMFARequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.VerifyAndEnableMFA(c.Request.Context(), userID, req.Code); err != nil {
		if errors.Is(err, mfa.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification code"})
			return
		}
		h.logger.WithError(err).Error("MFA verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify MFA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "MFA enabled"})
}

// ValidateMFA completes a login that required MFA. The temporary token
// from the first login step plus a valid code yields the full session.
func (h *MFAHandler) ValidateMFA(c *gin.Context) {
	var req dto.ValidateMFARequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.ValidateMFARequest)
		if !ok {
			h.logger.Errorf("Invalid model type: %T, expected *dto.ValidateMFARequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := auth.ValidateTemporaryToken(req.TempToken, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired MFA token"})
		return
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid MFA token"})
		return
	}

	valid, err := h.userService.ValidateMFACode(c.Request.Context(), userID, req.Code)
	if err != nil || !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
		return
	}

	authenticated, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.userHandler.issueSession(c, authenticated)
}

// DisableMFA turns off MFA after re-checking the account password
func (h *MFAHandler) DisableMFA(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.DisableMFARequest
	if validated, exists := c.Get("validated_model"); exists {
		model, ok := validated.(*dto.DisableMFARequest)
		if !ok {
			h.logger.Errorf("Invalid model type: %T, expected *dto.DisableMFARequest", validated)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		req = *model
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.DisableMFA(c.Request.Context(), userID, req.Password); err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "MFA disabled"})
}

// GetMFAStatus reports whether MFA is enabled for the user
func (h *MFAHandler) GetMFAStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	enabled, err := h.userService.IsMFAEnabled(c.Request.Context(), userID)
	if err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.MFAStatusResponse{Enabled: enabled}})
}
