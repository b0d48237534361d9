package dto

import (
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/user"
	"github.com/google/uuid"
)

// CreateUserRequest represents the registration request
type CreateUserRequest struct {
	Email       string                 `json:"email" binding:"required,email" example:"user@example.com"`
	Username    string                 `json:"username" binding:"required,min=3,max=50" example:"johndoe"`
	Password    string                 `json:"password" binding:"required,min=8" example:"securepassword123"`
	FirstName   string                 `json:"first_name" binding:"required" example:"John"`
	LastName    string                 `json:"last_name" binding:"required" example:"Doe"`
	AvatarURL   string                 `json:"avatar_url,omitempty"`
	Bio         string                 `json:"bio,omitempty"`
	Timezone    string                 `json:"timezone,omitempty" example:"Europe/Berlin"`
	Locale      string                 `json:"locale,omitempty" example:"en-US"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

// UpdateUserRequest represents the profile update request
type UpdateUserRequest struct {
	Email       *string                `json:"email,omitempty" binding:"omitempty,email"`
	Username    *string                `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	FirstName   *string                `json:"first_name,omitempty"`
	LastName    *string                `json:"last_name,omitempty"`
	AvatarURL   *string                `json:"avatar_url,omitempty"`
	Bio         *string                `json:"bio,omitempty"`
	Timezone    *string                `json:"timezone,omitempty"`
	Locale      *string                `json:"locale,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// ChangePasswordRequest represents the password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ForgotPasswordRequest starts the password recovery flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"user@example.com"`
}

// ResetPasswordRequest completes the password recovery flow
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// VerifyEmailRequest confirms an emailed verification code
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required" example:"482913"`
}

// ResendVerificationRequest asks for a fresh verification code
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID         uuid.UUID              `json:"id"`
	Email      string                 `json:"email"`
	Username   string                 `json:"username"`
	FirstName  string                 `json:"first_name"`
	LastName   string                 `json:"last_name"`
	AvatarURL  string                 `json:"avatar_url,omitempty"`
	Bio        string                 `json:"bio,omitempty"`
	Timezone   string                 `json:"timezone"`
	Locale     string                 `json:"locale"`
	IsActive   bool                   `json:"is_active"`
	IsVerified bool                   `json:"is_verified"`
	MFAEnabled bool                   `json:"mfa_enabled"`
	XP         int                    `json:"xp"`
	Level      int                    `json:"level"`
	Badges     []string               `json:"badges,omitempty"`
	Prefs      map[string]interface{} `json:"preferences,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      UserResponse    `json:"user"`
	Session   SessionResponse `json:"session"`
}

// UserToResponse converts a domain user to its API representation
func UserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		AvatarURL:  u.AvatarURL,
		Bio:        u.Bio,
		Timezone:   u.Timezone,
		Locale:     u.Locale,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		MFAEnabled: u.MFAEnabled,
		XP:         u.XP,
		Level:      u.Level(),
		Badges:     []string(u.Badges),
		Prefs:      map[string]interface{}(u.Preferences),
		CreatedAt:  u.CreatedAt,
	}
}
