package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/notification"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/mfa"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

const (
	verificationCodeTTL = 10 * time.Minute
	resetTokenTTL       = time.Hour

	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// Input types
type CreateUserInput struct {
	Email       string                 `json:"email"`
	Username    string                 `json:"username"`
	Password    string                 `json:"password"`
	FirstName   string                 `json:"first_name"`
	LastName    string                 `json:"last_name"`
	AvatarURL   string                 `json:"avatar_url,omitempty"`
	Bio         string                 `json:"bio,omitempty"`
	Timezone    string                 `json:"timezone,omitempty"`
	Locale      string                 `json:"locale,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

type UpdateUserInput struct {
	Email       *string                `json:"email,omitempty"`
	Username    *string                `json:"username,omitempty"`
	FirstName   *string                `json:"first_name,omitempty"`
	LastName    *string                `json:"last_name,omitempty"`
	AvatarURL   *string                `json:"avatar_url,omitempty"`
	Bio         *string                `json:"bio,omitempty"`
	Timezone    *string                `json:"timezone,omitempty"`
	Locale      *string                `json:"locale,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

// Common errors
var (
	ErrEmailExists         = errors.New("email already exists")
	ErrUsernameExists      = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountLocked       = errors.New("account is locked")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrInvalidVerification = errors.New("invalid or expired verification code")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrMailDelivery        = errors.New("mail delivery failed")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
)

// MFASetupResponse represents the response for MFA setup
type MFASetupResponse struct {
	Secret       string   `json:"secret"`
	QRCodeBase64 string   `json:"qr_code_base64"`
	OTPAuthURL   string   `json:"otp_auth_url"`
	BackupCodes  []string `json:"backup_codes,omitempty"`
}

// XPAward describes the outcome of granting experience points.
type XPAward struct {
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
	LeveledUp bool   `json:"leveled_up"`
	NewBadge  string `json:"new_badge,omitempty"`
}

// Service interface
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]User, int64, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	AuthenticateUser(ctx context.Context, email, password string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
	LockAccount(ctx context.Context, id uuid.UUID, duration time.Duration) error
	UnlockAccount(ctx context.Context, id uuid.UUID) error

	// Email verification and password recovery
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerificationCode(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	// Gamification
	AwardXP(ctx context.Context, userID uuid.UUID, points int) error
	GrantXP(ctx context.Context, userID uuid.UUID, points int) (*XPAward, error)

	// Used by the email delivery channel to turn a user id into an address.
	ResolveEmail(ctx context.Context, userID uuid.UUID) (string, error)

	// MFA methods
	SetupMFA(ctx context.Context, userID uuid.UUID) (*MFASetupResponse, error)
	VerifyAndEnableMFA(ctx context.Context, userID uuid.UUID, code string) error
	ValidateMFACode(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	DisableMFA(ctx context.Context, userID uuid.UUID, password string) error
	IsMFAEnabled(ctx context.Context, userID uuid.UUID) (bool, error)
}

type service struct {
	repo       Repository
	mfaService mfa.Service
	mailer     notification.Mailer
	notifySvc  notification.Service
	sessions   *auth.SessionStore
	baseURL    string
	logger     *zap.Logger
}

func NewService(repo Repository, mailer notification.Mailer, notifySvc notification.Service, sessions *auth.SessionStore, baseURL string, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		mfaService: mfa.NewService("FocusFlow"),
		mailer:     mailer,
		notifySvc:  notifySvc,
		sessions:   sessions,
		baseURL:    baseURL,
		logger:     logger,
	}
}

func validateCreateUserInput(input CreateUserInput) error {
	if input.Email == "" {
		return errors.New("email is required")
	}
	if input.Username == "" {
		return errors.New("username is required")
	}
	if len(input.Password) < 8 {
		return ErrWeakPassword
	}
	if input.FirstName == "" {
		return errors.New("first name is required")
	}
	if input.LastName == "" {
		return errors.New("last name is required")
	}
	return nil
}

// CreateUser registers a new account and sends the verification code.
// A failing mail server does not block registration; the code can be
// re-sent later.
func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if err := validateCreateUserInput(input); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email existence: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailExists
	}

	existingUser, err = s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("checking username existence: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("generating verification code: %w", err)
	}
	codeExpiry := time.Now().Add(verificationCodeTTL)

	timezone := input.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	user := &User{
		ID:                        uuid.New(),
		Email:                     input.Email,
		Username:                  input.Username,
		PasswordHash:              string(hashedPassword),
		FirstName:                 input.FirstName,
		LastName:                  input.LastName,
		AvatarURL:                 input.AvatarURL,
		Bio:                       input.Bio,
		Timezone:                  timezone,
		Locale:                    input.Locale,
		Status:                    UserStatusActive,
		IsActive:                  true,
		VerificationCode:          code,
		VerificationCodeExpiresAt: &codeExpiry,
		Preferences:               datatypes.JSONMap(input.Preferences),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationCode(user.Email, code); err != nil {
			s.logger.Warn("failed to send verification email",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *service) ListUsers(ctx context.Context, filter UserFilter) ([]User, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Email != nil && *input.Email != user.Email {
		existingUser, err := s.repo.FindByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existingUser != nil {
			return nil, ErrEmailExists
		}
		// A changed address needs to be verified again.
		user.Email = *input.Email
		user.IsVerified = false
	}

	if input.Username != nil && *input.Username != user.Username {
		existingUser, err := s.repo.FindByUsername(ctx, *input.Username)
		if err != nil {
			return nil, err
		}
		if existingUser != nil {
			return nil, ErrUsernameExists
		}
		user.Username = *input.Username
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Timezone != nil {
		user.Timezone = *input.Timezone
	}
	if input.Locale != nil {
		user.Locale = *input.Locale
	}
	if input.Preferences != nil {
		user.Preferences = datatypes.JSONMap(input.Preferences)
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	// Soft delete
	now := time.Now()
	user.DeletedAt = &now
	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if s.sessions != nil {
		s.sessions.InvalidateUserSessions(user.ID)
	}
	return nil
}

func (s *service) AuthenticateUser(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(time.Now()) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailedLogin(ctx, user)
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.AccountLockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.AccountLockedUntil = nil
		if err := s.repo.Update(ctx, user); err != nil {
			s.logger.Warn("failed to reset login attempt counter",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	return user, nil
}

func (s *service) recordFailedLogin(ctx context.Context, user *User) {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= maxFailedLogins {
		lockUntil := time.Now().Add(lockoutDuration)
		user.AccountLockedUntil = &lockUntil
		user.FailedLoginAttempts = 0
	}
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record login attempt",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
}

func (s *service) UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = time.Now()
	return s.repo.Update(ctx, user)
}

func (s *service) LockAccount(ctx context.Context, id uuid.UUID, duration time.Duration) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	lockUntil := time.Now().Add(duration)
	user.AccountLockedUntil = &lockUntil
	user.UpdatedAt = time.Now()
	return s.repo.Update(ctx, user)
}

func (s *service) UnlockAccount(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.AccountLockedUntil = nil
	user.FailedLoginAttempts = 0
	user.UpdatedAt = time.Now()
	return s.repo.Update(ctx, user)
}

// VerifyEmail confirms a pending verification code. The error for an
// unknown email is the same as for a wrong code.
func (s *service) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidVerification
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return ErrInvalidVerification
	}
	if user.VerificationCodeExpiresAt == nil || user.VerificationCodeExpiresAt.Before(time.Now()) {
		return ErrInvalidVerification
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("marking user verified: %w", err)
	}

	if s.notifySvc != nil {
		_ = s.notifySvc.CreateForUser(ctx, user.ID, notification.AccountSystem,
			"Welcome to FocusFlow",
			"Your email has been verified. Time to build your first habit!",
			nil, "users", user.ID)
	}
	return nil
}

// ResendVerificationCode issues a fresh code. Unknown addresses are
// silently ignored so the endpoint cannot be used to probe for accounts.
func (s *service) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("generating verification code: %w", err)
	}
	expiry := time.Now().Add(verificationCodeTTL)
	if err := s.repo.SetVerificationCode(ctx, user.ID, code, expiry); err != nil {
		return fmt.Errorf("storing verification code: %w", err)
	}

	if s.mailer == nil {
		return ErrMailDelivery
	}
	if err := s.mailer.SendVerificationCode(user.Email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// ForgotPassword starts the password reset flow. It returns nil whether or
// not the address belongs to an account; only a failure to deliver the
// email for a real account surfaces as an error, and in that case the
// stored token is rolled back so no orphaned reset token survives.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("looking up account: %w", err)
	}
	if user == nil {
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}

	token, tokenHash, err := auth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generating reset token: %w", err)
	}
	expiry := time.Now().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, tokenHash, expiry); err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	var mailErr error
	if s.mailer == nil {
		mailErr = errors.New("no mailer configured")
	} else {
		mailErr = s.mailer.SendPasswordReset(user.Email, link)
	}
	if mailErr != nil {
		if rbErr := s.repo.ClearResetToken(ctx, user.ID); rbErr != nil {
			s.logger.Error("failed to roll back reset token",
				zap.String("user_id", user.ID.String()),
				zap.Error(rbErr))
		}
		return fmt.Errorf("%w: %v", ErrMailDelivery, mailErr)
	}

	return nil
}

// ResetPassword consumes a reset token. All sessions for the account are
// invalidated once the new password is in place.
func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.repo.FindByResetTokenHash(ctx, auth.HashToken(token))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if user.ResetPasswordExpiresAt == nil || user.ResetPasswordExpiresAt.Before(time.Now()) {
		_ = s.repo.ClearResetToken(ctx, user.ID)
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.FailedLoginAttempts = 0
	user.AccountLockedUntil = nil
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	if err := s.repo.ClearResetToken(ctx, user.ID); err != nil {
		s.logger.Error("failed to clear consumed reset token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	if s.sessions != nil {
		s.sessions.InvalidateUserSessions(user.ID)
	}

	if s.notifySvc != nil {
		_ = s.notifySvc.CreateForUser(ctx, user.ID, notification.AccountSystem,
			"Password changed",
			"Your password was just changed. If this wasn't you, contact support immediately.",
			nil, "users", user.ID)
	}
	return nil
}

// AwardXP satisfies the rewards hook used by the habit engine.
func (s *service) AwardXP(ctx context.Context, userID uuid.UUID, points int) error {
	_, err := s.GrantXP(ctx, userID, points)
	return err
}

// GrantXP adds points and handles level ups and badge unlocks.
func (s *service) GrantXP(ctx context.Context, userID uuid.UUID, points int) (*XPAward, error) {
	if points <= 0 {
		return nil, ErrInvalidInput
	}

	user, err := s.repo.AddXP(ctx, userID, points)
	if err != nil {
		return nil, err
	}

	prevLevel := 1 + (user.XP-points)/XPPerLevel
	award := &XPAward{
		XP:        user.XP,
		Level:     user.Level(),
		LeveledUp: user.Level() > prevLevel,
	}

	if award.LeveledUp {
		if s.notifySvc != nil {
			_ = s.notifySvc.CreateForUser(ctx, userID, notification.LevelUp,
				fmt.Sprintf("Level %d reached!", award.Level),
				fmt.Sprintf("You've earned %d XP and reached level %d. Keep the momentum going!", user.XP, award.Level),
				map[string]string{"level": fmt.Sprintf("%d", award.Level)},
				"users", userID)
		}

		if badge := badgeForLevel(award.Level); badge != "" && !user.HasBadge(badge) {
			user.Badges = append(user.Badges, badge)
			if err := s.repo.UpdateBadges(ctx, userID, user.Badges); err != nil {
				s.logger.Warn("failed to persist badge",
					zap.String("user_id", userID.String()),
					zap.String("badge", badge),
					zap.Error(err))
			} else {
				award.NewBadge = badge
				if s.notifySvc != nil {
					_ = s.notifySvc.CreateForUser(ctx, userID, notification.BadgeAwarded,
						"New badge unlocked",
						fmt.Sprintf("You've earned the %q badge.", badge),
						map[string]string{"badge": badge},
						"users", userID)
				}
			}
		}
	}

	return award, nil
}

func (s *service) ResolveEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return user.Email, nil
}

// SetupMFA generates a new MFA secret for a user
func (s *service) SetupMFA(ctx context.Context, userID uuid.UUID) (*MFASetupResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	setupResult, err := s.mfaService.Setup(user.Email)
	if err != nil {
		return nil, fmt.Errorf("error setting up MFA: %w", err)
	}

	backupCodes, err := s.mfaService.GenerateBackupCodes()
	if err != nil {
		return nil, fmt.Errorf("error generating backup codes: %w", err)
	}

	// Store secret temporarily (not enabled yet)
	user.MFASecret = setupResult.Secret

	backupCodesJSON, err := json.Marshal(backupCodes)
	if err != nil {
		return nil, fmt.Errorf("error serializing backup codes: %w", err)
	}
	user.MFABackupCodesHash = string(backupCodesJSON)

	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user with MFA secret: %w", err)
	}

	qrCodeBase64 := ""
	if setupResult.QRCode != nil {
		qrCodeBase64 = string(setupResult.QRCode)
	}

	return &MFASetupResponse{
		Secret:       setupResult.Secret,
		QRCodeBase64: qrCodeBase64,
		OTPAuthURL:   setupResult.URI,
		BackupCodes:  backupCodes,
	}, nil
}

// VerifyAndEnableMFA verifies a TOTP code and enables MFA for a user
func (s *service) VerifyAndEnableMFA(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	valid, err := s.mfaService.Validate(user.MFASecret, code)
	if err != nil {
		return fmt.Errorf("error validating TOTP code: %w", err)
	}
	if !valid {
		return mfa.ErrInvalidCode
	}

	user.MFAEnabled = true
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("error enabling MFA: %w", err)
	}
	return nil
}

// ValidateMFACode validates a TOTP code or backup code for a user
func (s *service) ValidateMFACode(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	if !user.MFAEnabled {
		return false, errors.New("MFA not enabled for this user")
	}

	valid, err := s.mfaService.Validate(user.MFASecret, code)
	if valid && err == nil {
		return true, nil
	}

	// Fall back to single-use backup codes.
	var backupCodes []string
	if user.MFABackupCodesHash != "" {
		if err := json.Unmarshal([]byte(user.MFABackupCodesHash), &backupCodes); err == nil {
			for i, backupCode := range backupCodes {
				if backupCode == code {
					backupCodes = append(backupCodes[:i], backupCodes[i+1:]...)
					updatedCodesJSON, err := json.Marshal(backupCodes)
					if err == nil {
						user.MFABackupCodesHash = string(updatedCodesJSON)
						_ = s.repo.Update(ctx, user)
					}
					return true, nil
				}
			}
		}
	}

	return false, mfa.ErrInvalidCode
}

// DisableMFA disables MFA for a user after re-checking their password
func (s *service) DisableMFA(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	user.MFAEnabled = false
	user.MFASecret = ""
	user.MFABackupCodesHash = ""
	user.UpdatedAt = time.Now()
	return s.repo.Update(ctx, user)
}

func (s *service) IsMFAEnabled(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	return user.MFAEnabled, nil
}
