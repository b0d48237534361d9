package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBlocked  UserStatus = "blocked"
)

// XPPerLevel is the amount of experience points required to advance one level.
const XPPerLevel = 100

// User represents a registered account with its gamification state
type User struct {
	ID                 uuid.UUID              `json:"id" gorm:"type:uuid;primary_key"`
	Email              string                 `json:"email" gorm:"uniqueIndex:idx_user_email,where:deleted_at is null;not null"`
	Username           string                 `json:"username" gorm:"uniqueIndex:idx_user_username,where:deleted_at is null;not null"`
	FirstName          string                 `json:"first_name" gorm:"not null"`
	LastName           string                 `json:"last_name" gorm:"not null"`
	AvatarURL          string                 `json:"avatar_url"`
	Bio                string                 `json:"bio"`
	Timezone           string                 `json:"timezone" gorm:"not null;default:'UTC'"`
	Locale             string                 `json:"locale" gorm:"not null;default:'en-US'"`
	PasswordHash       string                 `json:"-" gorm:"not null"`
	Status             UserStatus             `json:"status" gorm:"not null;default:'active'"`
	IsActive           bool                   `json:"is_active" gorm:"default:true;index:idx_user_active"`
	IsVerified         bool                   `json:"is_verified" gorm:"default:false"`
	XP                 int                    `json:"xp" gorm:"default:0"`
	Badges             pq.StringArray         `json:"badges" gorm:"type:text[]"`
	CreatedAt          time.Time              `json:"created_at" gorm:"index:idx_user_created"`
	UpdatedAt          time.Time              `json:"updated_at"`
	DeletedAt          *time.Time             `json:"deleted_at,omitempty" gorm:"index"`
	MFAEnabled         bool                   `json:"mfa_enabled" gorm:"default:false"`
	MFASecret          string                 `json:"-"`
	MFABackupCodes     []string               `json:"-" gorm:"-"`
	MFABackupCodesHash string                 `json:"-" gorm:"column:mfa_backup_codes"`
	// Verification codes and reset tokens are stored hashed; the plaintext
	// only ever travels in the email.
	VerificationCode          string                 `json:"-"`
	VerificationCodeExpiresAt *time.Time             `json:"-"`
	ResetPasswordTokenHash    string                 `json:"-" gorm:"index:idx_user_reset_token"`
	ResetPasswordExpiresAt    *time.Time             `json:"-"`
	FailedLoginAttempts       int                    `json:"-" gorm:"default:0"`
	AccountLockedUntil        *time.Time             `json:"-" gorm:"index:idx_user_locked"`
	Preferences               datatypes.JSONMap      `json:"preferences,omitempty"`
}

// Level derives the user's level from accumulated XP. Levels start at 1.
func (u *User) Level() int {
	return 1 + u.XP/XPPerLevel
}

// HasBadge reports whether the user already holds the named badge.
func (u *User) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// badgeForLevel maps a level to the badge unlocked at that level, if any.
func badgeForLevel(level int) string {
	switch {
	case level >= 50:
		return "legend"
	case level >= 25:
		return "unstoppable"
	case level >= 10:
		return "dedicated"
	case level >= 5:
		return "consistent"
	default:
		return ""
	}
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new user record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a user record
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
