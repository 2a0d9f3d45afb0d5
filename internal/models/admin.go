package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin levels. Level 1 holds every permission over every school; Level 2
// holds only the explicitly granted permission and school sets.
const (
	AdminLevelFull    = 1
	AdminLevelScoped  = 2
	AdminLevelUnknown = 0 // legacy rows created before levels existed
)

// Admin represents an administrator account stored in the database.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Email    string `gorm:"type:text;not null;uniqueIndex"` // Unique login email.
	Name     string `gorm:"type:text"`                      // Display name.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Active bool `gorm:"not null;default:true"` // Whether the admin can sign in.

	Level int `gorm:"not null;default:2"` // Admin tier, see AdminLevel constants.

	Permissions datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Granted permission keys in JSON.
	SchoolIDs   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Scoped school IDs in JSON.

	TOTPSecret string `gorm:"type:text"` // TOTP secret for MFA.

	LastLoginAt *time.Time // Last successful login.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
