package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdminInvitation represents a pending Level-2 admin invitation. The invite
// token and temp password are returned to the creator exactly once; only
// their derived values are stored.
type AdminInvitation struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Token string `gorm:"type:text;not null;uniqueIndex"` // Opaque invite token.

	Email     string `gorm:"type:text;not null"`       // Invitee email as entered.
	EmailHash string `gorm:"type:text;not null;index"` // SHA-256 of the lowercase email.
	Name      string `gorm:"type:text"`                // Invitee display name.

	TempPassword string `gorm:"type:text;not null"` // Hash of the one-time temp password.

	Permissions datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Permission keys granted on acceptance.
	SchoolIDs   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // School scope granted on acceptance.

	Notes string `gorm:"type:text"` // Free-form notes from the creator.

	CreatedBy uint64     `gorm:"not null;index"`          // Admin ID of the creator.
	ExpiresAt time.Time  `gorm:"not null"`                // Validity deadline.
	Used      bool       `gorm:"not null;default:false"`  // Terminal once true.
	UsedAt    *time.Time ``                               // Consumption timestamp.
	CreatedAt time.Time  `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
