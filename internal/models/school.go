package models

import (
	"time"

	"gorm.io/datatypes"
)

// School represents a tenant school site.
type School struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Slug string `gorm:"type:text;not null;uniqueIndex"` // URL slug of the public site.
	Name string `gorm:"type:text;not null"`             // Display name.

	Active bool `gorm:"not null;default:true"` // Whether the public site is served.

	ThemeSettings datatypes.JSON `gorm:"type:jsonb"` // Theme document, see internal/theme.
	ThemeVersion  int            `gorm:"not null;default:0"`
	ContactInfo   datatypes.JSON `gorm:"type:jsonb"` // Free-form contact object (email, phone, address).

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
