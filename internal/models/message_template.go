package models

import "time"

// MessageTemplate represents a reusable message body with Go text/template
// placeholders.
type MessageTemplate struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Key     string `gorm:"type:text;not null;uniqueIndex"` // Stable lookup key.
	Subject string `gorm:"type:text;not null"`
	Body    string `gorm:"type:text;not null"`

	Active bool `gorm:"not null;default:true"` // Inactive templates are not rendered.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
