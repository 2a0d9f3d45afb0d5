package models

import "time"

// School request states.
const (
	SchoolRequestStatusNew      = "new"
	SchoolRequestStatusApproved = "approved"
	SchoolRequestStatusRejected = "rejected"
)

// SchoolRequest represents a signup request submitted through the public
// marketing site.
type SchoolRequest struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SchoolName  string `gorm:"type:text;not null"`
	ContactName string `gorm:"type:text;not null"`
	Email       string `gorm:"type:text;not null"`
	Phone       string `gorm:"type:text"`
	Notes       string `gorm:"type:text"`

	Status string `gorm:"type:text;not null;default:'new'"` // new, approved or rejected.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
