package models

import "time"

// Subscription states.
const (
	SubscriptionStatusTrial     = "trial"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription represents a school's plan subscription.
type Subscription struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SchoolID uint64 `gorm:"not null;index"` // Subscribing school.

	Plan   string `gorm:"type:text;not null"`                 // Plan identifier, e.g. basic, standard, premium.
	Status string `gorm:"type:text;not null;default:'trial'"` // trial, active, expired or cancelled.

	StartedAt time.Time `gorm:"not null"` // Current period start.
	ExpiresAt time.Time `gorm:"not null"` // Current period end.

	ReminderSentAt *time.Time // Last renewal reminder for the current period.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
