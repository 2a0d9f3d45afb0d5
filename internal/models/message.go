package models

import "time"

// Message delivery states.
const (
	MessageStatusPending = "pending"
	MessageStatusSent    = "sent"
	MessageStatusFailed  = "failed"
)

// Message origins.
const (
	MessageKindManual    = "manual"
	MessageKindAutomated = "automated"
	MessageKindContact   = "contact"
)

// Message represents an outbound or inbound message record.
type Message struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SchoolID uint64 `gorm:"index"` // Owning school, zero for platform-level messages.

	Recipient string `gorm:"type:text;not null"` // Destination email address.
	Subject   string `gorm:"type:text;not null"`
	Body      string `gorm:"type:text;not null"`

	Kind   string `gorm:"type:text;not null;default:'manual'"`  // manual, automated or contact.
	Status string `gorm:"type:text;not null;default:'pending'"` // pending, sent or failed.

	TemplateKey string `gorm:"type:text"` // Template the body was rendered from, if any.
	LastError   string `gorm:"type:text"` // Failure detail for failed messages.

	SentAt    *time.Time ``                               // Delivery timestamp.
	CreatedAt time.Time  `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
