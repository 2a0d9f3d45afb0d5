package models

import (
	"encoding/json"
	"time"
)

// Setting stores a platform configuration entry in the database. Values are
// read through the internal/settings snapshot, not directly.
type Setting struct {
	Key       string          `gorm:"type:varchar(255);primaryKey"`                      // Configuration key.
	Value     json.RawMessage `gorm:"type:jsonb"`                                        // JSON-encoded value.
	UpdatedBy uint64          ``                                                         // Admin ID of the last writer, zero when seeded.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime;default:CURRENT_TIMESTAMP"` // Last update timestamp.
}
