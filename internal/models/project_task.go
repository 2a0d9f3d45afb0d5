package models

import "time"

// Project task states.
const (
	ProjectTaskStatusOpen       = "open"
	ProjectTaskStatusInProgress = "in_progress"
	ProjectTaskStatusDone       = "done"
)

// ProjectTask represents a lightweight task-tracker entry used by platform
// admins for onboarding and content work.
type ProjectTask struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SchoolID uint64 `gorm:"index"` // Related school, zero for platform tasks.

	Title       string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`

	Status   string `gorm:"type:text;not null;default:'open'"` // open, in_progress or done.
	Priority int    `gorm:"not null;default:0"`                // Higher sorts first.

	AssigneeID uint64     `gorm:"index"` // Admin the task is assigned to, zero when unassigned.
	DueAt      *time.Time ``             // Optional due date.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
