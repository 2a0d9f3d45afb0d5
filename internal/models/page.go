package models

import (
	"time"

	"gorm.io/datatypes"
)

// Page represents a school web page. The whole section list is persisted as
// one JSON document per save; there is no per-section versioning.
type Page struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SchoolID uint64 `gorm:"not null;index:idx_pages_school_slug,unique"` // Owning school.
	Slug     string `gorm:"type:text;not null;index:idx_pages_school_slug,unique"`

	Title           string `gorm:"type:text;not null"`
	MetaDescription string `gorm:"type:text"`

	Published bool `gorm:"not null;default:false"` // Whether the public site serves the page.

	Sections datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Ordered array of {id,type,config}.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
