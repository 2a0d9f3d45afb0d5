package content

import (
	"encoding/json"
	"fmt"
)

// Page is the serializable document form of a school web page.
type Page struct {
	SchoolID        uint64    `json:"school_id"`
	Slug            string    `json:"page_slug"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Sections        []Section `json:"sections"`
}

// Serialize encodes a page as a JSON document. Section order is preserved.
func Serialize(page Page) ([]byte, error) {
	if page.Sections == nil {
		page.Sections = []Section{}
	}
	return json.Marshal(page)
}

// Deserialize decodes a page document. Missing optional fields come back as
// zero values; unknown fields are ignored.
func Deserialize(raw []byte) (Page, error) {
	var page Page
	if errUnmarshal := json.Unmarshal(raw, &page); errUnmarshal != nil {
		return Page{}, fmt.Errorf("decode page document: %w", errUnmarshal)
	}
	if page.Sections == nil {
		page.Sections = []Section{}
	}
	return page, nil
}

// MarshalSections encodes a section list as the pages.sections column value.
func MarshalSections(sections []Section) ([]byte, error) {
	if sections == nil {
		sections = []Section{}
	}
	return json.Marshal(sections)
}

// UnmarshalSections decodes the pages.sections column value, preserving
// order. Empty input decodes as an empty list.
func UnmarshalSections(raw []byte) ([]Section, error) {
	if len(raw) == 0 {
		return []Section{}, nil
	}
	var sections []Section
	if errUnmarshal := json.Unmarshal(raw, &sections); errUnmarshal != nil {
		return nil, fmt.Errorf("decode sections: %w", errUnmarshal)
	}
	if sections == nil {
		sections = []Section{}
	}
	return sections, nil
}

// ValidateSections checks a document before persisting: every section must
// carry an ID, a known type and a config, and IDs must be unique within the
// page.
func ValidateSections(sections []Section) error {
	seen := make(map[string]struct{}, len(sections))
	for i, section := range sections {
		if section.ID == "" {
			return fmt.Errorf("section %d: missing id", i)
		}
		if _, ok := seen[section.ID]; ok {
			return fmt.Errorf("section %d: duplicate id %s", i, section.ID)
		}
		seen[section.ID] = struct{}{}
		if _, ok := sectionDefaults[section.Type]; !ok {
			return fmt.Errorf("section %d: %w: %s", i, ErrUnknownSectionType, section.Type)
		}
		if section.Config == nil {
			return fmt.Errorf("section %d: missing config", i)
		}
	}
	return nil
}
