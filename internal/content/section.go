// Package content implements the page-section document model: an ordered
// list of typed sections, each with a type-specific config payload, stored
// as a single JSON document per page.
package content

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SectionType discriminates the config payload of a section.
type SectionType string

// The closed set of section types.
const (
	TypeHero          SectionType = "hero"
	TypeText          SectionType = "text"
	TypeTextWithImage SectionType = "textWithImage"
	TypeHighlights    SectionType = "highlights"
	TypeTestimonials  SectionType = "testimonials"
	TypeCallToAction  SectionType = "callToAction"
	TypeGallery       SectionType = "gallery"
	TypeFacultyList   SectionType = "facultyList"
	TypeContactForm   SectionType = "contactForm"
)

// ErrUnknownSectionType indicates a type outside the closed set.
var ErrUnknownSectionType = errors.New("unknown section type")

// Section is one typed block of a page. Config keys depend on Type.
type Section struct {
	ID     string         `json:"id"`
	Type   SectionType    `json:"type"`
	Config map[string]any `json:"config"`
}

// sectionDefaults maps each type to its literal default config. Values are
// deep-copied on access; the literals themselves are never handed out.
var sectionDefaults = map[SectionType]map[string]any{
	TypeHero: {
		"title":           "Welcome to our school",
		"subtitle":        "",
		"backgroundImage": "",
		"buttonLabel":     "Learn more",
		"buttonLink":      "",
	},
	TypeText: {
		"heading": "",
		"body":    "",
	},
	TypeTextWithImage: {
		"heading":       "",
		"body":          "",
		"image":         "",
		"imagePosition": "right",
	},
	TypeHighlights: {
		"heading": "Highlights",
		"items":   []any{},
	},
	TypeTestimonials: {
		"heading": "What people say",
		"entries": []any{},
	},
	TypeCallToAction: {
		"heading":     "",
		"body":        "",
		"buttonLabel": "Contact us",
		"buttonLink":  "",
	},
	TypeGallery: {
		"heading": "Gallery",
		"images":  []any{},
	},
	TypeFacultyList: {
		"heading": "Our faculty",
		"members": []any{},
	},
	TypeContactForm: {
		"heading":        "Contact us",
		"recipientEmail": "",
		"successMessage": "Thank you, we will get back to you soon.",
	},
}

// KnownTypes returns the section types in a fixed order.
func KnownTypes() []SectionType {
	return []SectionType{
		TypeHero,
		TypeText,
		TypeTextWithImage,
		TypeHighlights,
		TypeTestimonials,
		TypeCallToAction,
		TypeGallery,
		TypeFacultyList,
		TypeContactForm,
	}
}

// DefaultConfig returns a copy of the default config for a type.
func DefaultConfig(sectionType SectionType) (map[string]any, error) {
	defaults, ok := sectionDefaults[sectionType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSectionType, sectionType)
	}
	return cloneConfig(defaults), nil
}

// NewSection creates a section of the given type with a fresh unique ID and
// the type's default config.
func NewSection(sectionType SectionType) (Section, error) {
	config, errDefault := DefaultConfig(sectionType)
	if errDefault != nil {
		return Section{}, errDefault
	}
	return Section{
		ID:     uuid.NewString(),
		Type:   sectionType,
		Config: config,
	}, nil
}

// cloneConfig deep-copies a config value tree of maps, slices and scalars.
func cloneConfig(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneConfig(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
