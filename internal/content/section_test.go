package content

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewSectionDefaultsMatchRegistry(t *testing.T) {
	for _, sectionType := range KnownTypes() {
		section, errNew := NewSection(sectionType)
		if errNew != nil {
			t.Fatalf("new section %s: %v", sectionType, errNew)
		}
		if section.ID == "" {
			t.Fatalf("section %s missing id", sectionType)
		}
		if section.Type != sectionType {
			t.Fatalf("section type mismatch: %s != %s", section.Type, sectionType)
		}
		want, errDefault := DefaultConfig(sectionType)
		if errDefault != nil {
			t.Fatalf("default config %s: %v", sectionType, errDefault)
		}
		if !reflect.DeepEqual(section.Config, want) {
			t.Fatalf("config for %s does not match default: %v", sectionType, section.Config)
		}
	}
}

func TestNewSectionIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		section, errNew := NewSection(TypeText)
		if errNew != nil {
			t.Fatalf("new section: %v", errNew)
		}
		if _, dup := seen[section.ID]; dup {
			t.Fatalf("duplicate section id %s", section.ID)
		}
		seen[section.ID] = struct{}{}
	}
}

func TestNewSectionRejectsUnknownType(t *testing.T) {
	if _, errNew := NewSection("carousel"); errNew == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestDefaultConfigReturnsCopies(t *testing.T) {
	first, _ := DefaultConfig(TypeGallery)
	first["heading"] = "changed"
	if images, ok := first["images"].([]any); ok {
		_ = append(images, "x")
	}

	second, _ := DefaultConfig(TypeGallery)
	if second["heading"] != "Gallery" {
		t.Fatalf("registry default mutated: %v", second["heading"])
	}
}

func TestSerializeRoundTripPreservesDocument(t *testing.T) {
	hero, _ := NewSection(TypeHero)
	faculty, _ := NewSection(TypeFacultyList)
	faculty.Config["members"] = []any{
		map[string]any{"name": "A. Novak", "role": "Principal", "photo": ""},
	}
	page := Page{
		SchoolID:        3,
		Slug:            "about",
		Title:           "About us",
		MetaDescription: "Who we are",
		Sections:        []Section{hero, faculty},
	}

	raw, errSerialize := Serialize(page)
	if errSerialize != nil {
		t.Fatalf("serialize: %v", errSerialize)
	}
	decoded, errDeserialize := Deserialize(raw)
	if errDeserialize != nil {
		t.Fatalf("deserialize: %v", errDeserialize)
	}
	if !reflect.DeepEqual(decoded, page) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, page)
	}

	again, errSerialize := Serialize(decoded)
	if errSerialize != nil {
		t.Fatalf("serialize again: %v", errSerialize)
	}
	var a, b any
	if errUnmarshal := json.Unmarshal(raw, &a); errUnmarshal != nil {
		t.Fatalf("unmarshal first: %v", errUnmarshal)
	}
	if errUnmarshal := json.Unmarshal(again, &b); errUnmarshal != nil {
		t.Fatalf("unmarshal second: %v", errUnmarshal)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("serialized documents differ")
	}
}

func TestUnmarshalSectionsEmptyAndOrdered(t *testing.T) {
	sections, errUnmarshal := UnmarshalSections(nil)
	if errUnmarshal != nil || len(sections) != 0 {
		t.Fatalf("expected empty list for nil input, got %v (%v)", sections, errUnmarshal)
	}

	raw := []byte(`[{"id":"b","type":"text","config":{"heading":"","body":"x"}},{"id":"a","type":"hero","config":{"title":"t"}}]`)
	sections, errUnmarshal = UnmarshalSections(raw)
	if errUnmarshal != nil {
		t.Fatalf("unmarshal: %v", errUnmarshal)
	}
	if len(sections) != 2 || sections[0].ID != "b" || sections[1].ID != "a" {
		t.Fatalf("order not preserved: %+v", sections)
	}
}

func TestValidateSections(t *testing.T) {
	hero, _ := NewSection(TypeHero)
	text, _ := NewSection(TypeText)

	if errValidate := ValidateSections([]Section{hero, text}); errValidate != nil {
		t.Fatalf("unexpected error: %v", errValidate)
	}

	dup := text
	dup.ID = hero.ID
	if errValidate := ValidateSections([]Section{hero, dup}); errValidate == nil {
		t.Fatalf("expected duplicate id error")
	}

	bad := Section{ID: "x", Type: "carousel", Config: map[string]any{}}
	if errValidate := ValidateSections([]Section{bad}); errValidate == nil {
		t.Fatalf("expected unknown type error")
	}

	noConfig := Section{ID: "y", Type: TypeText}
	if errValidate := ValidateSections([]Section{noConfig}); errValidate == nil {
		t.Fatalf("expected missing config error")
	}
}
