package content

// Direction names a reorder direction.
type Direction string

// Reorder directions.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Reorder swaps the section at index with its immediate neighbor in the
// given direction and returns a new slice. Swaps that would leave the list
// (index 0 moving up, last index moving down, or an invalid index) return
// the input unchanged.
func Reorder(sections []Section, index int, direction Direction) []Section {
	if index < 0 || index >= len(sections) {
		return sections
	}
	target := index
	switch direction {
	case DirectionUp:
		target = index - 1
	case DirectionDown:
		target = index + 1
	default:
		return sections
	}
	if target < 0 || target >= len(sections) {
		return sections
	}
	out := make([]Section, len(sections))
	copy(out, sections)
	out[index], out[target] = out[target], out[index]
	return out
}

// UpdateConfig shallow-merges patch into the config of the section with the
// given ID and returns a new slice. Top-level keys in patch replace existing
// keys; nested objects are not deep-merged. An unknown ID returns the input
// unchanged.
func UpdateConfig(sections []Section, sectionID string, patch map[string]any) []Section {
	idx := indexOf(sections, sectionID)
	if idx < 0 {
		return sections
	}
	out := make([]Section, len(sections))
	copy(out, sections)

	merged := cloneConfig(out[idx].Config)
	if merged == nil {
		merged = make(map[string]any, len(patch))
	}
	for key, value := range patch {
		merged[key] = cloneValue(value)
	}
	out[idx].Config = merged
	return out
}

// Remove filters out the section with the given ID and returns a new slice.
// An unknown ID returns the input unchanged.
func Remove(sections []Section, sectionID string) []Section {
	idx := indexOf(sections, sectionID)
	if idx < 0 {
		return sections
	}
	out := make([]Section, 0, len(sections)-1)
	out = append(out, sections[:idx]...)
	out = append(out, sections[idx+1:]...)
	return out
}

// indexOf returns the position of a section ID, or -1.
func indexOf(sections []Section, sectionID string) int {
	for i, section := range sections {
		if section.ID == sectionID {
			return i
		}
	}
	return -1
}
