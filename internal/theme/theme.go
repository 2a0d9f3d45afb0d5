// Package theme models the per-school theme document. Every nested field is
// optional; consumers read through ApplyDefaults so missing values fall back
// to the platform defaults and unknown keys never break rendering.
package theme

import "encoding/json"

// Settings is the nested theme document stored in schools.theme_settings.
type Settings struct {
	Colors     Colors     `json:"colors"`
	Typography Typography `json:"typography"`
	Layout     Layout     `json:"layout"`
	Navigation Navigation `json:"navigation"`
	Components Components `json:"components"`
	CustomCSS  string     `json:"custom_css,omitempty"` // Raw CSS override appended last.
}

// Colors holds the color palette.
type Colors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background,omitempty"`
	Surface    string `json:"surface,omitempty"`
	Text       Text   `json:"text"`
}

// Text holds text color variants.
type Text struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Inverted  string `json:"inverted,omitempty"`
}

// Typography holds font settings.
type Typography struct {
	HeadingFont string `json:"heading_font,omitempty"`
	BodyFont    string `json:"body_font,omitempty"`
	BaseSizePx  int    `json:"base_size_px,omitempty"`
}

// Layout holds page layout settings.
type Layout struct {
	MaxWidthPx   int    `json:"max_width_px,omitempty"`
	SectionGapPx int    `json:"section_gap_px,omitempty"`
	CornerStyle  string `json:"corner_style,omitempty"` // rounded or square.
}

// Navigation holds header navigation settings.
type Navigation struct {
	Style      string `json:"style,omitempty"` // top or side.
	Sticky     *bool  `json:"sticky,omitempty"`
	ShowLogo   *bool  `json:"show_logo,omitempty"`
	Background string `json:"background,omitempty"`
}

// Components holds component-level style settings.
type Components struct {
	ButtonStyle string `json:"button_style,omitempty"` // solid or outline.
	CardShadow  *bool  `json:"card_shadow,omitempty"`
	HeroOverlay string `json:"hero_overlay,omitempty"`
}

// Defaults returns the platform default theme.
func Defaults() Settings {
	sticky := true
	showLogo := true
	cardShadow := true
	return Settings{
		Colors: Colors{
			Primary:    "#1d4ed8",
			Secondary:  "#f59e0b",
			Background: "#ffffff",
			Surface:    "#f8fafc",
			Text: Text{
				Primary:   "#0f172a",
				Secondary: "#475569",
				Inverted:  "#ffffff",
			},
		},
		Typography: Typography{
			HeadingFont: "Inter",
			BodyFont:    "Inter",
			BaseSizePx:  16,
		},
		Layout: Layout{
			MaxWidthPx:   1200,
			SectionGapPx: 48,
			CornerStyle:  "rounded",
		},
		Navigation: Navigation{
			Style:      "top",
			Sticky:     &sticky,
			ShowLogo:   &showLogo,
			Background: "#ffffff",
		},
		Components: Components{
			ButtonStyle: "solid",
			CardShadow:  &cardShadow,
			HeroOverlay: "rgba(15,23,42,0.5)",
		},
	}
}

// ApplyDefaults fills every zero-valued field from the platform defaults.
// The custom CSS string is left as-is.
func ApplyDefaults(s Settings) Settings {
	d := Defaults()

	fillString(&s.Colors.Primary, d.Colors.Primary)
	fillString(&s.Colors.Secondary, d.Colors.Secondary)
	fillString(&s.Colors.Background, d.Colors.Background)
	fillString(&s.Colors.Surface, d.Colors.Surface)
	fillString(&s.Colors.Text.Primary, d.Colors.Text.Primary)
	fillString(&s.Colors.Text.Secondary, d.Colors.Text.Secondary)
	fillString(&s.Colors.Text.Inverted, d.Colors.Text.Inverted)

	fillString(&s.Typography.HeadingFont, d.Typography.HeadingFont)
	fillString(&s.Typography.BodyFont, d.Typography.BodyFont)
	fillInt(&s.Typography.BaseSizePx, d.Typography.BaseSizePx)

	fillInt(&s.Layout.MaxWidthPx, d.Layout.MaxWidthPx)
	fillInt(&s.Layout.SectionGapPx, d.Layout.SectionGapPx)
	fillString(&s.Layout.CornerStyle, d.Layout.CornerStyle)

	fillString(&s.Navigation.Style, d.Navigation.Style)
	fillBool(&s.Navigation.Sticky, d.Navigation.Sticky)
	fillBool(&s.Navigation.ShowLogo, d.Navigation.ShowLogo)
	fillString(&s.Navigation.Background, d.Navigation.Background)

	fillString(&s.Components.ButtonStyle, d.Components.ButtonStyle)
	fillBool(&s.Components.CardShadow, d.Components.CardShadow)
	fillString(&s.Components.HeroOverlay, d.Components.HeroOverlay)

	return s
}

// Decode parses a stored theme document, ignoring unknown keys. Empty or
// malformed input decodes as the zero settings so defaults apply.
func Decode(raw []byte) Settings {
	var s Settings
	if len(raw) == 0 {
		return s
	}
	if errUnmarshal := json.Unmarshal(raw, &s); errUnmarshal != nil {
		return Settings{}
	}
	return s
}

// Encode serializes a theme document for storage.
func Encode(s Settings) ([]byte, error) {
	return json.Marshal(s)
}

func fillString(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

func fillInt(dst *int, fallback int) {
	if *dst == 0 {
		*dst = fallback
	}
}

func fillBool(dst **bool, fallback *bool) {
	if *dst == nil && fallback != nil {
		v := *fallback
		*dst = &v
	}
}
