package types

import "strings"

const (
	DefaultCueName     = "Cue"
	DefaultMarkerColor = "#ff4444"
	DefaultMacroID     = 101
	DefaultTrigger     = "Go+"
	DefaultBaseName    = "cues"

	// FPS is the frame rate used for every timecode in the system
	FPS = 30

	// EnvelopeSize is the number of amplitude values kept for drawing
	EnvelopeSize = 2000

	// HitTolerance is the pixel distance within which a marker is grabbed
	HitTolerance = 15.0
)

// Cue is a named, timed point annotation on the media timeline.
// Number is derived from the cue's rank by time and is only filled
// in on views returned by the cue store.
type Cue struct {
	ID          string
	Time        float64
	Name        string
	Description string
	Fade        float64
	MarkerColor string
	Number      int
}

// DisplayName returns the cue name or the default name when empty
func (c Cue) DisplayName() string {
	if strings.TrimSpace(c.Name) == "" {
		return DefaultCueName
	}
	return c.Name
}

// Record is an incoming cue description (from an import) that has not
// been validated yet.
type Record struct {
	Name        string
	Description string
	Time        float64
	Fade        float64
	MarkerColor string
}

// Theme selects the renderer palette
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps a stored string to a theme, defaulting to dark
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeLight)) {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// PaletteEntry is one of the fixed marker colors offered by the editors
type PaletteEntry struct {
	Hex  string
	Name string
}

// Palette is the fixed marker color table, in menu order
var Palette = []PaletteEntry{
	{"#ff4444", "Red"},
	{"#4444ff", "Blue"},
	{"#44ff44", "Green"},
	{"#ffff44", "Yellow"},
	{"#ff44ff", "Magenta"},
	{"#44ffff", "Cyan"},
	{"#ff8844", "Orange"},
	{"#8844ff", "Purple"},
}

// ColorName returns the palette name for a hex color or "Custom"
func ColorName(hex string) string {
	for _, p := range Palette {
		if strings.EqualFold(p.Hex, strings.TrimSpace(hex)) {
			return p.Name
		}
	}
	return "Custom"
}

// NextPaletteColor cycles through the palette starting after hex
func NextPaletteColor(hex string) string {
	for i, p := range Palette {
		if strings.EqualFold(p.Hex, hex) {
			return Palette[(i+1)%len(Palette)].Hex
		}
	}
	return Palette[0].Hex
}
