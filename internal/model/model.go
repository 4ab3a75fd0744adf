// Package model holds the editor application state: the cue store, the
// timeline view, settings, theme and the loaded media.
package model

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/cuetimeline/internal/cues"
	"github.com/schollz/cuetimeline/internal/export"
	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/storage"
	"github.com/schollz/cuetimeline/internal/timeline"
	"github.com/schollz/cuetimeline/internal/types"
	"github.com/schollz/cuetimeline/internal/waveform"
)

// SettingsSaveDelay is how long settings changes are held before writing
const SettingsSaveDelay = 500 * time.Millisecond

// Player is a media.Player that can be loaded with new media
type Player interface {
	media.Player
	Load(duration float64)
	Unload()
}

// Popup is an open quick-add or cue editor dialog
type Popup struct {
	// CueID is empty when the popup creates a new cue
	CueID string
	Time  float64
	// Resume restarts playback when the popup closes
	Resume bool
}

// Model is the whole editor state
type Model struct {
	Cues     *cues.Store
	View     timeline.View
	Settings types.Settings
	Theme    types.Theme
	Player   Player
	Loads    Loads
	CueLoads Loads

	// Envelope is nil when the media could not be decoded
	Envelope  waveform.Envelope
	MediaName string
	MediaPath string
	MediaData []byte
	MediaKind media.Kind

	// ImportedBase is the base name of the last imported cue file
	ImportedBase string

	// Canvas size in pixels. The editor uses views.CellWidth pixels per
	// terminal column and one row per pixel of height.
	CanvasWidth  int
	CanvasHeight int

	Popup *Popup
	// InputFocused is set while a text field outside a popup has focus
	InputFocused bool

	Status string

	kv    storage.KV
	saver *storage.AutoSaver
}

// NewModel loads settings and theme from kv. A nil kv keeps everything in
// memory.
func NewModel(kv storage.KV, player Player, fallbackTheme types.Theme) *Model {
	if kv == nil {
		kv = storage.NewMemory()
	}
	if player == nil {
		player = media.NewTransport()
	}
	settings, err := storage.LoadSettings(kv)
	if err != nil {
		log.Printf("Error loading settings: %v", err)
	}
	return &Model{
		Cues:     cues.NewStore(),
		View:     timeline.NewView(),
		Settings: settings,
		Theme:    storage.LoadTheme(kv, fallbackTheme),
		Player:   player,
		kv:       kv,
		saver:    storage.NewAutoSaver(kv, SettingsSaveDelay),
	}
}

// Duration returns the media duration, or 0 while it is unknown
func (m *Model) Duration() float64 {
	if d, ok := m.Player.Duration(); ok {
		return d
	}
	return 0
}

// CurrentTime is the playhead position
func (m *Model) CurrentTime() float64 {
	return m.Player.CurrentTime()
}

// Mapper snapshots the current view for the current canvas
func (m *Model) Mapper() timeline.Mapper {
	return m.View.Mapper(m.Duration(), float64(m.CanvasWidth))
}

// ApplyMapper stores a changed zoom and pan
func (m *Model) ApplyMapper(mp timeline.Mapper) {
	m.View.Apply(mp)
}

// Resize changes the canvas size and re-clamps the pan
func (m *Model) Resize(width, height int) {
	m.CanvasWidth = width
	m.CanvasHeight = height
	if mp := m.Mapper(); mp.Valid() {
		m.ApplyMapper(mp.ClampPan())
	}
}

// HasMedia reports whether media is loaded
func (m *Model) HasMedia() bool {
	return m.MediaName != ""
}

// ModalOpen reports whether a dialog has the keyboard
func (m *Model) ModalOpen() bool {
	return m.Popup != nil
}

// BaseName is the export base: the media name without extension, else the
// last imported cue file base, else the default
func (m *Model) BaseName() string {
	if m.MediaName != "" {
		if b := media.BaseName(m.MediaName); b != "" {
			return b
		}
	}
	if m.ImportedBase != "" {
		return m.ImportedBase
	}
	return types.DefaultBaseName
}

// Project snapshots the state for export
func (m *Model) Project() export.Project {
	return export.NewProject(m.Cues, m.Settings, m.BaseName(), m.MediaName, m.Duration())
}

// UpdateSettings replaces the settings and schedules a save
func (m *Model) UpdateSettings(s types.Settings) {
	m.Settings = s
	m.saver.Save(s)
}

// ResetSettings restores the factory settings
func (m *Model) ResetSettings() error {
	s, err := storage.ResetSettings(m.kv)
	if err != nil {
		return err
	}
	m.Settings = s
	return nil
}

// ToggleTheme switches and stores the theme
func (m *Model) ToggleTheme() {
	m.Theme = m.Theme.Toggle()
	if err := storage.SaveTheme(m.kv, m.Theme); err != nil {
		log.Printf("Error saving theme: %v", err)
	}
}

// Flush writes pending settings, called on exit
func (m *Model) Flush() error {
	return m.saver.Flush()
}

// SetStatus sets the status line message
func (m *Model) SetStatus(format string, args ...any) {
	m.Status = fmt.Sprintf(format, args...)
}
