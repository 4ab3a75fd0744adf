package storage

import (
	"fmt"
	"log"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/cuetimeline/internal/types"
)

const (
	SettingsKey = "markersSettings"
	ThemeKey    = "theme"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadSettings reads the stored settings merged over the defaults. A
// corrupt blob is logged and the defaults are returned.
func LoadSettings(kv KV) (types.Settings, error) {
	settings := types.DefaultSettings()
	raw, ok, err := kv.Get(SettingsKey)
	if err != nil {
		return settings, err
	}
	if !ok || raw == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		log.Printf("Warning: ignoring stored settings: %v", err)
		return types.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings writes the settings blob
func SaveSettings(kv KV, s types.Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return kv.Set(SettingsKey, string(b))
}

// ResetSettings stores and returns the defaults
func ResetSettings(kv KV) (types.Settings, error) {
	s := types.DefaultSettings()
	return s, SaveSettings(kv, s)
}

// LoadTheme returns the stored theme, or fallback when none is stored
func LoadTheme(kv KV, fallback types.Theme) types.Theme {
	raw, ok, err := kv.Get(ThemeKey)
	if err != nil || !ok || raw == "" {
		return fallback
	}
	return types.ParseTheme(raw)
}

// SaveTheme writes the theme string
func SaveTheme(kv KV, t types.Theme) error {
	return kv.Set(ThemeKey, string(t))
}

// AutoSaver debounces settings writes so rapid toggles cost one write
type AutoSaver struct {
	kv    KV
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *types.Settings
}

// NewAutoSaver returns a saver that writes delay after the last change
func NewAutoSaver(kv KV, delay time.Duration) *AutoSaver {
	return &AutoSaver{kv: kv, delay: delay}
}

// Save schedules a write of s, replacing any pending write
func (a *AutoSaver) Save(s types.Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &s
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.Flush(); err != nil {
			log.Printf("Error saving settings: %v", err)
		}
	})
}

// Flush writes any pending settings immediately
func (a *AutoSaver) Flush() error {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	if pending == nil {
		return nil
	}
	return SaveSettings(a.kv, *pending)
}
