// Package export serializes the cue list to the interchange formats and
// parses imported cue files and bundles.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/schollz/cuetimeline/internal/cues"
	"github.com/schollz/cuetimeline/internal/types"
)

var (
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrMalformedImport  = errors.New("malformed import")
	ErrBundleEmpty      = errors.New("bundle contained no recognizable media or cues")
	ErrNoCues           = errors.New("no cues to export")
)

// Project is a snapshot of everything an export needs
type Project struct {
	// Cues are sorted by time with numbers filled in
	Cues      []types.Cue
	Settings  types.Settings
	BaseName  string
	MediaName string
	Duration  float64
	Generated time.Time
}

// NewProject snapshots the store
func NewProject(store *cues.Store, settings types.Settings, baseName, mediaName string, duration float64) Project {
	if baseName == "" {
		baseName = types.DefaultBaseName
	}
	return Project{
		Cues:      store.Sorted(),
		Settings:  settings,
		BaseName:  baseName,
		MediaName: mediaName,
		Duration:  duration,
		Generated: time.Now(),
	}
}

// Prefix is {id}_{base}
func (p Project) Prefix() string {
	base := p.BaseName
	if base == "" {
		base = types.DefaultBaseName
	}
	return fmt.Sprintf("%d_%s", p.Settings.ExportID(), base)
}

// FileName returns {id}_{base}{suffix}
func (p Project) FileName(suffix string) string {
	return p.Prefix() + suffix
}

func (p Project) generatedStamp() string {
	t := p.Generated
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("2006-01-02 15:04:05")
}
