package model

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/schollz/cuetimeline/internal/audio"
	"github.com/schollz/cuetimeline/internal/export"
	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/waveform"
)

// Loads hands out load tokens. Only the result of the newest load is
// applied; older results arriving late are dropped.
type Loads struct {
	current uint64
}

// Next starts a new load and returns its token
func (l *Loads) Next() uint64 {
	l.current++
	return l.current
}

// Current reports whether token belongs to the newest load
func (l *Loads) Current(token uint64) bool {
	return token == l.current
}

// LoadTokens tags one load. Media is checked against Model.Loads and Cues
// against Model.CueLoads; a bundle carries both.
type LoadTokens struct {
	Media uint64
	Cues  uint64
}

// StartLoad takes the tokens for a load of kind k. Media and bundles
// supersede earlier media loads, cue files and bundles supersede earlier
// cue loads.
func (m *Model) StartLoad(k media.Kind) LoadTokens {
	var t LoadTokens
	if k.IsMedia() || k == media.KindBundle {
		t.Media = m.Loads.Next()
	}
	if k == media.KindJSON || k == media.KindCSV || k == media.KindBundle {
		t.Cues = m.CueLoads.Next()
	}
	return t
}

// MediaResult is a decoded media file waiting to be applied
type MediaResult struct {
	Token    uint64
	Name     string
	Path     string
	Data     []byte
	Kind     media.Kind
	Duration float64
	Envelope waveform.Envelope
}

// DecodeMedia decodes media for the timeline. Decoding failures are logged
// and leave a duration-only timeline; durationHint is used when the decoder
// gives no duration.
func DecodeMedia(dec audio.Decoder, token uint64, path string, data []byte, durationHint float64) MediaResult {
	name := filepath.Base(path)
	r := MediaResult{
		Token:    token,
		Name:     name,
		Path:     path,
		Data:     data,
		Kind:     media.Classify(name),
		Duration: durationHint,
	}
	decoded, err := dec.Decode(name, data)
	if err != nil {
		log.Printf("Could not decode %s, showing timeline only: %v", name, err)
		return r
	}
	if decoded.Duration > 0 {
		r.Duration = decoded.Duration
	}
	r.Envelope = waveform.Sample(decoded.Channel())
	return r
}

// ApplyMedia commits decoded media. It returns false for a stale result.
func (m *Model) ApplyMedia(r MediaResult) bool {
	if !m.Loads.Current(r.Token) {
		log.Printf("Dropping stale media load %d for %s", r.Token, r.Name)
		return false
	}
	m.commitMedia(r)
	return true
}

func (m *Model) commitMedia(r MediaResult) {
	m.MediaName = r.Name
	m.MediaPath = r.Path
	m.MediaData = r.Data
	m.MediaKind = r.Kind
	m.Envelope = r.Envelope
	m.Player.Load(r.Duration)
	m.View.Zoom = 1
	m.View.Pan = 0
	m.View.Drag = nil
	m.View.Readout = nil
	m.SetStatus("Loaded %s", r.Name)
}

// ParseCues parses a JSON or CSV cue file against the current settings
func (m *Model) ParseCues(name string, data []byte) (*export.Imported, error) {
	switch media.Classify(name) {
	case media.KindJSON:
		return export.ParseJSON(data, m.Settings)
	case media.KindCSV:
		return export.ParseCSV(data)
	}
	return nil, fmt.Errorf("%w: %s", export.ErrUnsupportedInput, name)
}

// ApplyCues replaces every cue with the imported ones and merges imported
// settings
func (m *Model) ApplyCues(name string, imp *export.Imported) {
	m.Cues.ReplaceAll(imp.Records)
	m.View.HighlightedID = ""
	m.View.Drag = nil
	if base := media.BaseName(name); base != "" {
		m.ImportedBase = base
	}
	if imp.Settings != nil {
		m.UpdateSettings(*imp.Settings)
	}
	m.SetStatus("Imported %d cues from %s", len(imp.Records), filepath.Base(name))
}

// ImportCues parses and applies a cue file. The store is unchanged when
// parsing fails.
func (m *Model) ImportCues(name string, data []byte) error {
	imp, err := m.ParseCues(name, data)
	if err != nil {
		return err
	}
	m.ApplyCues(name, imp)
	return nil
}

// LoadCues imports a cue file read under token. It returns ErrStaleLoad
// when a newer cue load has started.
func (m *Model) LoadCues(token uint64, name string, data []byte) error {
	if !m.CueLoads.Current(token) {
		log.Printf("Dropping stale cue load %d for %s", token, filepath.Base(name))
		return ErrStaleLoad
	}
	return m.ImportCues(name, data)
}

// BundleResult is an opened bundle waiting to be applied
type BundleResult struct {
	Token     uint64
	CueToken  uint64
	Name      string
	Media     *MediaResult
	MediaType string
	CuesName  string
	CuesData  []byte
}

// OpenBundle reads a bundle and decodes its media
func OpenBundle(dec audio.Decoder, tok LoadTokens, path string, data []byte) (BundleResult, error) {
	contents, err := export.OpenBundle(filepath.Base(path), data)
	if err != nil {
		return BundleResult{}, err
	}
	r := BundleResult{
		Token:    tok.Media,
		CueToken: tok.Cues,
		Name:     filepath.Base(path),
	}
	if contents.HasMedia() {
		mr := DecodeMedia(dec, tok.Media, contents.MediaName, contents.MediaData, 0)
		r.Media = &mr
		r.MediaType = contents.MediaType
	}
	if contents.HasCues() {
		r.CuesName = contents.CuesName
		r.CuesData = contents.CuesData
	}
	return r, nil
}

// ErrStaleLoad is returned when a newer load has started
var ErrStaleLoad = errors.New("stale load")

// ApplyBundle commits the bundle media first, then the cues. The media
// stays committed when the cue file fails to parse or a newer cue load
// has replaced the cues in the meantime.
func (m *Model) ApplyBundle(r BundleResult) error {
	if !m.Loads.Current(r.Token) {
		return ErrStaleLoad
	}
	if r.Media != nil {
		m.commitMedia(*r.Media)
		log.Printf("Bundle %s: media %s (%s)", r.Name, r.Media.Name, r.MediaType)
	}
	if r.CuesName == "" {
		return nil
	}
	if !m.CueLoads.Current(r.CueToken) {
		log.Printf("Keeping newer cues, skipping %s from %s", r.CuesName, r.Name)
		return nil
	}
	if err := m.ImportCues(r.CuesName, r.CuesData); err != nil {
		return fmt.Errorf("bundle %s: %w", r.Name, err)
	}
	if r.Media != nil {
		m.SetStatus("Opened %s: %s (%s), %d cues", r.Name, r.Media.Name, r.MediaType, m.Cues.Len())
	}
	return nil
}
