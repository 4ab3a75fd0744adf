package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/cuetimeline/internal/audio"
	"github.com/schollz/cuetimeline/internal/export"
	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/model"
)

// loaded is a file read and decoded off the UI loop
type loaded struct {
	Path   string
	Kind   media.Kind
	Media  *model.MediaResult
	Bundle *model.BundleResult
	Cues   []byte
	// CueToken guards the cue file against newer cue loads
	CueToken uint64
	Err      error
}

// readFile reads path and does the slow part of loading it. tok comes from
// Model.StartLoad; durationHint is used for media that cannot be decoded.
func readFile(dec audio.Decoder, tok model.LoadTokens, path string, durationHint float64) loaded {
	l := loaded{Path: path, Kind: media.Classify(path), CueToken: tok.Cues}
	if l.Kind == media.KindUnknown {
		l.Err = fmt.Errorf("%w: %s", export.ErrUnsupportedInput, filepath.Base(path))
		return l
	}
	data, err := os.ReadFile(path)
	if err != nil {
		l.Err = fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		return l
	}
	switch l.Kind {
	case media.KindAudio, media.KindVideo:
		r := model.DecodeMedia(dec, tok.Media, path, data, durationHint)
		l.Media = &r
	case media.KindBundle:
		r, err := model.OpenBundle(dec, tok, path, data)
		if err != nil {
			l.Err = err
			return l
		}
		l.Bundle = &r
	default:
		l.Cues = data
	}
	return l
}

// apply commits a loaded file to the model
func apply(m *model.Model, l loaded) error {
	if l.Err != nil {
		return l.Err
	}
	switch {
	case l.Media != nil:
		if !m.ApplyMedia(*l.Media) {
			return model.ErrStaleLoad
		}
		if l.Media.Duration <= 0 {
			m.SetStatus("%s has no known duration, pass --duration", l.Media.Name)
		}
	case l.Bundle != nil:
		return m.ApplyBundle(*l.Bundle)
	default:
		return m.LoadCues(l.CueToken, l.Path, l.Cues)
	}
	return nil
}

// loadPaths loads files in order, synchronously
func loadPaths(m *model.Model, dec audio.Decoder, durationHint float64, paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		tok := m.StartLoad(media.Classify(p))
		if err := apply(m, readFile(dec, tok, p, durationHint)); err != nil {
			return err
		}
	}
	return nil
}
