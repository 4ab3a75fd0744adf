package waveform

import (
	"fmt"

	"github.com/schollz/gowaveform"
)

// Column is the normalized min/max extent of one screen column, in [-1, 1]
type Column struct {
	Min float64
	Max float64
}

// File is a WAV file held in memory so that any window of it can be
// drawn without reading it again
type File struct {
	wf *gowaveform.Waveform
}

// Load reads a WAV file
func Load(path string) (*File, error) {
	wf, err := gowaveform.LoadWaveform(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load waveform: %w", err)
	}
	return &File{wf: wf}, nil
}

// Columns returns width min/max columns for the window [start, end]
// seconds. It gives a sharper picture than the envelope when the view is
// zoomed in far.
func (f *File) Columns(start, end float64, width int) ([]Column, error) {
	view, err := f.wf.GenerateView(gowaveform.WaveformOptions{
		Start: start,
		End:   end,
		Width: width,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate view: %w", err)
	}
	if view == nil || len(view.Data) == 0 {
		return nil, nil
	}
	return normalizePairs(view.Data, width), nil
}

// normalizePairs converts interleaved int16 min/max pairs to columns scaled
// by the largest absolute value
func normalizePairs(data []int16, width int) []Column {
	var maxAbs int
	for _, v := range data {
		a := int(v)
		if a < 0 {
			a = -a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}

	n := len(data) / 2
	if n > width {
		n = width
	}
	cols := make([]Column, n)
	for i := 0; i < n; i++ {
		lo := float64(data[i*2]) / float64(maxAbs)
		hi := float64(data[i*2+1]) / float64(maxAbs)
		if lo > hi {
			lo, hi = hi, lo
		}
		cols[i] = Column{Min: lo, Max: hi}
	}
	return cols
}
