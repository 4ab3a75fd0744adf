package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/schollz/cuetimeline/internal/cues"
	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/types"
)

// CueFields are the raw text values of the quick add and editor dialogs
type CueFields struct {
	Name        string
	Time        string
	Fade        string
	Description string
	Color       string
}

// OpenQuickAdd opens the quick add dialog for a new cue at t. Playback is
// paused while the dialog is open when PauseOnCuePopup is set.
func (m *Model) OpenQuickAdd(t float64) {
	m.openPopup(&Popup{Time: m.clampTime(t)})
}

// AddCueAtPlayhead opens the quick add dialog at the current time
func (m *Model) AddCueAtPlayhead() {
	m.OpenQuickAdd(m.CurrentTime())
}

// OpenEditor opens the full editor for an existing cue
func (m *Model) OpenEditor(id string) bool {
	c, ok := m.Cues.Get(id)
	if !ok {
		return false
	}
	m.openPopup(&Popup{CueID: c.ID, Time: c.Time})
	m.View.HighlightedID = c.ID
	return true
}

// EditFirstCue opens the editor for the first cue in storage order
func (m *Model) EditFirstCue() bool {
	c, ok := m.Cues.First()
	if !ok {
		return false
	}
	return m.OpenEditor(c.ID)
}

// EditorFields returns the initial dialog values for the open popup
func (m *Model) EditorFields() CueFields {
	if m.Popup == nil {
		return CueFields{}
	}
	if c, ok := m.Cues.Get(m.Popup.CueID); ok {
		color := c.MarkerColor
		if color == "" {
			color = types.DefaultMarkerColor
		}
		return CueFields{
			Name:        c.Name,
			Time:        timecode.FormatTime(c.Time),
			Fade:        timecode.FormatNumber(c.Fade),
			Description: c.Description,
			Color:       color,
		}
	}
	return CueFields{
		Time:  timecode.FormatTime(m.Popup.Time),
		Color: types.DefaultMarkerColor,
	}
}

func (m *Model) openPopup(p *Popup) {
	if m.Popup != nil {
		m.ClosePopup()
	}
	if m.Settings.PauseOnCuePopup && !m.Player.Paused() {
		m.Player.Pause()
		p.Resume = true
	}
	m.Popup = p
}

// ClosePopup closes the dialog without saving and resumes playback if it
// was paused on open
func (m *Model) ClosePopup() {
	p := m.Popup
	m.Popup = nil
	if p != nil && p.Resume {
		if err := m.Player.Play(); err != nil {
			m.SetStatus("Failed to resume playback: %v", err)
		}
	}
}

// SavePopup applies the dialog fields and closes it. A new cue is added at
// the popup time; an existing cue is patched. It returns the cue id.
func (m *Model) SavePopup(f CueFields) (string, error) {
	p := m.Popup
	if p == nil {
		return "", fmt.Errorf("no dialog open")
	}
	fade, err := parseFade(f.Fade)
	if err != nil {
		return "", err
	}
	if !m.Settings.UseFadeTimes {
		fade = 0
	}
	color := strings.TrimSpace(f.Color)
	if m.Settings.UseMarkerColor && color == "" {
		color = types.DefaultMarkerColor
	}
	if !m.Settings.UseMarkerColor {
		color = ""
	}
	name := strings.TrimSpace(f.Name)
	description := strings.TrimSpace(f.Description)

	id := p.CueID
	if id == "" {
		id = m.Cues.Add(p.Time, name, description, fade, color)
	} else {
		patch := cues.Patch{
			Name:        &name,
			Description: &description,
			Fade:        &fade,
			MarkerColor: &color,
		}
		// an untouched M:SS field would drop the fraction
		if ts := strings.TrimSpace(f.Time); ts != "" && ts != m.EditorFields().Time {
			t, ok := timecode.ParseTime(f.Time)
			if !ok {
				return "", fmt.Errorf("invalid time %q", f.Time)
			}
			t = m.clampTime(t)
			patch.Time = &t
		}
		if !m.Cues.Update(id, patch) {
			m.ClosePopup()
			return "", fmt.Errorf("cue %s no longer exists", id)
		}
	}
	m.ClosePopup()
	m.View.HighlightedID = id
	return id, nil
}

func parseFade(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid fade %q", s)
	}
	return math.Max(0, v), nil
}

// DeleteCue removes a cue and closes its editor
func (m *Model) DeleteCue(id string) bool {
	if !m.Cues.Remove(id) {
		return false
	}
	if m.View.HighlightedID == id {
		m.View.HighlightedID = ""
	}
	if m.Popup != nil && m.Popup.CueID == id {
		m.ClosePopup()
	}
	return true
}

// DeleteHighlightedCue removes the highlighted cue
func (m *Model) DeleteHighlightedCue() bool {
	if m.View.HighlightedID == "" {
		return false
	}
	return m.DeleteCue(m.View.HighlightedID)
}

// RenameCue is the inline rename from the cue list
func (m *Model) RenameCue(id, name string) bool {
	name = strings.TrimSpace(name)
	return m.Cues.Update(id, cues.Patch{Name: &name})
}

// DescribeCue is the inline description edit from the cue list
func (m *Model) DescribeCue(id, description string) bool {
	description = strings.TrimSpace(description)
	return m.Cues.Update(id, cues.Patch{Description: &description})
}

// SelectNextCue highlights the next cue in time that is visible in the
// canvas, wrapping around
func (m *Model) SelectNextCue() {
	mp := m.Mapper()
	var visible []types.Cue
	for _, c := range m.Cues.Sorted() {
		if !mp.Valid() || mp.Visible(mp.TimeToX(c.Time), 0) {
			visible = append(visible, c)
		}
	}
	if len(visible) == 0 {
		m.View.HighlightedID = ""
		return
	}
	for i, c := range visible {
		if c.ID == m.View.HighlightedID {
			m.View.HighlightedID = visible[(i+1)%len(visible)].ID
			return
		}
	}
	m.View.HighlightedID = visible[0].ID
}

// NudgeHighlightedCue moves the highlighted cue by delta seconds
func (m *Model) NudgeHighlightedCue(delta float64) bool {
	c, ok := m.Cues.Get(m.View.HighlightedID)
	if !ok {
		return false
	}
	t := m.clampTime(c.Time + delta)
	return m.Cues.Update(c.ID, cues.Patch{Time: &t})
}

// JumpToCue seeks to a cue and highlights it
func (m *Model) JumpToCue(id string) bool {
	c, ok := m.Cues.Get(id)
	if !ok {
		return false
	}
	m.SeekTo(c.Time)
	m.View.HighlightedID = c.ID
	return true
}

// JumpPrevCue seeks to the nearest cue before the playhead
func (m *Model) JumpPrevCue() bool {
	c, ok := m.Cues.NearestBefore(m.CurrentTime())
	if !ok {
		return false
	}
	return m.JumpToCue(c.ID)
}

// JumpNextCue seeks to the nearest cue after the playhead
func (m *Model) JumpNextCue() bool {
	c, ok := m.Cues.NearestAfter(m.CurrentTime())
	if !ok {
		return false
	}
	return m.JumpToCue(c.ID)
}

// SeekTo moves the playhead, clamped to the media
func (m *Model) SeekTo(t float64) {
	m.Player.SetCurrentTime(m.clampTime(t))
}

// PlayFromStart rewinds and plays
func (m *Model) PlayFromStart() error {
	m.Player.SetCurrentTime(0)
	return m.Player.Play()
}

func (m *Model) clampTime(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return 0
	}
	if d := m.Duration(); d > 0 && t > d {
		return d
	}
	return t
}
