package input

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/types"
)

// FrameInterval is the redraw period while playing
const FrameInterval = time.Second / types.FPS

// TickMsg is sent once per frame
type TickMsg time.Time

// Tick schedules the next frame at fps, or at FrameInterval when fps is
// not positive
func Tick(fps int) tea.Cmd {
	interval := FrameInterval
	if fps > 0 {
		interval = time.Second / time.Duration(fps)
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// TogglePlayback plays or pauses and reports failures on the status line
func TogglePlayback(m *model.Model) {
	if err := media.Toggle(m.Player); err != nil {
		m.SetStatus("Cannot play: %v", err)
	}
}

// AdvancePlayback runs once per frame. While playing it keeps the playhead
// inside the canvas when KeepPlayheadInView is set. It reports whether the
// timeline needs a redraw.
func AdvancePlayback(m *model.Model) bool {
	if m.Player.Paused() {
		return false
	}
	if m.Settings.KeepPlayheadInView && !m.View.Dragging() {
		if mp := m.Mapper(); mp.Valid() {
			m.ApplyMapper(mp.KeepInView(m.CurrentTime()))
		}
	}
	return true
}
