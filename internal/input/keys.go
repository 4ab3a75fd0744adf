package input

import (
	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/model"
)

// HandleKey applies the timeline keyboard shortcuts. Keys are ignored while
// a text input has focus or a dialog is open.
func HandleKey(m *model.Model, key string) Result {
	if m.InputFocused || m.ModalOpen() {
		return Result{}
	}
	redraw := Result{Redraw: true}

	switch key {
	case " ", "k":
		TogglePlayback(m)
		return redraw

	case "left":
		media.Seek(m.Player, -1)
		return redraw
	case "right":
		media.Seek(m.Player, 1)
		return redraw
	case "shift+left":
		media.Seek(m.Player, -5)
		return redraw
	case "shift+right":
		media.Seek(m.Player, 5)
		return redraw
	case "alt+left":
		media.Seek(m.Player, -0.1)
		return redraw
	case "alt+right":
		media.Seek(m.Player, 0.1)
		return redraw
	case ",":
		media.Seek(m.Player, -0.05)
		return redraw
	case ".":
		media.Seek(m.Player, 0.05)
		return redraw

	case "+", "=":
		return applyZoom(m, func(m *model.Model) { m.ApplyMapper(m.Mapper().ZoomIn()) })
	case "-", "_":
		return applyZoom(m, func(m *model.Model) { m.ApplyMapper(m.Mapper().ZoomOut()) })
	case "0":
		return applyZoom(m, func(m *model.Model) { m.ApplyMapper(m.Mapper().Reset()) })

	case "m":
		m.AddCueAtPlayhead()
		return redraw
	case "[":
		m.JumpPrevCue()
		return redraw
	case "]":
		m.JumpNextCue()
		return redraw
	case "e":
		m.EditFirstCue()
		return redraw

	case "tab":
		// Highlight the next visible cue
		m.SelectNextCue()
		return redraw
	case "esc":
		m.View.HighlightedID = ""
		return redraw
	case "d", "delete":
		m.DeleteHighlightedCue()
		return redraw
	case "ctrl+left":
		m.NudgeHighlightedCue(-0.1)
		return redraw
	case "ctrl+right":
		m.NudgeHighlightedCue(0.1)
		return redraw
	case "home":
		if err := m.PlayFromStart(); err != nil {
			m.SetStatus("Cannot play: %v", err)
		}
		return redraw
	case "t":
		m.ToggleTheme()
		return redraw
	}
	return Result{}
}

func applyZoom(m *model.Model, f func(m *model.Model)) Result {
	if !m.Mapper().Valid() {
		return Result{}
	}
	f(m)
	return Result{Redraw: true}
}
