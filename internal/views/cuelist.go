package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/render"
	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/types"
)

// InlineEdit is a rename or description field open on one cue list row
type InlineEdit struct {
	CueID string
	Field Field
	Input textinput.Model
}

// NewInlineEdit opens an inline field on a cue, seeded with its current
// value. Only FieldName and FieldDescription are editable inline.
func NewInlineEdit(c types.Cue, field Field) *InlineEdit {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 30
	if field == FieldDescription {
		ti.SetValue(c.Description)
	} else {
		field = FieldName
		ti.SetValue(c.Name)
	}
	ti.Focus()
	return &InlineEdit{CueID: c.ID, Field: field, Input: ti}
}

// Apply writes the field back to the cue store
func (e *InlineEdit) Apply(m *model.Model) bool {
	if e.Field == FieldDescription {
		return m.DescribeCue(e.CueID, e.Input.Value())
	}
	return m.RenameCue(e.CueID, e.Input.Value())
}

// RenderCueList renders the cues ordered by time, scrolled so the selected
// row is visible
func RenderCueList(m *model.Model, s Screen, rows, width int) string {
	styles := getCommonStyles(m.Theme)
	cues := m.Cues.Sorted()
	if len(cues) == 0 {
		return styles.Label.Render("No cues. Press m to add one at the playhead.")
	}

	offset := ListOffset(s.Selected, rows)

	var content strings.Builder
	content.WriteString(styles.Label.Render(fmt.Sprintf("  %-4s %-10s %-24s %-6s %s", "#", "Time", "Name", "Fade", "Description")))
	for i := offset; i < len(cues) && i < offset+rows; i++ {
		c := cues[i]
		content.WriteString("\n")
		content.WriteString(cueRow(m, c, i == s.Selected, s.Inline, styles, width))
	}
	return content.String()
}

// ListOffset is the first cue list row shown when selected must be visible
func ListOffset(selected, rows int) int {
	if selected >= rows {
		return selected - rows + 1
	}
	return 0
}

// ListRows is the number of cue rows that fit the terminal
func ListRows(termHeight int) int {
	return max(termHeight-TimelineRows-12, 3)
}

// ListTop is the screen row of the first cue row
const ListTop = TimelineTop + TimelineRows + 1

func cueRow(m *model.Model, c types.Cue, selected bool, inline *InlineEdit, styles *ViewStyles, width int) string {
	arrow := " "
	if selected {
		arrow = "▶"
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(hexOf(render.MarkerColor(c, m.Settings)))).Render("■")

	name := fmt.Sprintf("%-24s", truncate(c.DisplayName(), 24))
	description := truncate(c.Description, max(width-52, 8))
	if inline != nil && inline.CueID == c.ID {
		if inline.Field == FieldDescription {
			description = inline.Input.View()
		} else {
			name = inline.Input.View()
		}
	}

	fade := ""
	if m.Settings.UseFadeTimes && c.Fade > 0 {
		fade = timecode.FormatNumber(c.Fade) + "s"
	}
	text := fmt.Sprintf("%-4d %-10s %s %-6s %s", c.Number, timecode.FormatTimeDetailed(c.Time), name, fade, description)

	style := styles.Normal
	switch {
	case selected:
		style = styles.Selected
	case c.ID == m.View.HighlightedID:
		style = styles.Focused
	}
	return arrow + swatch + style.Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
