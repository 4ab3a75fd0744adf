// Package views renders the editor screens with lipgloss
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/render"
	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/types"
)

// Common styles used across all views
type ViewStyles struct {
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Label     lipgloss.Style
	Container lipgloss.Style
	Playback  lipgloss.Style
	Badge     lipgloss.Style
	Error     lipgloss.Style
	Popup     lipgloss.Style
	Focused   lipgloss.Style
}

// getCommonStyles returns the style definitions for a theme
func getCommonStyles(theme types.Theme) *ViewStyles {
	p := render.PaletteFor(theme)
	normal := "15"
	selectedFG := "0"
	if theme == types.ThemeLight {
		normal = "0"
		selectedFG = "15"
	}
	return &ViewStyles{
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color(hexOf(p.Highlight))).Foreground(lipgloss.Color(selectedFG)),
		Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color(normal)),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Container: lipgloss.NewStyle().Padding(1, 2),
		Playback:  lipgloss.NewStyle().Foreground(lipgloss.Color(hexOf(p.Playhead))),
		Badge:     lipgloss.NewStyle().Background(lipgloss.Color(p.Bars[1].Clamped().Hex())).Foreground(lipgloss.Color("15")).Padding(0, 1),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Popup:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(hexOf(p.Highlight))).Padding(0, 1),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color(hexOf(p.Highlight))).Bold(true),
	}
}

// Screen is the terminal state the editor renders into
type Screen struct {
	Width  int
	Height int
	// Selected is the cue list cursor
	Selected int
	// Inline is the inline rename or description field, nil when closed
	Inline *InlineEdit
	Form   *Form
}

// ContainerPadding is the horizontal padding of the editor container
const ContainerPadding = 4

// TimelineRows is the height of the timeline, including its chrome
const TimelineRows = 12

// TimelineTop is the screen row of the first timeline row: container
// padding then the header line
const TimelineTop = 2

// TimelineLeft is the screen column of the first timeline column
const TimelineLeft = 2

// TimelineWidth returns the timeline width in columns for a terminal width
func TimelineWidth(termWidth int) int {
	return max(termWidth-ContainerPadding, 10)
}

// RenderEditor renders the whole editor screen
func RenderEditor(m *model.Model, tl *Timeline, s Screen) string {
	styles := getCommonStyles(m.Theme)
	width := TimelineWidth(s.Width)

	var content strings.Builder
	content.WriteString(RenderHeader(m, width))
	content.WriteString(tl.Render(m, width, TimelineRows))
	content.WriteString("\n")
	lines := TimelineRows + 2

	if s.Form != nil {
		form := s.Form.View(styles)
		content.WriteString(form)
		content.WriteString("\n")
		lines += lipgloss.Height(form)
	} else {
		list := RenderCueList(m, s, ListRows(s.Height), width)
		content.WriteString(list)
		content.WriteString("\n")
		lines += lipgloss.Height(list)
	}

	content.WriteString(RenderFooter(m, s, lines, helpText(m, s)))
	return styles.Container.Render(content.String())
}

// RenderHeader renders the project badge and base name on the left and the
// media position on the right
func RenderHeader(m *model.Model, width int) string {
	styles := getCommonStyles(m.Theme)
	leftContent := styles.Badge.Render(fmt.Sprintf("ID %d", m.Settings.ExportID())) + " " + styles.Normal.Render(m.BaseName())

	rightContent := styles.Label.Render("no media")
	if m.HasMedia() {
		state := "▶"
		if m.Player.Paused() {
			state = "❚❚"
		}
		rightContent = styles.Playback.Render(fmt.Sprintf("%s %s / %s",
			state, timecode.FormatTimeDetailed(m.CurrentTime()), timecode.FormatTimeDetailed(m.Duration())))
	}

	paddingSize := width - lipgloss.Width(leftContent) - lipgloss.Width(rightContent)
	if paddingSize < 1 {
		paddingSize = 1
	}
	return leftContent + strings.Repeat(" ", paddingSize) + rightContent + "\n"
}

// RenderFooter fills the remaining height and adds the status and help
// lines
func RenderFooter(m *model.Model, s Screen, contentLines int, helpText string) string {
	styles := getCommonStyles(m.Theme)
	var content strings.Builder

	footerLines := 2
	maxContentLines := s.Height - 4 - footerLines
	if s.Height > 0 && contentLines < maxContentLines {
		for i := contentLines; i < maxContentLines; i++ {
			content.WriteString("\n")
		}
	}

	content.WriteString(statusLine(m, styles))
	content.WriteString("\n")
	content.WriteString(styles.Label.Render(helpText))
	return content.String()
}

func statusLine(m *model.Model, styles *ViewStyles) string {
	parts := []string{fmt.Sprintf("Zoom %d%%", int(m.View.Zoom*100+0.5))}
	parts = append(parts, fmt.Sprintf("%d cues", m.Cues.Len()))
	if r := m.View.Readout; r != nil {
		parts = append(parts, "@ "+r.Text)
	}
	line := styles.Label.Render(strings.Join(parts, " | "))
	if m.Status != "" {
		line += "  " + styles.Normal.Render(m.Status)
	}
	return line
}

func helpText(m *model.Model, s Screen) string {
	switch {
	case s.Form != nil:
		return "tab next field | enter save | esc cancel"
	case s.Inline != nil:
		return "enter save | esc cancel"
	case !m.HasMedia():
		return "o open | q quit"
	default:
		return "space play | ←→ seek | +/- zoom | m add | [ ] jump | e edit | n rename | x export | t theme | q quit"
	}
}
