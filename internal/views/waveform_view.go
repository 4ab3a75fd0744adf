package views

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/render"
	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/timeline"
	"github.com/schollz/cuetimeline/internal/waveform"
)

// CellWidth is the number of timeline pixels covered by one terminal column
const CellWidth = 8

// segmentsPerChar is the vertical resolution of one character cell
const segmentsPerChar = 8

// rows used by the timeline around the waveform: labels, ruler ticks,
// ruler labels and the readout
const timelineChromeRows = 4

// columnsKey identifies the window the WAV columns were computed for
type columnsKey struct {
	path       string
	start, end float64
	width      int
}

// columnSource produces min/max columns for a window of one media file
type columnSource interface {
	Columns(start, end float64, width int) ([]waveform.Column, error)
}

// Timeline draws the cue timeline into terminal cells. WAV media is drawn
// from min/max columns of the file itself: the file is read once per path
// and the last window is cached. Everything else uses the decoded envelope.
type Timeline struct {
	key    columnsKey
	cols   []waveform.Column
	failed map[string]bool

	srcPath string
	src     columnSource

	// loadSource is swapped out in tests
	loadSource func(path string) (columnSource, error)
}

// NewTimeline returns an empty timeline renderer
func NewTimeline() *Timeline {
	return &Timeline{
		failed:     make(map[string]bool),
		loadSource: loadWav,
	}
}

func loadWav(path string) (columnSource, error) {
	f, err := waveform.Load(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// cell is one character of the timeline grid
type cell struct {
	ch   string
	fg   string
	bold bool
}

type grid [][]cell

func newGrid(width, height int) grid {
	g := make(grid, height)
	for y := range g {
		g[y] = make([]cell, width)
		for x := range g[y] {
			g[y][x] = cell{ch: " "}
		}
	}
	return g
}

func (g grid) set(x, y int, ch, fg string, bold bool) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return
	}
	g[y][x] = cell{ch: ch, fg: fg, bold: bold}
}

func (g grid) text(x, y int, s, fg string, bold bool) {
	for _, r := range s {
		g.set(x, y, string(r), fg, bold)
		x++
	}
}

func (g grid) empty(x, y int) bool {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return false
	}
	return g[y][x].ch == " "
}

// String renders the grid, grouping runs of equally styled cells
func (g grid) String() string {
	var sb strings.Builder
	for y, row := range g {
		var run strings.Builder
		cur := cell{}
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle().Bold(cur.bold)
			if cur.fg != "" {
				st = st.Foreground(lipgloss.Color(cur.fg))
			}
			sb.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for x, c := range row {
			if x == 0 || c.fg != cur.fg || c.bold != cur.bold {
				flush()
				cur = c
			}
			run.WriteString(c.ch)
		}
		flush()
		if y < len(g)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Render draws the timeline of m into width columns and height rows
func (tl *Timeline) Render(m *model.Model, width, height int) string {
	if width < 1 {
		width = 1
	}
	if height < timelineChromeRows+2 {
		height = timelineChromeRows + 2
	}
	g := newGrid(width, height)
	palette := render.PaletteFor(m.Theme)

	mp := m.View.Mapper(m.Duration(), float64(width*CellWidth))
	if !mp.Valid() {
		msg := "Open an audio or video file to start"
		g.text((width-len(msg))/2, height/2, msg, hexOf(palette.Label), false)
		return g.String()
	}

	waveRows := height - timelineChromeRows
	tl.drawWaveform(g, m, mp, 1, waveRows, palette)
	drawRuler(g, mp, 1+waveRows, palette)
	drawCueMarkers(g, m, mp, 0, waveRows, palette)
	drawPlayheadColumn(g, m.CurrentTime(), mp, waveRows, palette)
	if r := m.View.Readout; r != nil {
		drawReadoutText(g, *r, height-1, palette)
	}
	return g.String()
}

// column converts a timeline pixel to a terminal column
func column(x float64) int {
	return int(math.Floor(x / CellWidth))
}

func (tl *Timeline) drawWaveform(g grid, m *model.Model, mp timeline.Mapper, top, rows int, p render.Palette) {
	width := len(g[0])
	start := math.Max(0, mp.XToTime(0))
	end := math.Min(mp.Duration, mp.XToTime(mp.CanvasWidth))
	x0 := column(mp.TimeToX(start))
	x1 := int(math.Ceil(mp.TimeToX(end) / CellWidth))
	if x1 > width {
		x1 = width
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 <= x0 {
		return
	}

	cols := tl.columns(m, start, end, x1-x0)
	if cols == nil && len(m.Envelope) == 0 {
		// duration only: draw the center line
		for x := x0; x < x1; x++ {
			g.set(x, top+rows/2, "─", hexOf(p.CenterLine), false)
		}
		return
	}

	virtual := rows * segmentsPerChar
	center := float64(virtual) / 2
	for x := x0; x < x1; x++ {
		var lo, hi float64
		if cols != nil {
			i := x - x0
			if i >= len(cols) {
				continue
			}
			lo, hi = cols[i].Min, cols[i].Max
		} else {
			t0 := mp.XToTime(float64(x * CellWidth))
			t1 := mp.XToTime(float64((x + 1) * CellWidth))
			amp := m.Envelope.Range(t0, t1, mp.Duration) * 0.95
			lo, hi = -amp, amp
		}
		segTop := int(math.Round(center - hi*center))
		segBot := int(math.Round(center - lo*center))
		if segBot-segTop < 1 {
			segTop = int(center) - 1
			segBot = int(center) + 1
		}
		for y := 0; y < rows; y++ {
			ch := blockChar(segTop, segBot, y*segmentsPerChar)
			if ch == " " {
				continue
			}
			fg := hexOf(p.BarColor(float64(y) / float64(rows)))
			g.set(x, top+y, ch, fg, false)
		}
	}
}

// columns returns WAV min/max columns for the window, or nil when the
// envelope should be used
func (tl *Timeline) columns(m *model.Model, start, end float64, width int) []waveform.Column {
	if m.MediaPath == "" || media.Ext(m.MediaPath) != "wav" || tl.failed[m.MediaPath] {
		return nil
	}
	key := columnsKey{path: m.MediaPath, start: start, end: end, width: width}
	if key == tl.key {
		return tl.cols
	}
	if tl.srcPath != m.MediaPath {
		src, err := tl.loadSource(m.MediaPath)
		if err != nil {
			log.Printf("Error loading waveform for %s: %v", m.MediaPath, err)
			tl.failed[m.MediaPath] = true
			return nil
		}
		tl.srcPath, tl.src = m.MediaPath, src
	}
	cols, err := tl.src.Columns(start, end, width)
	if err != nil {
		log.Printf("Error generating waveform columns for %s: %v", m.MediaPath, err)
		tl.failed[m.MediaPath] = true
		return nil
	}
	tl.key = key
	tl.cols = cols
	return cols
}

// blockChar returns the character for the cell starting at segment base
// when segments [top, bot) are filled
func blockChar(top, bot, base int) string {
	lo := max(top, base)
	hi := min(bot, base+segmentsPerChar)
	filled := hi - lo
	switch {
	case filled <= 0:
		return " "
	case filled >= segmentsPerChar:
		return "█"
	case hi == base+segmentsPerChar:
		// grows up from the bottom of the cell
		return lowerBlock(filled)
	default:
		return upperBlock(filled)
	}
}

func lowerBlock(eighths int) string {
	switch eighths {
	case 1:
		return "▁"
	case 2:
		return "▂"
	case 3:
		return "▃"
	case 4:
		return "▄"
	case 5:
		return "▅"
	case 6:
		return "▆"
	case 7:
		return "▇"
	default:
		return "█"
	}
}

// upperBlock hangs from the top of the cell. Only the eighth and half
// blocks are widely supported so the rest round to those.
func upperBlock(eighths int) string {
	switch {
	case eighths <= 2:
		return "▔"
	case eighths <= 6:
		return "▀"
	default:
		return "█"
	}
}

// drawRuler writes the tick row at y and the label row below it
func drawRuler(g grid, mp timeline.Mapper, y int, p render.Palette) {
	width := len(g[0])
	pps := mp.PixelsPerSecond()
	major, minor := render.GridStep(pps)
	start := math.Max(0, mp.XToTime(0))
	end := math.Min(mp.Duration, mp.XToTime(mp.CanvasWidth))

	for i := math.Floor(start / minor); i*minor <= end; i++ {
		x := column(mp.TimeToX(i * minor))
		if x >= 0 && x < width {
			g.set(x, y, "·", hexOf(p.MinorGrid), false)
		}
	}
	nextFree := 0
	for i := math.Floor(start / major); i*major <= end; i++ {
		t := i * major
		x := column(mp.TimeToX(t))
		if x < 0 || x >= width {
			continue
		}
		g.set(x, y, "|", hexOf(p.MajorGrid), false)
		if x < nextFree {
			continue
		}
		label := timecode.FormatTimeDetailed(t)
		g.text(x, y+1, label, hexOf(p.Label), false)
		nextFree = x + len(label) + 1
	}
}

// drawCueMarkers draws every visible cue as a column through the waveform
// with its number and name on the label row
func drawCueMarkers(g grid, m *model.Model, mp timeline.Mapper, labelRow, waveRows int, p render.Palette) {
	width := len(g[0])
	for rank, c := range m.Cues.Sorted() {
		x := column(mp.TimeToX(c.Time))
		if x < 0 || x >= width {
			continue
		}
		highlighted := c.ID == m.View.HighlightedID
		fg := hexOf(render.MarkerColor(c, m.Settings))
		line := "│"
		if highlighted {
			fg = hexOf(p.Highlight)
			line = "┃"
		}

		if m.Settings.UseFadeTimes && c.Fade > 0 {
			fadeEnd := column(mp.TimeToX(c.Time + c.Fade))
			for fx := x + 1; fx <= fadeEnd && fx < width; fx++ {
				if g.empty(fx, waveRows) {
					g.set(fx, waveRows, "╌", fg, false)
				}
			}
		}
		for y := 1; y <= waveRows; y++ {
			if g.empty(x, y) {
				g.set(x, y, line, fg, highlighted)
			} else {
				g[y][x].fg = fg
			}
		}

		label := c.DisplayName()
		if m.Settings.ShowCueNumbers {
			n := c.Number
			if n <= 0 {
				n = rank + 1
			}
			label = strconv.Itoa(n) + " " + label
		}
		g.set(x, labelRow, "▼", fg, highlighted)
		g.text(x+1, labelRow, label, fg, highlighted)
	}
}

func drawPlayheadColumn(g grid, t float64, mp timeline.Mapper, waveRows int, p render.Palette) {
	x := column(mp.TimeToX(t))
	if x < 0 || x >= len(g[0]) {
		return
	}
	fg := hexOf(p.Playhead)
	for y := 1; y <= waveRows; y++ {
		g.set(x, y, "┃", fg, true)
	}
	if g.empty(x, 0) {
		g.set(x, 0, "▽", fg, true)
	}
}

func drawReadoutText(g grid, r timeline.Readout, y int, p render.Palette) {
	width := len(g[0])
	x := column(r.X) - len(r.Text)/2
	x = max(0, min(x, width-len(r.Text)))
	g.text(x, y, r.Text, hexOf(p.Label), true)
}

func hexOf(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
