// Package render draws the waveform timeline into an RGBA image.
package render

import (
	"image"
	"image/png"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/timeline"
	"github.com/schollz/cuetimeline/internal/types"
	"github.com/schollz/cuetimeline/internal/waveform"
)

// Scene is everything the renderer needs for one frame
type Scene struct {
	Width, Height int
	Mapper        timeline.Mapper
	Envelope      waveform.Envelope
	Cues          []types.Cue
	HighlightedID string
	Playhead      float64
	Settings      types.Settings
	Theme         types.Theme
	Readout       *timeline.Readout
}

// GridStep returns the major and minor grid spacing in seconds for a
// horizontal scale in pixels per second
func GridStep(pixelsPerSecond float64) (major, minor float64) {
	switch {
	case pixelsPerSecond > 300:
		major = 0.5
	case pixelsPerSecond > 150:
		major = 1
	case pixelsPerSecond > 60:
		major = 2
	case pixelsPerSecond > 30:
		major = 5
	case pixelsPerSecond > 15:
		major = 10
	default:
		major = 15
	}
	return major, major / 5
}

// Draw renders the scene. Time dependent layers are skipped when the
// mapper is not valid.
func Draw(s Scene) *image.RGBA {
	w, h := s.Width, s.Height
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	p := PaletteFor(s.Theme)
	fillRect(img, img.Bounds(), p.Background)

	m := s.Mapper
	m.CanvasWidth = float64(w)
	if len(s.Envelope) > 0 && m.Valid() {
		drawBars(img, s.Envelope, m, p)
		hline(img, h/2, 0, w, p.CenterLine)
	}
	if !m.Valid() {
		return img
	}
	drawGrid(img, m, p)
	drawMarkers(img, s, m, p)
	drawPlayhead(img, s.Playhead, m, p)
	if s.Readout != nil {
		drawReadout(img, *s.Readout, p)
	}
	return img
}

// WritePNG encodes the image as PNG
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func drawBars(img *image.RGBA, env waveform.Envelope, m timeline.Mapper, p Palette) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	barWidth := m.TotalWidth() / float64(len(env))
	first := int(math.Max(0, math.Floor(-m.Pan/barWidth)))
	last := int(math.Min(float64(len(env)), float64(first)+math.Ceil(float64(w)/barWidth)+2))

	rows := make([]image.Uniform, h)
	for y := range rows {
		rows[y] = image.Uniform{C: p.BarColor(float64(y) / float64(h))}
	}
	center := float64(h) / 2
	for i := first; i < last; i++ {
		barHeight := math.Max(env[i]*float64(h)*0.95, 6)
		x := float64(i)*barWidth + m.Pan
		if x+barWidth <= 0 || x >= float64(w) {
			continue
		}
		x0 := int(math.Floor(x))
		x1 := int(math.Ceil(x + math.Max(barWidth-0.5, 1.5)))
		y0 := int(math.Max(0, math.Round(center-barHeight/2)))
		y1 := int(math.Min(float64(h), math.Round(center+barHeight/2)))
		for y := y0; y < y1; y++ {
			fillRect(img, image.Rect(x0, y, x1, y+1), &rows[y])
		}
	}
}

func drawGrid(img *image.RGBA, m timeline.Mapper, p Palette) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pps := m.PixelsPerSecond()
	major, minor := GridStep(pps)
	start := math.Max(0, -m.Pan/pps)
	end := math.Min(m.Duration, (float64(w)-m.Pan)/pps)

	for i := math.Floor(start / minor); i*minor <= end; i++ {
		x := m.TimeToX(i * minor)
		if x >= -20 && x <= float64(w)+20 {
			vline(img, x, 0, h, 1, p.MinorGrid)
		}
	}
	for i := math.Floor(start / major); i*major <= end; i++ {
		t := i * major
		x := m.TimeToX(t)
		if x >= -50 && x <= float64(w)+50 {
			vline(img, x, 0, h, 1, p.MajorGrid)
			drawText(img, int(math.Round(x))+5, 15, timecode.FormatTimeDetailed(t), p.Label)
		}
	}
}

func drawMarkers(img *image.RGBA, s Scene, m timeline.Mapper, p Palette) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cues := make([]types.Cue, len(s.Cues))
	copy(cues, s.Cues)
	sort.SliceStable(cues, func(i, j int) bool { return cues[i].Time < cues[j].Time })

	for rank, c := range cues {
		x := m.TimeToX(c.Time)
		if x < -20 || x > float64(w)+20 {
			continue
		}
		highlighted := c.ID != "" && c.ID == s.HighlightedID
		col := MarkerColor(c, s.Settings)
		labelBG := withAlpha(col, 0.9)
		if highlighted {
			col = p.Highlight
			labelBG = withAlpha(col, 1)
		}

		if highlighted {
			vline(img, x, 0, h, 16, p.Glow)
			vline(img, x, 0, h, 6, col)
		} else {
			vline(img, x+2, 2, h, 4, p.Shadow)
			vline(img, x, 0, h, 4, col)
		}

		radius := 8.0
		if highlighted {
			radius = 10
		}
		fillCircle(img, x, 15, radius, col)
		if s.Settings.ShowCueNumbers {
			n := c.Number
			if n <= 0 {
				n = rank + 1
			}
			label := strconv.Itoa(n)
			drawText(img, int(math.Round(x))-textWidth(label)/2, 19, label, p.Text)
		}

		name := c.DisplayName()
		xi := int(math.Round(x))
		fillRect(img, image.Rect(xi+5, 5, xi+5+textWidth(name)+8, 21), labelBG)
		drawText(img, xi+9, 16, name, p.Text)

		if s.Settings.UseFadeTimes && c.Fade > 0 {
			endX := m.TimeToX(c.Time + c.Fade)
			endX = math.Min(math.Max(endX, -20), float64(w)+20)
			base := float64(h - 6)
			apex := float64(h - 40)
			fillTriangle(img, point{x, base}, point{endX, base}, point{x, apex}, withAlpha(col, 0.35))
		}
	}
}

func drawPlayhead(img *image.RGBA, t float64, m timeline.Mapper, p Palette) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	x := m.TimeToX(t)
	if x < -10 || x > float64(w)+10 {
		return
	}
	vline(img, x, 0, h, 3, p.Playhead)
	fillTriangle(img, point{x - 6, 0}, point{x + 6, 0}, point{x, 12}, p.Playhead)
}

func drawReadout(img *image.RGBA, r timeline.Readout, p Palette) {
	h := img.Bounds().Dy()
	tw := textWidth(r.Text)
	x := int(math.Round(r.X)) - tw/2
	y := h - 28
	fillRect(img, image.Rect(x-4, y, x+tw+4, y+17), withAlpha(p.Background, 0.85))
	drawText(img, x, y+13, r.Text, p.Label)
}
