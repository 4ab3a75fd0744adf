package render

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/schollz/cuetimeline/internal/types"
)

// Palette is the set of colors used to draw the timeline in one theme
type Palette struct {
	Background color.RGBA
	Bars       [3]colorful.Color // top, middle, bottom gradient stops
	CenterLine color.RGBA
	MinorGrid  color.RGBA
	MajorGrid  color.RGBA
	Label      color.RGBA
	Playhead   color.RGBA
	Highlight  color.RGBA
	Glow       color.NRGBA
	Shadow     color.NRGBA
	Text       color.RGBA
}

var (
	darkPalette = Palette{
		Background: hexRGBA("#0f172a"),
		Bars:       [3]colorful.Color{mustHex("#60a5fa"), mustHex("#3b82f6"), mustHex("#1d4ed8")},
		CenterLine: hexRGBA("#1f2937"),
		MinorGrid:  hexRGBA("#1f2937"),
		MajorGrid:  hexRGBA("#374151"),
		Label:      hexRGBA("#cbd5e1"),
		Playhead:   hexRGBA("#22d3ee"),
		Highlight:  hexRGBA("#60a5fa"),
		Glow:       color.NRGBA{96, 165, 250, 70},
		Shadow:     color.NRGBA{0, 0, 0, 77},
		Text:       color.RGBA{255, 255, 255, 255},
	}
	lightPalette = Palette{
		Background: hexRGBA("#f8f9fa"),
		Bars:       [3]colorful.Color{mustHex("#2196f3"), mustHex("#1976d2"), mustHex("#0d47a1")},
		CenterLine: hexRGBA("#e0e0e0"),
		MinorGrid:  hexRGBA("#e6e6e6"),
		MajorGrid:  hexRGBA("#cccccc"),
		Label:      hexRGBA("#666666"),
		Playhead:   hexRGBA("#0ea5e9"),
		Highlight:  hexRGBA("#60a5fa"),
		Glow:       color.NRGBA{96, 165, 250, 70},
		Shadow:     color.NRGBA{0, 0, 0, 77},
		Text:       color.RGBA{255, 255, 255, 255},
	}
)

// PaletteFor returns the palette of a theme
func PaletteFor(theme types.Theme) Palette {
	if theme == types.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// BarColor returns the waveform gradient color at fraction f of the
// canvas height, 0 at the top
func (p Palette) BarColor(f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	var c colorful.Color
	if f < 0.5 {
		c = p.Bars[0].BlendRgb(p.Bars[1], f*2)
	} else {
		c = p.Bars[1].BlendRgb(p.Bars[2], (f-0.5)*2)
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

// MarkerColor picks the color a cue is drawn with
func MarkerColor(c types.Cue, s types.Settings) color.RGBA {
	if s.UseMarkerColor && strings.TrimSpace(c.MarkerColor) != "" {
		if col, err := colorful.Hex(strings.TrimSpace(c.MarkerColor)); err == nil {
			r, g, b := col.RGB255()
			return color.RGBA{r, g, b, 255}
		}
	}
	return hexRGBA(types.DefaultMarkerColor)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexRGBA(s string) color.RGBA {
	r, g, b := mustHex(s).RGB255()
	return color.RGBA{r, g, b, 255}
}

func withAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{c.R, c.G, c.B, uint8(a*255 + 0.5)}
}
