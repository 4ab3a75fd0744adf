package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), &image.Uniform{c}, image.Point{}, draw.Over)
}

// vline draws a vertical stroke of the given width centered on x
func vline(dst draw.Image, x float64, y0, y1, width int, c color.Color) {
	left := int(math.Round(x - float64(width)/2))
	fillRect(dst, image.Rect(left, y0, left+width, y1), c)
}

func hline(dst draw.Image, y, x0, x1 int, c color.Color) {
	fillRect(dst, image.Rect(x0, y, x1, y+1), c)
}

func fillCircle(dst draw.Image, cx, cy, radius float64, c color.Color) {
	b := image.Rect(int(math.Floor(cx-radius)), int(math.Floor(cy-radius)),
		int(math.Ceil(cx+radius))+1, int(math.Ceil(cy+radius))+1).Intersect(dst.Bounds())
	src := &image.Uniform{c}
	r2 := radius * radius
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				draw.Draw(dst, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
			}
		}
	}
}

type point struct{ x, y float64 }

// fillTriangle fills every pixel whose center lies inside the triangle
func fillTriangle(dst draw.Image, a, b, c point, col color.Color) {
	minX := math.Floor(math.Min(a.x, math.Min(b.x, c.x)))
	maxX := math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))
	minY := math.Floor(math.Min(a.y, math.Min(b.y, c.y)))
	maxY := math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))
	box := image.Rect(int(minX), int(minY), int(maxX)+1, int(maxY)+1).Intersect(dst.Bounds())
	area := edge(a, b, c)
	if area == 0 {
		return
	}
	src := &image.Uniform{col}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			p := point{float64(x) + 0.5, float64(y) + 0.5}
			w0, w1, w2 := edge(b, c, p), edge(c, a, p), edge(a, b, p)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				draw.Draw(dst, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
			}
		}
	}
}

func edge(a, b, p point) float64 {
	return (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
}

// textWidth returns the advance of s in pixels
func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// drawText draws s with its baseline at y
func drawText(dst draw.Image, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
