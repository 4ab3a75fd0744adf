// Package timeline holds the time/pixel mapping and the zoom and pan
// state of the waveform timeline.
package timeline

import "math"

const (
	MinZoom = 0.1
	MaxZoom = 10.0

	// WheelZoomIn and WheelZoomOut are applied per wheel notch
	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9

	// StepZoom is applied by the keyboard and toolbar zoom commands
	StepZoom = 1.5

	// PlayheadMargin is the distance the playhead is kept from either edge
	// while following playback
	PlayheadMargin = 60.0
)

// Mapper converts between media time and canvas x for one snapshot of
// duration, canvas width, zoom and pan.
type Mapper struct {
	Duration    float64
	CanvasWidth float64
	Zoom        float64
	Pan         float64
}

// Valid reports whether time-dependent drawing and interaction can run
func (m Mapper) Valid() bool {
	return m.Duration > 0 && m.CanvasWidth > 0 && m.Zoom > 0 &&
		!math.IsNaN(m.Duration) && !math.IsInf(m.Duration, 0)
}

// TotalWidth is the width in pixels of the whole media at the current zoom
func (m Mapper) TotalWidth() float64 {
	return m.CanvasWidth * m.Zoom
}

// PixelsPerSecond is the horizontal scale at the current zoom
func (m Mapper) PixelsPerSecond() float64 {
	if !m.Valid() {
		return 0
	}
	return m.TotalWidth() / m.Duration
}

// TimeToX maps seconds to canvas x
func (m Mapper) TimeToX(t float64) float64 {
	if !m.Valid() {
		return 0
	}
	return t/m.Duration*m.TotalWidth() + m.Pan
}

// XToTime maps canvas x to seconds. The result is not clamped.
func (m Mapper) XToTime(x float64) float64 {
	if !m.Valid() {
		return 0
	}
	return (x - m.Pan) / m.TotalWidth() * m.Duration
}

// ClampTime limits t to [0, duration]
func (m Mapper) ClampTime(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > m.Duration {
		return m.Duration
	}
	return t
}

// PanBounds returns the allowed pan range for the current zoom
func (m Mapper) PanBounds() (lo, hi float64) {
	total := m.TotalWidth()
	if total > m.CanvasWidth {
		return -(total - m.CanvasWidth), 0
	}
	return 0, 0
}

// ClampPan returns the mapper with pan constrained to its bounds
func (m Mapper) ClampPan() Mapper {
	lo, hi := m.PanBounds()
	if math.IsNaN(m.Pan) {
		m.Pan = 0
	}
	m.Pan = math.Max(lo, math.Min(hi, m.Pan))
	return m
}

// ZoomAt multiplies the zoom by factor keeping the time under pointerX
// fixed, then clamps zoom and pan.
func (m Mapper) ZoomAt(factor, pointerX float64) Mapper {
	oldZoom := m.Zoom
	if oldZoom <= 0 {
		oldZoom = 1
	}
	newZoom := clampZoom(oldZoom * factor)
	m.Zoom = newZoom
	m.Pan = pointerX - (pointerX-m.Pan)*(newZoom/oldZoom)
	return m.ClampPan()
}

// ZoomIn zooms by one step around the canvas center
func (m Mapper) ZoomIn() Mapper {
	return m.ZoomAt(StepZoom, m.CanvasWidth/2)
}

// ZoomOut zooms out by one step around the canvas center
func (m Mapper) ZoomOut() Mapper {
	return m.ZoomAt(1/StepZoom, m.CanvasWidth/2)
}

// Wheel applies one wheel notch at pointerX. Positive deltaY zooms out.
func (m Mapper) Wheel(deltaY, pointerX float64) Mapper {
	factor := WheelZoomIn
	if deltaY > 0 {
		factor = WheelZoomOut
	}
	return m.ZoomAt(factor, pointerX)
}

// Reset returns to the fit-to-width view
func (m Mapper) Reset() Mapper {
	m.Zoom = 1
	m.Pan = 0
	return m
}

// PanBy shifts the view by dx pixels
func (m Mapper) PanBy(dx float64) Mapper {
	m.Pan += dx
	return m.ClampPan()
}

// KeepInView adjusts pan so that time t lies at least PlayheadMargin
// pixels inside the canvas. Nothing changes when the whole media fits.
func (m Mapper) KeepInView(t float64) Mapper {
	if !m.Valid() || m.TotalWidth() <= m.CanvasWidth {
		return m
	}
	x := m.TimeToX(t)
	switch {
	case x < PlayheadMargin:
		m.Pan += PlayheadMargin - x
	case x > m.CanvasWidth-PlayheadMargin:
		m.Pan -= x - (m.CanvasWidth - PlayheadMargin)
	default:
		return m
	}
	return m.ClampPan()
}

// Visible reports whether x lies within the canvas extended by margin
func (m Mapper) Visible(x, margin float64) bool {
	return x >= -margin && x <= m.CanvasWidth+margin
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
