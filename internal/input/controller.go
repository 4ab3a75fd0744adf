package input

import (
	"math"

	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/timeline"
)

// ReadoutMargin keeps the time readout away from the canvas edges
const ReadoutMargin = 60.0

// Controller is the pointer state machine of the timeline
type Controller struct {
	state    State
	startX   float64
	startPan float64
	// dragged suppresses the click that follows a drag release
	dragged bool
}

// NewController returns an idle controller
func NewController() *Controller {
	return &Controller{}
}

// State returns the current pointer state
func (c *Controller) State() State {
	return c.state
}

// Handle applies one event to the model
func (c *Controller) Handle(m *model.Model, ev Event) Result {
	switch ev.Kind {
	case Resize:
		m.Resize(ev.Width, ev.Height)
		return Result{Redraw: true}
	case Key:
		return HandleKey(m, ev.Key)
	}

	mp := m.Mapper()
	if !mp.Valid() {
		if ev.Kind == Wheel || ev.Kind == ContextMenu {
			return Result{Handled: true}
		}
		return Result{}
	}

	switch ev.Kind {
	case PointerDown:
		return c.pointerDown(m, mp, ev.X)
	case PointerMove:
		return c.pointerMove(m, mp, ev.X)
	case PointerUp:
		return c.pointerUp(m)
	case PointerLeave:
		m.View.Readout = nil
		return Result{Redraw: true}
	case Click:
		if c.dragged {
			c.dragged = false
			return Result{}
		}
		m.SeekTo(mp.ClampTime(mp.XToTime(ev.X)))
		return Result{Redraw: true}
	case ContextMenu:
		m.OpenQuickAdd(mp.ClampTime(mp.XToTime(ev.X)))
		return Result{Redraw: true, Handled: true}
	case Wheel:
		m.ApplyMapper(mp.Wheel(ev.DeltaY, ev.X))
		return Result{Redraw: true, Handled: true}
	}
	return Result{}
}

func (c *Controller) pointerDown(m *model.Model, mp timeline.Mapper, x float64) Result {
	c.startX = x
	c.dragged = false
	if cue, ok := m.Cues.AtPixel(x, mp); ok {
		c.state = PressedOnMarker
		m.View.Drag = &timeline.Drag{CueID: cue.ID, OriginalTime: cue.Time, StartX: x}
		m.View.HighlightedID = cue.ID
		return Result{Redraw: true}
	}
	c.state = PressedOnBackground
	c.startPan = mp.Pan
	return Result{}
}

func (c *Controller) pointerMove(m *model.Model, mp timeline.Mapper, x float64) Result {
	dx := x - c.startX
	switch c.state {
	case PressedOnMarker, DraggingMarker:
		if dx == 0 && c.state == PressedOnMarker {
			return Result{}
		}
		c.state = DraggingMarker
		d := m.View.Drag
		d.Moved = true
		live := mp.ClampTime(d.OriginalTime + dx/mp.TotalWidth()*mp.Duration)
		m.Cues.SetLiveTime(d.CueID, live)
		m.View.Readout = readout(x, live, mp.CanvasWidth)
		return Result{Redraw: true}
	case PressedOnBackground, Panning:
		if dx == 0 && c.state == PressedOnBackground {
			return Result{}
		}
		c.state = Panning
		mp.Pan = c.startPan
		m.ApplyMapper(mp.PanBy(dx))
		return Result{Redraw: true}
	}

	t := mp.XToTime(x)
	if t >= 0 && t <= mp.Duration {
		m.View.Readout = readout(x, t, mp.CanvasWidth)
	} else {
		m.View.Readout = nil
	}
	return Result{Redraw: true}
}

func (c *Controller) pointerUp(m *model.Model) Result {
	prev := c.state
	c.state = Idle
	c.dragged = prev == DraggingMarker || prev == Panning
	if d := m.View.Drag; d != nil {
		m.Cues.Commit(d.CueID, m.Duration())
		m.View.Drag = nil
	}
	m.View.Readout = nil
	return Result{Redraw: prev != Idle}
}

func readout(x, t, width float64) *timeline.Readout {
	lo, hi := ReadoutMargin, width-ReadoutMargin
	if hi < lo {
		lo, hi = width/2, width/2
	}
	return &timeline.Readout{X: clamp(x, lo, hi), Text: timecode.FormatTimeDetailed(t)}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
