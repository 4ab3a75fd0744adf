package timeline

// Drag tracks a marker that is being moved with the pointer
type Drag struct {
	CueID        string
	OriginalTime float64
	StartX       float64
	Moved        bool
}

// Readout is the floating time label shown while dragging or hovering
type Readout struct {
	X    float64
	Text string
}

// View is the transient zoom, pan, highlight and drag state of the
// timeline. It is never persisted.
type View struct {
	Zoom          float64
	Pan           float64
	HighlightedID string
	Drag          *Drag
	Readout       *Readout
}

// NewView returns the fit-to-width view
func NewView() View {
	return View{Zoom: 1}
}

// Mapper snapshots the view for the given media duration and canvas width
func (v View) Mapper(duration, canvasWidth float64) Mapper {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return Mapper{Duration: duration, CanvasWidth: canvasWidth, Zoom: zoom, Pan: v.Pan}
}

// Apply stores zoom and pan from a mapper back into the view
func (v *View) Apply(m Mapper) {
	v.Zoom = m.Zoom
	v.Pan = m.Pan
}

// Dragging reports whether a marker drag is in progress
func (v View) Dragging() bool {
	return v.Drag != nil
}
