// Package input routes pointer, wheel, keyboard and resize events to the
// timeline state.
package input

// Kind is the type of an input event
type Kind int

const (
	PointerDown Kind = iota
	PointerMove
	PointerUp
	PointerLeave
	Click
	ContextMenu
	Wheel
	Key
	Resize
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case PointerLeave:
		return "pointerleave"
	case Click:
		return "click"
	case ContextMenu:
		return "contextmenu"
	case Wheel:
		return "wheel"
	case Key:
		return "key"
	case Resize:
		return "resize"
	}
	return "unknown"
}

// Event is one input event. X is in canvas pixels. Key uses the
// bubbletea key names ("left", "shift+left", " ", "k").
type Event struct {
	Kind   Kind
	X      float64
	DeltaY float64
	Key    string
	Width  int
	Height int
}

// Result tells the caller what an event changed
type Result struct {
	// Redraw is set when visible state changed
	Redraw bool
	// Handled is set when the host's default action must be suppressed
	Handled bool
}

// State is the pointer state of the controller
type State int

const (
	Idle State = iota
	PressedOnMarker
	DraggingMarker
	PressedOnBackground
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PressedOnMarker:
		return "pressed-on-marker"
	case DraggingMarker:
		return "dragging-marker"
	case PressedOnBackground:
		return "pressed-on-background"
	case Panning:
		return "panning"
	}
	return "unknown"
}
