package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/storage"
	"github.com/schollz/cuetimeline/internal/types"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

// newTestModel returns a model with 100 s of media on a 1000 px canvas,
// so one second is ten pixels at zoom 1
func newTestModel(t *testing.T) (*model.Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(5000, 0)}
	m := model.NewModel(storage.NewMemory(), media.NewTransport().WithClock(clock.now), types.ThemeDark)
	m.Resize(1000, 100)
	token := m.Loads.Next()
	require.True(t, m.ApplyMedia(model.MediaResult{Token: token, Name: "song.wav", Duration: 100}))
	return m, clock
}

func TestMarkerDrag(t *testing.T) {
	m, _ := newTestModel(t)
	a := m.Cues.Add(10, "a", "", 0, "")
	b := m.Cues.Add(20, "b", "", 0, "")
	c := NewController()

	res := c.Handle(m, Event{Kind: PointerDown, X: 105})
	assert.True(t, res.Redraw)
	assert.Equal(t, PressedOnMarker, c.State())
	assert.Equal(t, a, m.View.HighlightedID)
	require.NotNil(t, m.View.Drag)
	assert.Equal(t, 10.0, m.View.Drag.OriginalTime)

	c.Handle(m, Event{Kind: PointerMove, X: 305})
	assert.Equal(t, DraggingMarker, c.State())
	cue, _ := m.Cues.Get(a)
	assert.InDelta(t, 30.0, cue.Time, 1e-9)
	require.NotNil(t, m.View.Readout)
	assert.Equal(t, "0:30.00", m.View.Readout.Text)
	assert.Equal(t, 305.0, m.View.Readout.X)
	assert.Equal(t, 1, m.Cues.Number(a), "numbers wait for release")

	c.Handle(m, Event{Kind: PointerMove, X: 2000})
	cue, _ = m.Cues.Get(a)
	assert.Equal(t, 100.0, cue.Time, "live time is clamped to the media")
	assert.Equal(t, 940.0, m.View.Readout.X)

	c.Handle(m, Event{Kind: PointerMove, X: 305})
	res = c.Handle(m, Event{Kind: PointerUp, X: 305})
	assert.True(t, res.Redraw)
	assert.Equal(t, Idle, c.State())
	assert.Nil(t, m.View.Drag)
	assert.Nil(t, m.View.Readout)
	assert.Equal(t, 2, m.Cues.Number(a))
	assert.Equal(t, 1, m.Cues.Number(b))

	c.Handle(m, Event{Kind: Click, X: 305})
	assert.Equal(t, 0.0, m.CurrentTime(), "click after a drag does not seek")
}

func TestPressWithoutMove(t *testing.T) {
	m, _ := newTestModel(t)
	a := m.Cues.Add(10, "a", "", 0, "")
	c := NewController()

	c.Handle(m, Event{Kind: PointerDown, X: 100})
	c.Handle(m, Event{Kind: PointerMove, X: 100})
	assert.Equal(t, PressedOnMarker, c.State())
	c.Handle(m, Event{Kind: PointerUp, X: 100})
	cue, _ := m.Cues.Get(a)
	assert.Equal(t, 10.0, cue.Time)

	c.Handle(m, Event{Kind: Click, X: 500})
	assert.Equal(t, 50.0, m.CurrentTime())
}

func TestPanning(t *testing.T) {
	m, _ := newTestModel(t)
	m.View.Zoom = 2
	c := NewController()

	c.Handle(m, Event{Kind: PointerDown, X: 500})
	assert.Equal(t, PressedOnBackground, c.State())
	c.Handle(m, Event{Kind: PointerMove, X: 300})
	assert.Equal(t, Panning, c.State())
	assert.Equal(t, -200.0, m.View.Pan)

	c.Handle(m, Event{Kind: PointerMove, X: 900})
	assert.Equal(t, 0.0, m.View.Pan, "pan is clamped")

	c.Handle(m, Event{Kind: PointerMove, X: -2000})
	assert.Equal(t, -1000.0, m.View.Pan)

	c.Handle(m, Event{Kind: PointerUp, X: -2000})
	c.Handle(m, Event{Kind: Click, X: -2000})
	assert.Equal(t, 0.0, m.CurrentTime())
}

func TestClickSeeksClamped(t *testing.T) {
	m, _ := newTestModel(t)
	m.View.Zoom = 0.5
	c := NewController()
	c.Handle(m, Event{Kind: Click, X: 900})
	assert.Equal(t, 100.0, m.CurrentTime())
}

func TestContextMenuQuickAdd(t *testing.T) {
	m, clock := newTestModel(t)
	require.NoError(t, m.Player.Play())
	clock.t = clock.t.Add(time.Second)
	c := NewController()

	res := c.Handle(m, Event{Kind: ContextMenu, X: 250})
	assert.True(t, res.Handled)
	require.NotNil(t, m.Popup)
	assert.Equal(t, 25.0, m.Popup.Time)
	assert.True(t, m.Player.Paused())

	_, err := m.SavePopup(model.CueFields{Name: "Here"})
	require.NoError(t, err)
	assert.False(t, m.Player.Paused())
	first, _ := m.Cues.First()
	assert.Equal(t, 25.0, first.Time)
}

func TestWheel(t *testing.T) {
	m, _ := newTestModel(t)
	c := NewController()

	res := c.Handle(m, Event{Kind: Wheel, X: 100, DeltaY: -1})
	assert.True(t, res.Handled)
	assert.True(t, res.Redraw)
	assert.InDelta(t, 1.1, m.View.Zoom, 1e-9)
	assert.InDelta(t, -10.0, m.View.Pan, 1e-9)

	c.Handle(m, Event{Kind: Wheel, X: 100, DeltaY: 3})
	assert.InDelta(t, 0.99, m.View.Zoom, 1e-9)
	assert.Equal(t, 0.0, m.View.Pan)
}

func TestHoverReadout(t *testing.T) {
	m, _ := newTestModel(t)
	c := NewController()

	c.Handle(m, Event{Kind: PointerMove, X: 30})
	require.NotNil(t, m.View.Readout)
	assert.Equal(t, "0:03.00", m.View.Readout.Text)
	assert.Equal(t, ReadoutMargin, m.View.Readout.X)

	c.Handle(m, Event{Kind: PointerLeave})
	assert.Nil(t, m.View.Readout)
}

func TestNoMediaIgnoresPointer(t *testing.T) {
	m := model.NewModel(storage.NewMemory(), nil, types.ThemeDark)
	c := NewController()
	c.Handle(m, Event{Kind: Resize, Width: 800, Height: 50})
	assert.Equal(t, 800, m.CanvasWidth)

	res := c.Handle(m, Event{Kind: PointerDown, X: 10})
	assert.False(t, res.Redraw)
	assert.Equal(t, Idle, c.State())

	res = c.Handle(m, Event{Kind: Wheel, X: 10, DeltaY: 1})
	assert.True(t, res.Handled)
	assert.Equal(t, 1.0, m.View.Zoom)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "wheel", Wheel.String())
	assert.Equal(t, "panning", Panning.String())
}
