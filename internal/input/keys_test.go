package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/cuetimeline/internal/types"
)

func TestSeekKeys(t *testing.T) {
	tests := []struct {
		key  string
		want float64
	}{
		{"left", 49},
		{"right", 51},
		{"shift+left", 45},
		{"shift+right", 55},
		{"alt+left", 49.9},
		{"alt+right", 50.1},
		{",", 49.95},
		{".", 50.05},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := newTestModel(t)
			m.SeekTo(50)
			res := HandleKey(m, tt.key)
			assert.True(t, res.Redraw)
			assert.InDelta(t, tt.want, m.CurrentTime(), 1e-9)
		})
	}

	t.Run("clamped", func(t *testing.T) {
		m, _ := newTestModel(t)
		HandleKey(m, "shift+left")
		assert.Equal(t, 0.0, m.CurrentTime())
		m.SeekTo(99)
		HandleKey(m, "shift+right")
		assert.Equal(t, 100.0, m.CurrentTime())
	})
}

func TestPlayKeys(t *testing.T) {
	m, _ := newTestModel(t)
	HandleKey(m, " ")
	assert.False(t, m.Player.Paused())
	HandleKey(m, "k")
	assert.True(t, m.Player.Paused())
}

func TestZoomKeys(t *testing.T) {
	m, _ := newTestModel(t)
	HandleKey(m, "+")
	assert.InDelta(t, 1.5, m.View.Zoom, 1e-9)
	HandleKey(m, "=")
	assert.InDelta(t, 2.25, m.View.Zoom, 1e-9)
	HandleKey(m, "_")
	assert.InDelta(t, 1.5, m.View.Zoom, 1e-9)
	HandleKey(m, "0")
	assert.Equal(t, 1.0, m.View.Zoom)
	assert.Equal(t, 0.0, m.View.Pan)
}

func TestCueKeys(t *testing.T) {
	m, _ := newTestModel(t)
	first := m.Cues.Add(40, "first", "", 0, "")
	m.Cues.Add(20, "second", "", 0, "")
	m.SeekTo(30)

	HandleKey(m, "]")
	assert.Equal(t, 40.0, m.CurrentTime())
	HandleKey(m, "[")
	assert.Equal(t, 20.0, m.CurrentTime())

	HandleKey(m, "e")
	require.NotNil(t, m.Popup)
	assert.Equal(t, first, m.Popup.CueID)

	res := HandleKey(m, "left")
	assert.False(t, res.Redraw, "keys are ignored while a dialog is open")
	assert.Equal(t, 20.0, m.CurrentTime())
	m.ClosePopup()

	HandleKey(m, "m")
	require.NotNil(t, m.Popup)
	assert.Equal(t, "", m.Popup.CueID)
	assert.Equal(t, 20.0, m.Popup.Time)
	m.ClosePopup()

	m.InputFocused = true
	assert.False(t, HandleKey(m, "]").Redraw)
	m.InputFocused = false

	HandleKey(m, "tab")
	assert.NotEmpty(t, m.View.HighlightedID)
	HandleKey(m, "d")
	assert.Equal(t, 1, m.Cues.Len())
	HandleKey(m, "esc")
	assert.Empty(t, m.View.HighlightedID)
}

func TestThemeKey(t *testing.T) {
	m, _ := newTestModel(t)
	HandleKey(m, "t")
	assert.Equal(t, types.ThemeLight, m.Theme)
}

func TestUnknownKey(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, Result{}, HandleKey(m, "x"))
}
