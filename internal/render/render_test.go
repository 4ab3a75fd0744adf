package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/cuetimeline/internal/timeline"
	"github.com/schollz/cuetimeline/internal/types"
	"github.com/schollz/cuetimeline/internal/waveform"
)

func baseScene() Scene {
	return Scene{
		Width:    400,
		Height:   100,
		Mapper:   timeline.Mapper{Duration: 10, Zoom: 1},
		Settings: types.DefaultSettings(),
		Theme:    types.ThemeDark,
	}
}

func rgbaAt(t *testing.T, s Scene, x, y int) color.RGBA {
	t.Helper()
	img := Draw(s)
	return img.RGBAAt(x, y)
}

func TestGridStep(t *testing.T) {
	tests := []struct {
		pps   float64
		major float64
	}{
		{301, 0.5},
		{300, 1},
		{151, 1},
		{150, 2},
		{61, 2},
		{60, 5},
		{31, 5},
		{30, 10},
		{16, 10},
		{15, 15},
		{1, 15},
	}
	for _, tt := range tests {
		major, minor := GridStep(tt.pps)
		assert.Equal(t, tt.major, major, "pps %v", tt.pps)
		assert.Equal(t, tt.major/5, minor)
	}
}

func TestDrawLayers(t *testing.T) {
	t.Run("background", func(t *testing.T) {
		s := baseScene()
		assert.Equal(t, darkPalette.Background, rgbaAt(t, s, 30, 60))
		s.Theme = types.ThemeLight
		assert.Equal(t, lightPalette.Background, rgbaAt(t, s, 30, 60))
	})

	t.Run("invalid mapper draws background only", func(t *testing.T) {
		s := baseScene()
		s.Mapper.Duration = 0
		s.Cues = []types.Cue{{ID: "a", Time: 0}}
		s.Playhead = 0
		img := Draw(s)
		for x := 0; x < 400; x += 7 {
			assert.Equal(t, darkPalette.Background, img.RGBAAt(x, 60))
		}
	})

	t.Run("empty canvas", func(t *testing.T) {
		s := baseScene()
		s.Width = 0
		assert.True(t, Draw(s).Bounds().Empty())
	})

	t.Run("playhead", func(t *testing.T) {
		s := baseScene()
		s.Playhead = 2.5
		assert.Equal(t, darkPalette.Playhead, rgbaAt(t, s, 100, 60))
	})

	t.Run("marker default color", func(t *testing.T) {
		s := baseScene()
		s.Cues = []types.Cue{{ID: "a", Time: 7.5, Name: "Intro", Number: 1}}
		assert.Equal(t, hexRGBA(types.DefaultMarkerColor), rgbaAt(t, s, 299, 60))
	})

	t.Run("marker color setting", func(t *testing.T) {
		s := baseScene()
		s.Cues = []types.Cue{{ID: "a", Time: 7.5, MarkerColor: "#44ff44"}}
		assert.Equal(t, hexRGBA("#44ff44"), rgbaAt(t, s, 299, 60))
		s.Settings.UseMarkerColor = false
		assert.Equal(t, hexRGBA(types.DefaultMarkerColor), rgbaAt(t, s, 299, 60))
	})

	t.Run("highlighted marker", func(t *testing.T) {
		s := baseScene()
		s.Cues = []types.Cue{{ID: "a", Time: 7.5}}
		s.HighlightedID = "a"
		assert.Equal(t, darkPalette.Highlight, rgbaAt(t, s, 300, 60))
	})

	t.Run("fade triangle", func(t *testing.T) {
		s := baseScene()
		s.Cues = []types.Cue{{ID: "a", Time: 2, Fade: 2}}
		got := rgbaAt(t, s, 100, 90)
		assert.NotEqual(t, darkPalette.Background, got)
		assert.Greater(t, got.R, got.B)

		s.Settings.UseFadeTimes = false
		assert.Equal(t, darkPalette.Background, rgbaAt(t, s, 100, 90))
	})

	t.Run("waveform bars", func(t *testing.T) {
		s := baseScene()
		env := make(waveform.Envelope, types.EnvelopeSize)
		for i := range env {
			env[i] = 1
		}
		s.Envelope = env
		assert.Equal(t, darkPalette.BarColor(0.4), rgbaAt(t, s, 30, 40))
		assert.Equal(t, darkPalette.CenterLine, rgbaAt(t, s, 30, 50))
	})

	t.Run("quiet waveform keeps minimum bar", func(t *testing.T) {
		s := baseScene()
		s.Envelope = make(waveform.Envelope, types.EnvelopeSize)
		assert.NotEqual(t, darkPalette.Background, rgbaAt(t, s, 30, 48))
		assert.Equal(t, darkPalette.Background, rgbaAt(t, s, 30, 20))
	})
}

func TestBarColorGradient(t *testing.T) {
	p := PaletteFor(types.ThemeDark)
	assert.Equal(t, hexRGBA("#60a5fa"), p.BarColor(0))
	assert.Equal(t, hexRGBA("#3b82f6"), p.BarColor(0.5))
	assert.Equal(t, hexRGBA("#1d4ed8"), p.BarColor(1))
	assert.Equal(t, p.BarColor(1), p.BarColor(3))
}

func TestWritePNG(t *testing.T) {
	s := baseScene()
	s.Cues = []types.Cue{{ID: "a", Time: 1, Name: "One", Number: 1}}
	img := Draw(s)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func BenchmarkDraw(b *testing.B) {
	env := make(waveform.Envelope, types.EnvelopeSize)
	for i := range env {
		env[i] = float64(i%100) / 100
	}
	cues := make([]types.Cue, 50)
	for i := range cues {
		cues[i] = types.Cue{ID: string(rune('a' + i%26)), Time: float64(i) * 4, Name: "Cue", Fade: 1, Number: i + 1}
	}
	s := Scene{
		Width:    1200,
		Height:   200,
		Mapper:   timeline.Mapper{Duration: 240, Zoom: 2, Pan: -300},
		Envelope: env,
		Cues:     cues,
		Playhead: 30,
		Settings: types.DefaultSettings(),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Draw(s)
	}
}
