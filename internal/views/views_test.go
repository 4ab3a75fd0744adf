package views

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/timeline"
	"github.com/schollz/cuetimeline/internal/types"
	"github.com/schollz/cuetimeline/internal/waveform"
)

func newTestModel(t *testing.T, duration float64) *model.Model {
	t.Helper()
	m := model.NewModel(nil, nil, types.ThemeDark)
	m.Resize(100*CellWidth, TimelineRows)
	if duration > 0 {
		env := make(waveform.Envelope, 200)
		for i := range env {
			env[i] = 1
		}
		r := model.MediaResult{Token: m.Loads.Next(), Name: "show.mp3", Duration: duration, Envelope: env}
		require.True(t, m.ApplyMedia(r))
	}
	return m
}

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestBlockChar(t *testing.T) {
	tests := []struct {
		name           string
		top, bot, base int
		want           string
	}{
		{"empty above", 20, 30, 0, " "},
		{"full", 0, 16, 8, "█"},
		{"grows from bottom", 13, 24, 8, "▃"},
		{"hangs from top", 8, 12, 8, "▀"},
		{"eighth from top", 8, 9, 8, "▔"},
		{"single segment bottom", 15, 16, 8, "▁"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blockChar(tt.top, tt.bot, tt.base))
		})
	}
}

func TestTimelineWithoutMedia(t *testing.T) {
	m := newTestModel(t, 0)
	out := plainLines(NewTimeline().Render(m, 60, 8))
	require.Len(t, out, 8)
	assert.Contains(t, strings.Join(out, "\n"), "Open an audio or video file")
}

func TestTimelineLayers(t *testing.T) {
	m := newTestModel(t, 100)
	m.Cues.Add(50, "Intro", "", 2, "#44ff44")
	m.Player.SetCurrentTime(25)

	out := plainLines(NewTimeline().Render(m, 100, TimelineRows))
	require.Len(t, out, TimelineRows)

	t.Run("label row", func(t *testing.T) {
		assert.Equal(t, "▼", string([]rune(out[0])[50]))
		assert.Contains(t, out[0], "1 Intro")
		assert.Equal(t, "▽", string([]rune(out[0])[25]))
	})
	t.Run("waveform and playhead", func(t *testing.T) {
		row := []rune(out[TimelineRows/2])
		assert.Equal(t, "█", string(row[10]))
		assert.Equal(t, "┃", string(row[25]))
	})
	t.Run("ruler", func(t *testing.T) {
		ruler := out[TimelineRows-timelineChromeRows+1]
		labels := out[TimelineRows-timelineChromeRows+2]
		assert.True(t, strings.HasPrefix(ruler, "|"))
		assert.True(t, strings.HasPrefix(labels, "0:00.00"))
	})
	t.Run("numbers hidden", func(t *testing.T) {
		s := m.Settings
		s.ShowCueNumbers = false
		m.Settings = s
		top := plainLines(NewTimeline().Render(m, 100, TimelineRows))[0]
		assert.Contains(t, top, "▼Intro")
	})
}

func TestTimelineReadout(t *testing.T) {
	m := newTestModel(t, 100)
	m.View.Readout = &timeline.Readout{X: 400, Text: "0:42.00"}
	out := plainLines(NewTimeline().Render(m, 100, TimelineRows))
	assert.Contains(t, out[TimelineRows-1], "0:42.00")
}

func TestTimelineDurationOnly(t *testing.T) {
	m := newTestModel(t, 100)
	m.Envelope = nil
	out := plainLines(NewTimeline().Render(m, 40, 10))
	waveRows := 10 - timelineChromeRows
	assert.Equal(t, strings.Repeat("─", 40), strings.ReplaceAll(out[1+waveRows/2], "┃", "─"))
}

type fakeSource struct {
	views *int
	err   error
}

func (f fakeSource) Columns(start, end float64, width int) ([]waveform.Column, error) {
	*f.views++
	if f.err != nil {
		return nil, f.err
	}
	cols := make([]waveform.Column, width)
	for i := range cols {
		cols[i] = waveform.Column{Min: -1, Max: 1}
	}
	return cols, nil
}

func TestTimelineWavColumns(t *testing.T) {
	m := newTestModel(t, 100)
	m.MediaPath = "/tmp/show.wav"

	loads, views := 0, 0
	tl := NewTimeline()
	tl.loadSource = func(path string) (columnSource, error) {
		loads++
		return fakeSource{views: &views}, nil
	}
	tl.Render(m, 100, TimelineRows)
	tl.Render(m, 100, TimelineRows)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, views)

	t.Run("zoom and pan reuse the loaded file", func(t *testing.T) {
		m.View.Zoom = 2
		tl.Render(m, 100, TimelineRows)
		m.View.Pan = -80
		tl.Render(m, 100, TimelineRows)
		assert.Equal(t, 1, loads)
		assert.Equal(t, 3, views)
		m.View.Zoom, m.View.Pan = 1, 0
	})

	t.Run("new media is loaded once", func(t *testing.T) {
		m.MediaPath = "/tmp/other.wav"
		tl.Render(m, 100, TimelineRows)
		tl.Render(m, 100, TimelineRows)
		assert.Equal(t, 2, loads)
		m.MediaPath = "/tmp/show.wav"
	})

	t.Run("load failure falls back to the envelope", func(t *testing.T) {
		tl := NewTimeline()
		failed := 0
		tl.loadSource = func(string) (columnSource, error) {
			failed++
			return nil, errors.New("bad file")
		}
		out := plainLines(tl.Render(m, 100, TimelineRows))
		tl.Render(m, 100, TimelineRows)
		assert.Equal(t, 1, failed)
		assert.Contains(t, out[TimelineRows/2], "█")
	})

	t.Run("view failure falls back to the envelope", func(t *testing.T) {
		tl := NewTimeline()
		bad := 0
		tl.loadSource = func(string) (columnSource, error) {
			return fakeSource{views: &bad, err: errors.New("short file")}, nil
		}
		out := plainLines(tl.Render(m, 100, TimelineRows))
		tl.Render(m, 100, TimelineRows)
		assert.Equal(t, 1, bad)
		assert.Contains(t, out[TimelineRows/2], "█")
	})
}

func TestForm(t *testing.T) {
	m := newTestModel(t, 100)

	t.Run("quick add", func(t *testing.T) {
		m.OpenQuickAdd(12.5)
		f := NewForm(m)
		require.NotNil(t, f)
		assert.Equal(t, []Field{FieldName, FieldFade, FieldDescription, FieldColor}, f.fields)
		assert.Contains(t, f.Title, "0:12.50")

		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Intro")})
		f.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, FieldFade, f.Focused())
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1.5")})
		f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
		f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
		assert.Equal(t, FieldColor, f.Focused())
		f.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

		v := f.Values()
		assert.Equal(t, "Intro", v.Name)
		assert.Equal(t, "1.5", v.Fade)
		assert.Equal(t, "#4444ff", v.Color)

		id, err := m.SavePopup(v)
		require.NoError(t, err)
		c, _ := m.Cues.Get(id)
		assert.Equal(t, 12.5, c.Time)
		assert.Equal(t, 1.5, c.Fade)
	})

	t.Run("editor", func(t *testing.T) {
		c, _ := m.Cues.First()
		require.True(t, m.OpenEditor(c.ID))
		f := NewForm(m)
		assert.Equal(t, "Edit cue", f.Title)
		assert.Len(t, f.fields, 5)
		assert.Equal(t, "0:12", f.Values().Time)
		assert.Contains(t, ansi.Strip(f.View(getCommonStyles(m.Theme))), "Blue")
		m.ClosePopup()
	})

	t.Run("fade hidden", func(t *testing.T) {
		s := m.Settings
		s.UseFadeTimes = false
		m.Settings = s
		m.OpenQuickAdd(1)
		assert.NotContains(t, NewForm(m).fields, FieldFade)
		m.ClosePopup()
	})

	t.Run("no popup", func(t *testing.T) {
		assert.Nil(t, NewForm(m))
	})
}

func TestInlineEdit(t *testing.T) {
	m := newTestModel(t, 100)
	id := m.Cues.Add(5, "Old", "", 0, "")
	c, _ := m.Cues.Get(id)

	e := NewInlineEdit(c, FieldName)
	e.Input.SetValue("New")
	require.True(t, e.Apply(m))
	c, _ = m.Cues.Get(id)
	assert.Equal(t, "New", c.Name)

	e = NewInlineEdit(c, FieldDescription)
	e.Input.SetValue("house lights")
	require.True(t, e.Apply(m))
	c, _ = m.Cues.Get(id)
	assert.Equal(t, "house lights", c.Description)

	list := ansi.Strip(RenderCueList(m, Screen{Inline: e}, 5, 100))
	assert.Contains(t, list, "0:05.00")
}

func TestCueListScrolls(t *testing.T) {
	m := newTestModel(t, 100)
	for i := 0; i < 10; i++ {
		m.Cues.Add(float64(i), "", "", 0, "")
	}
	lines := plainLines(RenderCueList(m, Screen{Selected: 7}, 3, 100))
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[3], "▶"))
	assert.Contains(t, lines[3], "8 ")

	empty := newTestModel(t, 100)
	assert.Contains(t, ansi.Strip(RenderCueList(empty, Screen{}, 3, 100)), "No cues")
}

func TestRenderEditor(t *testing.T) {
	m := newTestModel(t, 100)
	m.Cues.Add(3, "Go", "", 0, "")
	m.SetStatus("Exported 2 files")
	out := ansi.Strip(RenderEditor(m, NewTimeline(), Screen{Width: 104, Height: 40}))

	assert.Contains(t, out, "ID 101")
	assert.Contains(t, out, "show")
	assert.Contains(t, out, "0:00.00 / 1:40.00")
	assert.Contains(t, out, "Zoom 100%")
	assert.Contains(t, out, "Exported 2 files")
	assert.Contains(t, out, "space play")

	m.OpenQuickAdd(4)
	out = ansi.Strip(RenderEditor(m, NewTimeline(), Screen{Width: 104, Height: 40, Form: NewForm(m)}))
	assert.Contains(t, out, "Add cue at 0:04.00")
	assert.Contains(t, out, "enter save")
}

func TestBrowser(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"b.wav", "a.json", "notes.txt", ".hidden.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.csv"), nil, 0o644))

	b, err := NewBrowser(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"..", "sub/", "a.json", "b.wav"}, b.Entries)

	b.Move(3, 2)
	assert.Equal(t, 3, b.Cursor)
	assert.Equal(t, 2, b.Offset)
	path, err := b.Enter()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.wav"), path)

	b.Move(-10, 2)
	b.Move(1, 2)
	path, err = b.Enter()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, filepath.Join(dir, "sub"), b.Dir)
	assert.Equal(t, []string{"..", "c.csv"}, b.Entries)

	m := newTestModel(t, 0)
	out := ansi.Strip(RenderFileView(m, b, Screen{Width: 80, Height: 30}))
	assert.Contains(t, out, "c.csv")
	assert.Contains(t, out, "▶ ..")
}
