package main

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/schollz/cuetimeline/internal/audio"
	"github.com/schollz/cuetimeline/internal/input"
	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/views"
)

var editFlags struct {
	cues     string
	watch    bool
	duration float64
}

var editCmd = &cobra.Command{
	Use:   "edit [media]",
	Short: "Open the interactive timeline editor",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEditor,
}

func init() {
	editCmd.Flags().StringVar(&editFlags.cues, "cues", "", "JSON or CSV cue file to import after the media")
	editCmd.Flags().BoolVarP(&editFlags.watch, "watch", "w", false, "Reload the cue file when it changes on disk")
	editCmd.Flags().Float64Var(&editFlags.duration, "duration", 0, "Media duration in seconds when it cannot be decoded")
}

// doubleClick is the longest gap between two clicks on the same cue row
const doubleClick = 400 * time.Millisecond

// cueDebounce collapses the burst of events an editor save produces
const cueDebounce = 150 * time.Millisecond

type loadedMsg loaded

type cueFileChangedMsg struct{}

type watchErrMsg struct{ err error }

// editor wraps the model and implements the tea.Model interface
type editor struct {
	model    *model.Model
	ctrl     *input.Controller
	timeline *views.Timeline
	screen   views.Screen
	browser  *views.Browser
	dec      audio.Decoder
	fps      int

	// exportDir receives the x key exports
	exportDir    string
	mediaPath    string
	cuesPath     string
	durationHint float64
	watcher      *fsnotify.Watcher

	buttonDown bool
	inside     bool
	lastClick  time.Time
	lastRow    int
}

func runEditor(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("Error closing session: %v", err)
		}
	}()

	e := &editor{
		model:        s.model,
		ctrl:         input.NewController(),
		timeline:     views.NewTimeline(),
		dec:          audio.FileDecoder{},
		fps:          s.cfg.FPS,
		exportDir:    s.cfg.ExportDir,
		cuesPath:     editFlags.cues,
		durationHint: editFlags.duration,
		lastRow:      -1,
	}
	if len(args) > 0 {
		e.mediaPath = args[0]
	}
	if editFlags.watch {
		if e.cuesPath == "" {
			return errors.New("--watch needs --cues")
		}
		w, err := watchFile(e.cuesPath)
		if err != nil {
			return err
		}
		defer w.Close()
		e.watcher = w
	}

	p := tea.NewProgram(e, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}

// watchFile watches the directory of path, since editors often replace
// the file instead of writing it
func watchFile(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	log.Printf("Watching %s", path)
	return w, nil
}

// waitForChange blocks until the watched cue file changes and the burst
// of events settles
func waitForChange(w *fsnotify.Watcher, path string) tea.Cmd {
	want, _ := filepath.Abs(path)
	return func() tea.Msg {
		var timer <-chan time.Time
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				name, _ := filepath.Abs(ev.Name)
				if name == want && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					timer = time.After(cueDebounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			case <-timer:
				return cueFileChangedMsg{}
			}
		}
	}
}

// loadCmd reads path off the UI loop. Every load takes its tokens here,
// so a later load always wins over an earlier one still in flight.
func (e *editor) loadCmd(path string) tea.Cmd {
	tok := e.model.StartLoad(media.Classify(path))
	dec, hint := e.dec, e.durationHint
	e.model.SetStatus("Loading %s...", filepath.Base(path))
	return func() tea.Msg {
		return loadedMsg(readFile(dec, tok, path, hint))
	}
}

func (e *editor) Init() tea.Cmd {
	var loads []tea.Cmd
	// media first so cue times clamp against the right duration
	if e.mediaPath != "" {
		loads = append(loads, e.loadCmd(e.mediaPath))
	}
	if e.cuesPath != "" {
		loads = append(loads, e.loadCmd(e.cuesPath))
	}
	cmds := []tea.Cmd{input.Tick(e.fps), tea.Sequence(loads...)}
	if e.watcher != nil {
		cmds = append(cmds, waitForChange(e.watcher, e.cuesPath))
	}
	return tea.Batch(cmds...)
}

func (e *editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.screen.Width = msg.Width
		e.screen.Height = msg.Height
		e.ctrl.Handle(e.model, input.Event{
			Kind:   input.Resize,
			Width:  views.TimelineWidth(msg.Width) * views.CellWidth,
			Height: views.TimelineRows,
		})

	case input.TickMsg:
		input.AdvancePlayback(e.model)
		return e, input.Tick(e.fps)

	case loadedMsg:
		e.applyLoaded(loaded(msg))

	case cueFileChangedMsg:
		return e, tea.Batch(e.loadCmd(e.cuesPath), waitForChange(e.watcher, e.cuesPath))

	case watchErrMsg:
		log.Printf("Watch error: %v", msg.err)
		return e, waitForChange(e.watcher, e.cuesPath)

	case tea.MouseMsg:
		e.handleMouse(msg)

	case tea.KeyMsg:
		cmd = e.handleKey(msg)
	}
	e.syncDialogs()
	return e, cmd
}

func (e *editor) applyLoaded(l loaded) {
	err := apply(e.model, l)
	switch {
	case errors.Is(err, model.ErrStaleLoad):
		log.Printf("Dropping stale load of %s", l.Path)
	case err != nil:
		log.Printf("Error loading %s: %v", l.Path, err)
		e.model.SetStatus("Error: %v", err)
	}
}

// syncDialogs opens or closes the dialog form to match the model and keeps
// the list cursor on the highlighted cue
func (e *editor) syncDialogs() {
	switch {
	case e.model.Popup == nil:
		e.screen.Form = nil
	case e.screen.Form == nil:
		e.screen.Form = views.NewForm(e.model)
	}
	e.model.InputFocused = e.screen.Inline != nil
	if id := e.model.View.HighlightedID; id != "" {
		for i, c := range e.model.Cues.Sorted() {
			if c.ID == id {
				e.screen.Selected = i
				break
			}
		}
	}
	if n := e.model.Cues.Len(); e.screen.Selected >= n {
		e.screen.Selected = max(n-1, 0)
	}
}

func (e *editor) handleMouse(msg tea.MouseMsg) {
	if e.browser != nil || e.screen.Form != nil {
		return
	}
	col := msg.X - views.TimelineLeft
	row := msg.Y - views.TimelineTop
	inside := row >= 0 && row < views.TimelineRows && col >= 0 && col < views.TimelineWidth(e.screen.Width)
	x := float64(col*views.CellWidth + views.CellWidth/2)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if inside {
				delta := -1.0
				if msg.Button == tea.MouseButtonWheelDown {
					delta = 1
				}
				e.ctrl.Handle(e.model, input.Event{Kind: input.Wheel, X: x, DeltaY: delta})
			}
		case tea.MouseButtonRight:
			if inside {
				e.ctrl.Handle(e.model, input.Event{Kind: input.ContextMenu, X: x})
			}
		case tea.MouseButtonLeft:
			if inside {
				e.buttonDown = true
				e.ctrl.Handle(e.model, input.Event{Kind: input.PointerDown, X: x})
			} else {
				e.clickList(msg.Y)
			}
		}

	case tea.MouseActionMotion:
		if inside || e.buttonDown {
			e.inside = inside
			e.ctrl.Handle(e.model, input.Event{Kind: input.PointerMove, X: x})
		} else if e.inside {
			e.inside = false
			e.ctrl.Handle(e.model, input.Event{Kind: input.PointerLeave})
		}

	case tea.MouseActionRelease:
		if !e.buttonDown {
			return
		}
		e.buttonDown = false
		e.ctrl.Handle(e.model, input.Event{Kind: input.PointerUp, X: x})
		if inside {
			e.ctrl.Handle(e.model, input.Event{Kind: input.Click, X: x})
		}
	}
}

// clickList selects the cue row under y; a second click on the same row
// opens the full editor
func (e *editor) clickList(y int) {
	rows := views.ListRows(e.screen.Height)
	i := views.ListOffset(e.screen.Selected, rows) + y - views.ListTop
	cues := e.model.Cues.Sorted()
	if y < views.ListTop || i < 0 || i >= len(cues) {
		return
	}
	e.screen.Selected = i
	e.model.View.HighlightedID = cues[i].ID
	now := time.Now()
	if i == e.lastRow && now.Sub(e.lastClick) < doubleClick {
		e.model.OpenEditor(cues[i].ID)
		e.lastRow = -1
		return
	}
	e.lastRow = i
	e.lastClick = now
}

func (e *editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}

	switch {
	case e.screen.Form != nil:
		return e.formKey(msg)
	case e.screen.Inline != nil:
		return e.inlineKey(msg)
	case e.browser != nil:
		return e.browserKey(key)
	}

	switch key {
	case "q":
		return tea.Quit
	case "o":
		dir := "."
		if e.mediaPath != "" {
			dir = filepath.Dir(e.mediaPath)
		}
		b, err := views.NewBrowser(dir)
		if err != nil {
			e.model.SetStatus("Error: %v", err)
			return nil
		}
		e.browser = b
		return nil
	case "x":
		if _, err := e.model.ExportTo(e.exportDir, "all"); err != nil {
			log.Printf("Export failed: %v", err)
		}
		return nil
	case "R":
		if err := e.model.ResetSettings(); err != nil {
			e.model.SetStatus("Error: %v", err)
		} else {
			e.model.SetStatus("Settings reset")
		}
		return nil
	case "up", "down":
		n := e.model.Cues.Len()
		if n == 0 {
			return nil
		}
		if key == "up" {
			e.screen.Selected = max(e.screen.Selected-1, 0)
		} else {
			e.screen.Selected = min(e.screen.Selected+1, n-1)
		}
		e.model.View.HighlightedID = e.model.Cues.Sorted()[e.screen.Selected].ID
		return nil
	case "enter", "n", "c", "E":
		return e.listAction(key)
	}

	e.ctrl.Handle(e.model, input.Event{Kind: input.Key, Key: key})
	return nil
}

// listAction runs a cue list key on the selected cue
func (e *editor) listAction(key string) tea.Cmd {
	cues := e.model.Cues.Sorted()
	if e.screen.Selected >= len(cues) {
		return nil
	}
	c := cues[e.screen.Selected]
	switch key {
	case "enter":
		e.model.JumpToCue(c.ID)
	case "n":
		e.screen.Inline = views.NewInlineEdit(c, views.FieldName)
	case "c":
		e.screen.Inline = views.NewInlineEdit(c, views.FieldDescription)
	case "E":
		e.model.OpenEditor(c.ID)
	}
	return nil
}

func (e *editor) formKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.model.ClosePopup()
		return nil
	case "enter":
		if _, err := e.model.SavePopup(e.screen.Form.Values()); err != nil {
			e.model.SetStatus("Error: %v", err)
		} else {
			e.model.SetStatus("")
		}
		return nil
	}
	return e.screen.Form.Update(msg)
}

func (e *editor) inlineKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.screen.Inline = nil
		return nil
	case "enter":
		e.screen.Inline.Apply(e.model)
		e.screen.Inline = nil
		return nil
	}
	var cmd tea.Cmd
	e.screen.Inline.Input, cmd = e.screen.Inline.Input.Update(msg)
	return cmd
}

func (e *editor) browserKey(key string) tea.Cmd {
	rows := views.BrowserRows(e.screen.Height)
	switch key {
	case "esc", "q":
		e.browser = nil
	case "up", "k":
		e.browser.Move(-1, rows)
	case "down", "j":
		e.browser.Move(1, rows)
	case "pgup":
		e.browser.Move(-rows, rows)
	case "pgdown":
		e.browser.Move(rows, rows)
	case "enter":
		path, err := e.browser.Enter()
		if err != nil {
			e.model.SetStatus("Error: %v", err)
			return nil
		}
		if path == "" {
			return nil
		}
		e.browser = nil
		if media.Classify(path).IsMedia() {
			e.mediaPath = path
		}
		return e.loadCmd(path)
	}
	return nil
}

func (e *editor) View() string {
	if e.browser != nil {
		return views.RenderFileView(e.model, e.browser, e.screen)
	}
	return views.RenderEditor(e.model, e.timeline, e.screen)
}
