package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/cuetimeline/internal/media"
	"github.com/schollz/cuetimeline/internal/model"
)

// Browser lists a directory so media, cue files and bundles can be opened
// from the editor
type Browser struct {
	Dir     string
	Entries []string
	Cursor  int
	Offset  int
}

// NewBrowser lists dir. Directories end with a slash and only files the
// editor can open are shown.
func NewBrowser(dir string) (*Browser, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dirs, files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, name+"/")
		} else if media.Classify(name) != media.KindUnknown {
			files = append(files, name)
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	b := &Browser{Dir: abs, Entries: []string{".."}}
	b.Entries = append(b.Entries, dirs...)
	b.Entries = append(b.Entries, files...)
	return b, nil
}

// Move moves the cursor and scrolls so it stays within visible rows
func (b *Browser) Move(delta, visible int) {
	if len(b.Entries) == 0 {
		return
	}
	b.Cursor = max(0, min(len(b.Entries)-1, b.Cursor+delta))
	if b.Cursor < b.Offset {
		b.Offset = b.Cursor
	}
	if visible > 0 && b.Cursor >= b.Offset+visible {
		b.Offset = b.Cursor - visible + 1
	}
}

// Enter opens the entry under the cursor. Directories replace the listing
// and return an empty path; files return their full path.
func (b *Browser) Enter() (string, error) {
	if b.Cursor < 0 || b.Cursor >= len(b.Entries) {
		return "", nil
	}
	name := b.Entries[b.Cursor]
	if name == ".." || strings.HasSuffix(name, "/") {
		next, err := NewBrowser(filepath.Join(b.Dir, name))
		if err != nil {
			return "", err
		}
		*b = *next
		return "", nil
	}
	return filepath.Join(b.Dir, name), nil
}

// RenderFileView renders the file browser below the header
func RenderFileView(m *model.Model, b *Browser, s Screen) string {
	styles := getCommonStyles(m.Theme)
	width := TimelineWidth(s.Width)
	visibleRows := BrowserRows(s.Height)

	var content strings.Builder
	content.WriteString(RenderHeader(m, width))
	content.WriteString(styles.Label.Render("Open: " + b.Dir))
	content.WriteString("\n")

	displayedRows := 0
	for i := 0; i < visibleRows && i+b.Offset < len(b.Entries); i++ {
		dataIndex := i + b.Offset
		arrow := " "
		if b.Cursor == dataIndex {
			arrow = "▶"
		}

		filename := b.Entries[dataIndex]
		var fileCell string
		switch {
		case b.Cursor == dataIndex:
			fileCell = styles.Selected.Render(filename)
		case strings.HasSuffix(filename, "/") || filename == "..":
			fileCell = styles.Playback.Render(filename)
		default:
			kind := media.Classify(filename)
			fileCell = styles.Normal.Render(filename) + " " + styles.Label.Render(kind.String())
		}
		content.WriteString(fmt.Sprintf("%s %s\n", arrow, fileCell))
		displayedRows++
	}

	content.WriteString(RenderFooter(m, s, displayedRows+2, "enter open | esc back"))
	return styles.Container.Render(content.String())
}

// BrowserRows is the number of listing rows that fit the terminal
func BrowserRows(termHeight int) int {
	return max(termHeight-10, 3)
}
