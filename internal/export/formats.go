package export

import (
	"errors"
	"fmt"
	"strings"
)

// Format is one export target
type Format struct {
	Name   string
	Suffix string
	Render func(p Project) ([]byte, error)
}

func plain(f func(Project) []byte) func(Project) ([]byte, error) {
	return func(p Project) ([]byte, error) { return f(p), nil }
}

// Formats lists every single-file export in menu order. The bundle is not
// included because it also needs the media file.
var Formats = []Format{
	{Name: "json", Suffix: ".json", Render: JSON},
	{Name: "csv", Suffix: ".csv", Render: plain(ConsoleCSV)},
	{Name: "sheet", Suffix: "_spreadsheet.csv", Render: plain(SpreadsheetCSV)},
	{Name: "md", Suffix: ".md", Render: plain(Markdown)},
	{Name: "html", Suffix: ".html", Render: HTML},
	{Name: "macro", Suffix: "_macro.xml", Render: Macro},
	{Name: "midi", Suffix: "_markers.mid", Render: MIDI},
}

// BundleSuffix is the file suffix of bundle archives
const BundleSuffix = ".zip"

// LookupFormat finds a format by name
func LookupFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: format %q", ErrUnsupportedInput, name)
}

// FormatNames returns the names accepted by LookupFormat plus "zip" and "all"
func FormatNames() []string {
	names := make([]string, 0, len(Formats)+2)
	for _, f := range Formats {
		names = append(names, f.Name)
	}
	return append(names, "zip", "all")
}

// File is one rendered export
type File struct {
	Name string
	Data []byte
}

// Render produces one format by name. "zip" builds the bundle with the
// given media, which may be nil. Formats that have nothing to write for an
// empty cue list return ErrNoCues.
func Render(p Project, format string, m *Media) (File, error) {
	if strings.EqualFold(format, "zip") {
		data, err := Bundle(p, m)
		if err != nil {
			return File{}, fmt.Errorf("building bundle: %w", err)
		}
		return File{Name: p.FileName(BundleSuffix), Data: data}, nil
	}
	f, err := LookupFormat(format)
	if err != nil {
		return File{}, err
	}
	data, err := f.Render(p)
	if err != nil {
		return File{}, fmt.Errorf("rendering %s: %w", f.Name, err)
	}
	if data == nil {
		return File{}, fmt.Errorf("%s: %w", f.Name, ErrNoCues)
	}
	return File{Name: p.FileName(f.Suffix), Data: data}, nil
}

// RenderAll produces every format and the bundle. Formats with nothing to
// write are skipped.
func RenderAll(p Project, m *Media) ([]File, error) {
	names := FormatNames()
	files := make([]File, 0, len(names))
	for _, name := range names {
		if name == "all" {
			continue
		}
		f, err := Render(p, name, m)
		if errors.Is(err, ErrNoCues) {
			continue
		}
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
