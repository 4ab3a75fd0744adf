package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/cuetimeline/internal/export"
)

// BundleMedia returns the loaded media for a bundle, or nil
func (m *Model) BundleMedia() *export.Media {
	if m.MediaName == "" || len(m.MediaData) == 0 {
		return nil
	}
	return &export.Media{Name: m.MediaName, Data: m.MediaData}
}

// Export renders a format by name, or every format for "all"
func (m *Model) Export(format string) ([]export.File, error) {
	p := m.Project()
	if strings.EqualFold(format, "all") {
		return export.RenderAll(p, m.BundleMedia())
	}
	f, err := export.Render(p, format, m.BundleMedia())
	if err != nil {
		return nil, err
	}
	return []export.File{f}, nil
}

// ExportTo renders a format and writes the files into dir. The status
// line reports the result.
func (m *Model) ExportTo(dir, format string) ([]string, error) {
	files, err := m.Export(format)
	if err == nil {
		var paths []string
		paths, err = WriteFiles(dir, files)
		if err == nil {
			m.SetStatus("Exported %s", strings.Join(baseNames(paths), ", "))
			return paths, nil
		}
	}
	m.SetStatus("Export failed: %v", err)
	return nil, err
}

// WriteFiles writes rendered exports into dir, creating it when needed
func WriteFiles(dir string, files []export.File) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(dir, f.Name)
		if err := os.WriteFile(p, f.Data, 0644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", f.Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
