package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/schollz/cuetimeline/internal/audio"
	"github.com/schollz/cuetimeline/internal/export"
	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/render"
	"github.com/schollz/cuetimeline/internal/storage"
	"github.com/schollz/cuetimeline/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var exportFlags struct {
	format string
	out    string
	media  string
}

var exportCmd = &cobra.Command{
	Use:   "export <project.json|cues.csv|bundle.zip>...",
	Short: "Export cue projects to one or all formats",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

var importFlags struct {
	media string
	out   string
}

var importCmd = &cobra.Command{
	Use:   "import <cues.csv|project.json|bundle.zip>",
	Short: "Convert a cue file or bundle into a JSON project",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var renderFlags struct {
	width  int
	height int
	zoom   float64
	pan    float64
	at     float64
	out    string
	cues   string
}

var renderCmd = &cobra.Command{
	Use:   "render <media|bundle.zip>",
	Short: "Draw the timeline of a media file to a PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var settingsCmd = &cobra.Command{
	Use:   "settings [get [key] | set <key> <value> | reset]",
	Short: "Show or change the stored settings",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSettings,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "all",
		"Export format: "+strings.Join(export.FormatNames(), ", "))
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "Output directory (default from config)")
	exportCmd.Flags().StringVar(&exportFlags.media, "media", "", "Media file to load before each project")

	importCmd.Flags().StringVar(&importFlags.media, "media", "", "Media file the cues belong to")
	importCmd.Flags().StringVarP(&importFlags.out, "out", "o", "", "Output directory (default from config)")

	renderCmd.Flags().IntVar(&renderFlags.width, "width", 0, "Image width (default from config)")
	renderCmd.Flags().IntVar(&renderFlags.height, "height", 0, "Image height (default from config)")
	renderCmd.Flags().Float64Var(&renderFlags.zoom, "zoom", 1, "Zoom factor")
	renderCmd.Flags().Float64Var(&renderFlags.pan, "pan", 0, "Pan offset in pixels")
	renderCmd.Flags().Float64Var(&renderFlags.at, "at", 0, "Playhead time in seconds")
	renderCmd.Flags().StringVar(&renderFlags.cues, "cues", "", "Cue file to draw")
	renderCmd.Flags().StringVarP(&renderFlags.out, "out", "o", "timeline.png", "Output PNG file")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := exportFlags.out
	if out == "" {
		out = s.cfg.ExportDir
	}
	if f := strings.ToLower(exportFlags.format); f != "all" && f != "zip" {
		if _, err := export.LookupFormat(exportFlags.format); err != nil {
			return err
		}
	}

	results := make([][]string, len(args))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			// a private store keeps imported settings out of the preferences
			m := model.NewModel(storage.NewMemory(), nil, s.model.Theme)
			m.Settings = s.model.Settings
			if err := loadPaths(m, audio.FileDecoder{}, 0, exportFlags.media, path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			paths, err := m.ExportTo(out, exportFlags.format)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = paths
			return nil
		})
	}
	err = g.Wait()
	for _, paths := range results {
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
	}
	return err
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := importFlags.out
	if out == "" {
		out = s.cfg.ExportDir
	}
	if err := loadPaths(s.model, audio.FileDecoder{}, 0, importFlags.media, args[0]); err != nil {
		return err
	}
	paths, err := s.model.ExportTo(out, "json")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d cues -> %s\n", s.model.Cues.Len(), paths[0])
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	m := s.model
	if err := loadPaths(m, audio.FileDecoder{}, 0, args[0], renderFlags.cues); err != nil {
		return err
	}
	if !m.HasMedia() {
		return fmt.Errorf("%s: no media to draw", args[0])
	}

	width, height := renderFlags.width, renderFlags.height
	if width <= 0 {
		width = s.cfg.Width
	}
	if height <= 0 {
		height = s.cfg.Height
	}
	m.Resize(width, height)
	m.View.Zoom = renderFlags.zoom
	m.View.Pan = renderFlags.pan
	mp := m.Mapper().ClampPan()
	m.SeekTo(renderFlags.at)

	img := render.Draw(render.Scene{
		Width:    width,
		Height:   height,
		Mapper:   mp,
		Envelope: m.Envelope,
		Cues:     m.Cues.Sorted(),
		Playhead: m.CurrentTime(),
		Settings: m.Settings,
		Theme:    m.Theme,
	})

	if dir := filepath.Dir(renderFlags.out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(renderFlags.out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", renderFlags.out, err)
	}
	if err := render.WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderFlags.out)
	return nil
}

// errUnknownSetting is returned for keys that are not part of the
// settings record
var errUnknownSetting = errors.New("unknown setting")

func runSettings(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	m := s.model
	action := "get"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "get":
		if len(args) > 1 {
			v, err := getSetting(m, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}
		b, err := json.MarshalIndent(m.Settings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", m.Theme)
	case "set":
		if len(args) != 3 {
			return errors.New("usage: settings set <key> <value>")
		}
		return setSetting(m, args[1], args[2])
	case "reset":
		return m.ResetSettings()
	default:
		return fmt.Errorf("unknown settings action %q", action)
	}
	return nil
}

// settingsMap flattens the settings record by its stored key names
func settingsMap(st types.Settings) (map[string]any, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func settingKeys(values map[string]any) string {
	keys := make([]string, 0, len(values)+1)
	for k := range values {
		keys = append(keys, k)
	}
	keys = append(keys, storage.ThemeKey)
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func getSetting(m *model.Model, key string) (string, error) {
	if key == storage.ThemeKey {
		return string(m.Theme), nil
	}
	values, err := settingsMap(m.Settings)
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%w %q (known: %s)", errUnknownSetting, key, settingKeys(values))
	}
	return fmt.Sprint(v), nil
}

func setSetting(m *model.Model, key, raw string) error {
	if key == storage.ThemeKey {
		if want := types.ParseTheme(raw); want != m.Theme {
			m.ToggleTheme()
		}
		return nil
	}
	values, err := settingsMap(m.Settings)
	if err != nil {
		return err
	}
	current, ok := values[key]
	if !ok {
		return fmt.Errorf("%w %q (known: %s)", errUnknownSetting, key, settingKeys(values))
	}
	switch current.(type) {
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		values[key] = v
	case float64:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		values[key] = v
	default:
		values[key] = raw
	}

	b, err := json.Marshal(values)
	if err != nil {
		return err
	}
	st := m.Settings
	if err := json.Unmarshal(b, &st); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	m.UpdateSettings(st)
	return nil
}
