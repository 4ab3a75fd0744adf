package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/schollz/cuetimeline/internal/config"
	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/storage"
	"github.com/schollz/cuetimeline/internal/types"
)

var (
	Version = "dev"

	// Command-line configuration
	flags struct {
		config string
		data   string
		debug  string
		theme  string
	}
)

var rootCmd = &cobra.Command{
	Use:   "cuetimeline",
	Short: "Annotate audio and video with timed cues",
	Long: `cuetimeline places named, timed cues on a zoomable waveform timeline
and exports them for show control.

Features:
• Waveform timeline with zoom, pan and marker dragging
• Quick add and full cue editor
• JSON, CSV, Markdown, HTML, MIDI and console macro exports
• Bundles of media and cues in a single zip`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "",
		"YAML config file (empty uses the defaults)")
	rootCmd.PersistentFlags().StringVar(&flags.data, "data", "",
		"Directory for stored settings (overrides the config file)")
	rootCmd.PersistentFlags().StringVarP(&flags.debug, "log", "l", "",
		"Write debug logs to specified file (empty disables)")
	rootCmd.PersistentFlags().StringVar(&flags.theme, "theme", "",
		"Timeline theme: dark or light (empty detects the terminal background)")

	rootCmd.AddCommand(editCmd, exportCmd, importCmd, renderCmd, settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends the log to the --log file, or discards it. The
// returned closer is never nil.
func setupLogging() (io.Closer, error) {
	if flags.debug == "" {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	f, err := tea.LogToFile(flags.debug, "debug")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	// file and line number for clickable links
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Debug logging enabled")
	return f, nil
}

// loadConfig reads the config file and applies the flag overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return cfg, err
	}
	if flags.data != "" {
		cfg.DataDir = flags.data
	}
	if flags.theme != "" {
		cfg.Theme = string(types.ParseTheme(flags.theme))
	}
	return cfg, nil
}

// defaultTheme follows the terminal background when nothing is configured
func defaultTheme(cfg config.Config) types.Theme {
	fallback := types.ThemeLight
	if termenv.HasDarkBackground() {
		fallback = types.ThemeDark
	}
	return cfg.ThemeOr(fallback)
}

// session is the state shared by every command: the config, the
// preference store and a model bound to it
type session struct {
	cfg   config.Config
	db    *storage.DB
	model *model.Model
	logs  io.Closer
}

func openSession() (*session, error) {
	logs, err := setupLogging()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		logs.Close()
		return nil, err
	}
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		logs.Close()
		return nil, err
	}
	log.Printf("Using preferences in %s", db.Path())

	theme := defaultTheme(cfg)
	// an explicit theme beats the stored one
	m := model.NewModel(db, nil, theme)
	if flags.theme != "" {
		m.Theme = theme
	}
	m.Resize(cfg.Width, cfg.Height)
	return &session{cfg: cfg, db: db, model: m, logs: logs}, nil
}

func (s *session) Close() error {
	err := s.model.Flush()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	s.logs.Close()
	return err
}
