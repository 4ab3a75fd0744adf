// Package config reads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/schollz/cuetimeline/internal/types"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 200
	DefaultFPS    = 30
)

// Config holds the settings that are not part of the exported project
type Config struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Theme     string `yaml:"theme,omitempty"`
	DataDir   string `yaml:"data_dir"`
	ExportDir string `yaml:"export_dir"`
	FPS       int    `yaml:"fps"`
}

// Default returns the built in configuration. The data directory lives
// under the user config directory when one is available.
func Default() Config {
	dataDir := ".cuetimeline"
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "cuetimeline")
	}
	return Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		DataDir:   dataDir,
		ExportDir: ".",
		FPS:       DefaultFPS,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration as YAML
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ThemeOr returns the configured theme, or fallback when none is set
func (c Config) ThemeOr(fallback types.Theme) types.Theme {
	if c.Theme == "" {
		return fallback
	}
	return types.ParseTheme(c.Theme)
}

func (c *Config) normalize() {
	d := Default()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
}
