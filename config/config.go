// Package config holds the settings of the seqvis command. Defaults live in
// code; a YAML file can override them and command-line flags override both.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Noofbiz/seqvis"
	"github.com/Noofbiz/seqvis/datasets"
	"github.com/Noofbiz/seqvis/fonts"
	"github.com/Noofbiz/seqvis/render"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Render RenderConfig `yaml:"render"`
	Fonts  FontsConfig  `yaml:"fonts"`
}

type RenderConfig struct {
	DPI     int               `yaml:"dpi"`
	Workers int               `yaml:"workers"`
	Test    render.Resolution `yaml:"test"`
	Train   render.Resolution `yaml:"train"`
}

type FontsConfig struct {
	// Preferences is the ordered list of caption font families to try.
	Preferences []string `yaml:"preferences"`

	// Dirs are scanned for font files in addition to the system directories.
	Dirs       []string `yaml:"dirs"`
	ScanSystem bool     `yaml:"scan_system"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Render: RenderConfig{
			DPI:     96,
			Workers: 1,
			Test:    render.DefaultResolutions[datasets.VariantTest],
			Train:   render.DefaultResolutions[datasets.VariantTrain],
		},
		Fonts: FontsConfig{
			Preferences: append([]string(nil), fonts.DefaultPreferences...),
			Dirs:        []string{},
			ScanSystem:  true,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: read config %s: %w", seqvis.ErrIO, path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: parse config %s: %w", seqvis.ErrInvalidInput, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

// Validate checks ranges. It does not touch the filesystem.
func (c Config) Validate() error {
	if c.Render.DPI <= 0 {
		return fmt.Errorf("%w: render.dpi must be positive, got %d", seqvis.ErrInvalidInput, c.Render.DPI)
	}
	if c.Render.Workers < 1 {
		return fmt.Errorf("%w: render.workers must be at least 1, got %d", seqvis.ErrInvalidInput, c.Render.Workers)
	}
	for name, r := range map[string]render.Resolution{"test": c.Render.Test, "train": c.Render.Train} {
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("%w: render.%s must have a positive size, got %dx%d",
				seqvis.ErrInvalidInput, name, r.Width, r.Height)
		}
	}
	return nil
}

// YAML renders the effective configuration.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Resolutions returns the canvas size per variant.
func (c Config) Resolutions() map[datasets.Variant]render.Resolution {
	return map[datasets.Variant]render.Resolution{
		datasets.VariantTest:  c.Render.Test,
		datasets.VariantTrain: c.Render.Train,
	}
}

// FontRegistry builds a registry holding the preferred families found in the
// configured directories, and in the system font directories when
// ScanSystem is set.
func (c Config) FontRegistry() *fonts.Registry {
	reg := fonts.NewRegistry()
	if len(c.Fonts.Preferences) == 0 {
		return reg
	}
	if c.Fonts.ScanSystem {
		reg.LoadSystem(c.Fonts.Preferences, c.Fonts.Dirs...)
		return reg
	}
	for _, dir := range c.Fonts.Dirs {
		if _, err := reg.LoadDir(dir, c.Fonts.Preferences...); err != nil {
			slog.Warn("font dir scan failed", "dir", dir, "error", err)
		}
	}
	return reg
}
