// Package config handles loading and resolving gapview configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags (--data, --out-dir, ...)
//  2. Environment variables GAPVIEW_DATA and GAPVIEW_OUT_DIR
//  3. config.json in the current working directory
//  4. Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/derickschaefer/gapview/internal/model"
)

const (
	DefaultConfigFile = "config.json"
	DefaultFormat     = "table"
	DefaultOutDir     = "."
	DefaultTimeout    = 30 * time.Second
	DefaultRate       = 5.0
	EnvData           = "GAPVIEW_DATA"
	EnvOutDir         = "GAPVIEW_OUT_DIR"
)

// File is the on-disk representation of config.json.
type File struct {
	Data           string  `json:"data"`
	DefaultFormat  string  `json:"default_format"`
	OutDir         string  `json:"out_dir"`
	Timeout        string  `json:"timeout"`
	Rate           float64 `json:"rate"`
	CategoryColumn string  `json:"category_column"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	DataPath       string
	Format         string
	OutDir         string
	Timeout        time.Duration
	Rate           float64
	CategoryColumn string
	ConfigPath     string // path of the config.json that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Load resolves configuration from all sources.
// flagData is the value of --data (empty string if not set).
func Load(flagData string) (*Config, error) {
	cfg := &Config{
		Format:         DefaultFormat,
		OutDir:         DefaultOutDir,
		Timeout:        DefaultTimeout,
		Rate:           DefaultRate,
		CategoryColumn: model.ColLocation,
	}

	// Layer 1: config.json (lowest priority). A missing file is fine; a
	// malformed one is reported.
	f, path, err := loadFile()
	switch {
	case err == nil:
		applyFile(cfg, f, path)
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvData); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv(EnvOutDir); v != "" {
		cfg.OutDir = v
	}

	// Layer 3: CLI flag (highest priority)
	if flagData != "" {
		cfg.DataPath = flagData
	}

	return cfg, nil
}

// Validate returns an error if required fields are missing.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New(
			"no dataset configured.\n\n" +
				"Set it one of these ways:\n" +
				"  1. CLI flag:        gapview --data gapminder.csv ...\n" +
				"  2. Environment:     export GAPVIEW_DATA=gapminder.csv\n" +
				"  3. config.json:     {\"data\": \"gapminder.csv\"}",
		)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", c.Rate)
	}
	return nil
}

// loadFile attempts to read config.json from the current working directory.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("config.json not found at %s: %w", path, os.ErrNotExist)
		}
		return nil, "", fmt.Errorf("reading config.json: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config.json: %w", err)
	}
	return &f, path, nil
}

// applyFile copies values from a parsed File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.Data != "" {
		cfg.DataPath = f.Data
	}
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.OutDir != "" {
		cfg.OutDir = f.OutDir
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.CategoryColumn != "" {
		cfg.CategoryColumn = f.CategoryColumn
	}
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config.json via `gapview config init`.
func Template() File {
	return File{
		Data:           "",
		DefaultFormat:  DefaultFormat,
		OutDir:         DefaultOutDir,
		Timeout:        "30s",
		Rate:           DefaultRate,
		CategoryColumn: model.ColLocation,
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
