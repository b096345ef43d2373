// Package config loads treeconv.toml, the per-project settings file. The
// nearest file walking up from the working directory wins; command-line
// flags override what it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"treeconv/internal/trace"
)

// FileName is the name searched for by Find.
const FileName = "treeconv.toml"

// Config mirrors treeconv.toml.
type Config struct {
	// Path is the file the config was read from, empty for defaults.
	Path    string        `toml:"-"`
	Convert ConvertConfig `toml:"convert"`
	Trace   TraceConfig   `toml:"trace"`
	Cache   CacheConfig   `toml:"cache"`
}

type ConvertConfig struct {
	Jobs                 int  `toml:"jobs"` // 0 = GOMAXPROCS
	MaxDiagnostics       int  `toml:"max_diagnostics"`
	CaseInsensitiveNames bool `toml:"case_insensitive_names"`
}

type TraceConfig struct {
	Level     string `toml:"level"`
	Mode      string `toml:"mode"`
	Output    string `toml:"output"`    // file path, "-" or empty for stderr
	Heartbeat string `toml:"heartbeat"` // Go duration, empty disables
}

type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the settings used when no treeconv.toml exists.
func Default() Config {
	return Config{
		Convert: ConvertConfig{MaxDiagnostics: 100, CaseInsensitiveNames: true},
		Trace:   TraceConfig{Level: "off", Mode: "stream"},
		Cache:   CacheConfig{Enabled: true},
	}
}

// Find walks up from startDir looking for treeconv.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path on top of Default. Keys missing from the file keep their
// default; unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadNearest loads the treeconv.toml found from startDir, or the defaults.
func LoadNearest(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Convert.Jobs < 0 {
		return fmt.Errorf("[convert].jobs must not be negative, got %d", c.Convert.Jobs)
	}
	if c.Convert.MaxDiagnostics < 0 {
		return fmt.Errorf("[convert].max_diagnostics must not be negative, got %d", c.Convert.MaxDiagnostics)
	}
	if _, err := c.Trace.TracerConfig(); err != nil {
		return err
	}
	return nil
}

// TracerConfig converts the [trace] section.
func (t TraceConfig) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(t.Level)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].level: %w", err)
	}
	mode, err := trace.ParseMode(t.Mode)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].mode: %w", err)
	}
	var beat time.Duration
	if t.Heartbeat != "" {
		beat, err = time.ParseDuration(t.Heartbeat)
		if err != nil {
			return trace.Config{}, fmt.Errorf("[trace].heartbeat: %w", err)
		}
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: t.Output,
		Heartbeat:  beat,
	}, nil
}
