// Package config holds the CLI-facing configuration and its validation.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-directory defaults file. Values found there
// become flag defaults; flags given on the command line win.
const FileName = ".path-inspector.yaml"

// Formats lists the supported output formats.
var Formats = []string{"xml", "json", "compact", "show"}

// Config holds all application settings.
type Config struct {
	// Paths are the root paths or globs to inspect.
	Paths []string `yaml:"-"`

	// Output settings
	Format string `yaml:"format"`
	Output string `yaml:"-"`
	Quiet  bool   `yaml:"quiet"`

	// Filtering settings
	All         bool     `yaml:"all"`
	Ignore      []string `yaml:"ignore"`
	IgnoreDirs  []string `yaml:"ignore_dirs"`
	MaxDepth    int      `yaml:"max_depth"`
	NoGitignore bool     `yaml:"no_gitignore"`

	// Content extraction settings
	Extensions    []string `yaml:"extensions"`
	ReadAll       bool     `yaml:"read_all"`
	AddMetadata   bool     `yaml:"add_metadata"`
	Head          int      `yaml:"head"`
	Tail          int      `yaml:"tail"`
	MaxFileSizeMB int64    `yaml:"max_size_mb"`

	// Processing settings
	Concurrent bool `yaml:"concurrent"`
	Workers    int  `yaml:"workers"`

	// Logging settings
	ShowSkipped bool   `yaml:"show_skipped"`
	LogLevel    string `yaml:"log_level"`
	Verbose     bool   `yaml:"-"`
	NoColor     bool   `yaml:"no_color"`
	UseColors   bool   `yaml:"-"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Format:   "xml",
		MaxDepth: -1,
		LogLevel: "info",
		Workers:  runtime.NumCPU(),
	}
}

// Load returns the defaults overlaid with FileName from the working
// directory when present. A malformed file is reported, not fatal: flags can
// still override everything.
func Load() (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(FileName)
	if err != nil {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("config: invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// Validate checks option combinations before any traversal happens.
func (c *Config) Validate() error {
	if c.Head > 0 && c.Tail > 0 {
		return fmt.Errorf("config: --head and --tail are mutually exclusive")
	}
	if c.Head < 0 || c.Tail < 0 {
		return fmt.Errorf("config: --head and --tail must not be negative")
	}
	if c.MaxFileSizeMB < 0 {
		return fmt.Errorf("config: --max-size must not be negative")
	}
	valid := false
	for _, f := range Formats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("config: unknown format %q (available: %s)", c.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// ExtensionSet normalizes the extension allow-list: lowercase, no dot, no
// blanks.
func (c *Config) ExtensionSet() map[string]struct{} {
	if len(c.Extensions) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(c.Extensions))
	for _, ext := range c.Extensions {
		clean := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
		if clean != "" {
			set[clean] = struct{}{}
		}
	}
	return set
}

// ResolveColors decides whether stderr output gets colors: only on a
// terminal, and never when --no-color is set or output goes to a file.
func (c *Config) ResolveColors() {
	c.UseColors = !c.NoColor && c.Output == "" && isatty.IsTerminal(os.Stderr.Fd())
}

// EffectiveLogLevel folds the shorthand flags into the level string.
func (c *Config) EffectiveLogLevel() string {
	if c.Verbose {
		return "debug"
	}
	if c.Quiet {
		return "warn"
	}
	return c.LogLevel
}
