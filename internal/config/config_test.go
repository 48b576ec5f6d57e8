package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "xml", cfg.Format)
	assert.Equal(t, -1, cfg.MaxDepth)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Greater(t, cfg.Workers, 0)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	content := "format: json\nmax_depth: 3\nignore:\n  - '*.log'\nextensions:\n  - py\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, []string{"*.log"}, cfg.Ignore)
	assert.Equal(t, []string{"py"}, cfg.Extensions)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("format: [\n"), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.Error(t, err)
	// The error is advisory; the returned config is still usable.
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(c *Config) {}, ""},
		{"head only", func(c *Config) { c.Head = 5 }, ""},
		{"tail only", func(c *Config) { c.Tail = 5 }, ""},
		{"head and tail", func(c *Config) { c.Head = 5; c.Tail = 5 }, "mutually exclusive"},
		{"negative head", func(c *Config) { c.Head = -1 }, "negative"},
		{"negative max size", func(c *Config) { c.MaxFileSizeMB = -1 }, "negative"},
		{"unknown format", func(c *Config) { c.Format = "yaml" }, "unknown format"},
		{"show format", func(c *Config) { c.Format = "show" }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestExtensionSet(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.ExtensionSet())

	cfg.Extensions = []string{".PY", "md", "  ", ".go"}
	set := cfg.ExtensionSet()
	assert.Equal(t, map[string]struct{}{"py": {}, "md": {}, "go": {}}, set)
}

func TestEffectiveLogLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.EffectiveLogLevel())

	cfg.Quiet = true
	assert.Equal(t, "warn", cfg.EffectiveLogLevel())

	// Verbose wins over quiet.
	cfg.Verbose = true
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())
}

func TestResolveColorsRespectsOverrides(t *testing.T) {
	cfg := Default()
	cfg.NoColor = true
	cfg.ResolveColors()
	assert.False(t, cfg.UseColors)

	cfg = Default()
	cfg.Output = "out.xml"
	cfg.ResolveColors()
	assert.False(t, cfg.UseColors)
}
