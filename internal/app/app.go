// Package app wires configuration, walking, rendering and reporting
// together.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/bethropolis/path-inspector/internal/config"
	"github.com/bethropolis/path-inspector/internal/extract"
	"github.com/bethropolis/path-inspector/internal/ignore"
	"github.com/bethropolis/path-inspector/internal/logger"
	"github.com/bethropolis/path-inspector/internal/printer"
	"github.com/bethropolis/path-inspector/internal/summary"
	"github.com/bethropolis/path-inspector/internal/walker"
)

// Run executes one inspection according to cfg. Configuration errors and
// environment failures are returned; per-path problems never abort the run,
// they surface as warnings.
func Run(cfg *config.Config) error {
	startTime := time.Now()

	cfg.ResolveColors()
	color.NoColor = !cfg.UseColors
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.EffectiveLogLevel()), cfg.UseColors)

	if err := cfg.Validate(); err != nil {
		return err
	}

	paths := cfg.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	log.Debug("Format: %s, metadata: %v, read-all: %v", cfg.Format, cfg.AddMetadata, cfg.ReadAll)
	log.Debug("Filtering: hidden=%v gitignore=%v ignore=%v ignore-dir=%v max-depth=%d",
		cfg.All, !cfg.NoGitignore, cfg.Ignore, cfg.IgnoreDirs, cfg.MaxDepth)
	if cfg.Concurrent {
		log.Debug("Concurrent extraction enabled (workers: %d)", cfg.Workers)
	}

	w := walker.New(walker.Config{
		IncludeHidden:  cfg.All,
		MaxDepth:       cfg.MaxDepth,
		UseGitignore:   !cfg.NoGitignore,
		IgnorePatterns: cfg.Ignore,
		IgnoreDirs:     cfg.IgnoreDirs,
		AddMetadata:    cfg.AddMetadata,
		Extract: extract.Options{
			ReadAll:     cfg.ReadAll,
			Extensions:  cfg.ExtensionSet(),
			Head:        cfg.Head,
			Tail:        cfg.Tail,
			MaxFileSize: cfg.MaxFileSizeMB * 1024 * 1024,
		},
		Concurrent: cfg.Concurrent,
		Workers:    cfg.Workers,
	}, log)

	if !cfg.Quiet {
		log.Info("Inspecting %d path(s)...", len(paths))
	}
	result, err := w.Walk(paths)
	if err != nil {
		return err
	}
	if result.Partial && len(result.Nodes) == 0 {
		for _, warn := range result.Warnings {
			log.Error("%s: %s", warn.Path, warn.Reason)
		}
		return fmt.Errorf("none of the requested paths could be processed")
	}

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	meta := printer.Meta{}
	if cwd, err := os.Getwd(); err == nil {
		meta.AbsolutePath = cwd
		if gitRoot, ok := ignore.FindGitRoot(cwd); ok {
			meta.RepositoryRoot = gitRoot
		}
	}

	if err := printer.ForFormat(cfg.Format).Render(result.Nodes, out, meta); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	if cfg.Output != "" && !cfg.Quiet {
		log.Info("Results written to: %s", cfg.Output)
	}

	summary.DisplayResults(log, result, time.Since(startTime), cfg.Quiet)
	if cfg.ShowSkipped {
		summary.DisplayWarnings(log, result.Warnings, os.Stderr, cfg.Quiet)
	}
	return nil
}
