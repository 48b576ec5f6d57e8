package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bethropolis/path-inspector/internal/app"
	"github.com/bethropolis/path-inspector/internal/config"
)

// version is overridden at build time via -ldflags.
var version = "1.1.0"

func newRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()

	cmd := &cobra.Command{
		Use:   "path-inspector [paths...]",
		Short: "Inspect a filesystem subtree and export its layout and contents",
		Long: `path-inspector walks one or more paths (or globs), applies layered ignore
rules (.gitignore files, explicit patterns, hidden-file policy, depth limits)
and exports the resulting tree with optionally extracted file contents.

Examples:

  path-inspector . -e go --format json
  path-inspector src/ --ignore-dir node_modules -f xml
  path-inspector "*.log" --format show --tail 20`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				fmt.Fprintf(os.Stderr, "WARN: %v (using defaults)\n", cfgErr)
			}
			cfg.Paths = args
			return app.Run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format: xml, json, compact or show")
	f.StringVarP(&cfg.Output, "output", "o", cfg.Output, "write the result to a file instead of stdout")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "suppress informational messages")
	f.BoolVarP(&cfg.All, "all", "a", cfg.All, "include hidden files and directories (starting with '.')")
	f.StringArrayVarP(&cfg.Ignore, "ignore", "i", cfg.Ignore, "ignore paths matching this pattern (repeatable)")
	f.StringArrayVar(&cfg.IgnoreDirs, "ignore-dir", cfg.IgnoreDirs, "ignore directories with this name (repeatable)")
	f.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum recursion depth (-1 = unlimited)")
	f.BoolVar(&cfg.NoGitignore, "no-gitignore", cfg.NoGitignore, "do not read .gitignore files")
	f.StringArrayVarP(&cfg.Extensions, "extension", "e", cfg.Extensions, "extract content of files with this extension (repeatable)")
	f.BoolVar(&cfg.ReadAll, "read-all", cfg.ReadAll, "extract content of every included file")
	f.BoolVar(&cfg.AddMetadata, "add-metadata", cfg.AddMetadata, "include file size and modification time")
	f.IntVarP(&cfg.Head, "head", "n", cfg.Head, "only read the first N lines of each file")
	f.IntVarP(&cfg.Tail, "tail", "t", cfg.Tail, "only read the last N lines of each file (mutually exclusive with --head)")
	f.Int64Var(&cfg.MaxFileSizeMB, "max-size", cfg.MaxFileSizeMB, "skip content of files larger than this many MB (0 = no limit)")
	f.BoolVar(&cfg.Concurrent, "concurrent", cfg.Concurrent, "extract file contents concurrently")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of concurrent extraction workers")
	f.BoolVar(&cfg.ShowSkipped, "show-skipped", cfg.ShowSkipped, "list collected warnings after the result")
	f.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error, none)")
	f.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable color output")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
