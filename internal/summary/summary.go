// Package summary reports scan results and collected warnings.
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/path-inspector/internal/logger"
	"github.com/bethropolis/path-inspector/internal/tree"
)

// DisplayResults shows the end results of a scan.
func DisplayResults(log logger.Logger, result *tree.Result, duration time.Duration, quiet bool) {
	if quiet {
		return
	}
	log.Info("Inspected %d root(s) with %d warning(s).", len(result.Nodes), len(result.Warnings))
	if result.Partial {
		log.Warn("Result is partial: at least one requested root could not be processed.")
	}
	log.Info("Scan complete in %v.", duration.Round(time.Millisecond))
}

// DisplayWarnings prints the collected warnings, sorted by path for
// consistent output.
func DisplayWarnings(log logger.Logger, warnings []tree.Warning, output io.Writer, quiet bool) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			log.Info(format, args...)
		}
	}

	infoLog("--- Warnings (%d) ---", len(warnings))
	if len(warnings) == 0 {
		infoLog("No warnings were recorded.")
		infoLog("--- End Warnings ---")
		return
	}

	sorted := make([]tree.Warning, len(warnings))
	copy(sorted, warnings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	for _, w := range sorted {
		fmt.Fprintf(output, "Warning: %-.*s [%s]\n",
			60, // max width for the path column
			w.Path,
			w.Reason,
		)
	}
	infoLog("--- End Warnings ---")
}
