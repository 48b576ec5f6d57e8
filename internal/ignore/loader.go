package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/path-inspector/internal/logger"
	"github.com/bethropolis/path-inspector/internal/pattern"
	"github.com/bethropolis/path-inspector/internal/tree"
)

// Loader reads .gitignore files into scoped rule slices.
type Loader struct {
	log      logger.Logger
	disabled bool
}

// NewLoader creates a Loader. A disabled loader returns empty rule slices
// without touching the filesystem.
func NewLoader(log logger.Logger, disabled bool) *Loader {
	if log == nil {
		log = logger.Noop{}
	}
	return &Loader{log: log, disabled: disabled}
}

// LoadDir loads dir/.gitignore. A missing file yields an empty result; an
// unreadable one yields an empty result plus a warning.
func (l *Loader) LoadDir(dir string) ([]Rule, []tree.Warning) {
	if l.disabled {
		return nil, nil
	}
	path := filepath.Join(dir, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		l.log.Warn("Cannot read %s: %v", path, err)
		return nil, []tree.Warning{{Path: path, Reason: tree.ReasonIgnoreUnreadable}}
	}
	l.log.Debug("Loaded ignore file: %s", path)
	return l.ParseLines(dir, strings.Split(string(data), "\n"), OriginGitignore)
}

// ParseLines parses raw ignore-file lines into rules scoped to scope.
// Blank lines and '#' comments are skipped, '!' negates, a leading '\'
// escapes a literal '#' or '!', and trailing unescaped whitespace is trimmed.
func (l *Loader) ParseLines(scope string, lines []string, origin Origin) ([]Rule, []tree.Warning) {
	var rules []Rule
	var warnings []tree.Warning
	for i, line := range lines {
		text := trimTrailing(line)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := pattern.Parse(text)
		if err != nil {
			l.log.Warn("Skipping unusable pattern at %s line %d: %v", scope, i+1, err)
			warnings = append(warnings, tree.Warning{Path: text, Reason: tree.ReasonBadPattern})
			continue
		}
		rules = append(rules, Rule{Pattern: p, Scope: scope, Origin: origin})
	}
	return rules, warnings
}

// trimTrailing removes trailing whitespace, including the '\r' left over
// from CRLF line endings, unless the last space is escaped with a backslash,
// in which case a single literal space survives.
func trimTrailing(line string) string {
	trimmed := strings.TrimRight(line, " \t\r")
	if trimmed != line && strings.HasSuffix(trimmed, `\`) {
		return trimmed[:len(trimmed)-1] + " "
	}
	return trimmed
}
