package ignore

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FindGitRoot walks upward from start looking for a .git entry and returns
// the repository root when found.
func FindGitRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// GlobalExcludes loads git's configured core.excludesfile, scoped to scope so
// its rules apply to the whole walk. Any failure (no git binary, no
// configuration, unreadable file) yields an empty result; global excludes are
// a convenience, never a requirement.
func (l *Loader) GlobalExcludes(scope string) []Rule {
	if l.disabled {
		return nil
	}
	out, err := exec.Command("git", "config", "--get", "core.excludesfile").Output()
	if err != nil {
		return nil
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		l.log.Debug("Global excludes file %s not readable: %v", path, err)
		return nil
	}
	l.log.Debug("Loaded global excludes file: %s", path)
	rules, _ := l.ParseLines(scope, strings.Split(string(data), "\n"), OriginGlobal)
	return rules
}
