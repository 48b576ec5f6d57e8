// Package pattern implements glob-style path matching for ignore rules.
//
// The supported syntax is the common subset of gitignore patterns needed for
// directory scanning: '*' matches any run of characters except '/', '?'
// matches a single character except '/', '**' matches across directory
// separators, a leading '/' anchors the pattern to the scope root and a
// trailing '/' restricts the match to directories.
package pattern

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Pattern is a single parsed ignore pattern. Immutable once parsed.
type Pattern struct {
	Raw      string // original pattern text
	Negated  bool   // leading '!'
	Anchored bool   // leading '/' or an interior '/'
	DirOnly  bool   // trailing '/'

	re *regexp.Regexp // nil for unparseable patterns, which match nothing
}

// Parse compiles a single pattern. A non-nil error means the pattern is
// unusable; the returned Pattern still carries the parsed flags but matches
// nothing. Callers are expected to surface the error as a warning and
// continue.
func Parse(raw string) (*Pattern, error) {
	p := &Pattern{Raw: raw}

	text := raw
	switch {
	case strings.HasPrefix(text, `\#`), strings.HasPrefix(text, `\!`):
		// Escaped literal '#' or '!'.
		text = text[1:]
	case strings.HasPrefix(text, "!"):
		p.Negated = true
		text = text[1:]
	}
	if strings.HasSuffix(text, "/") {
		p.DirOnly = true
		text = strings.TrimSuffix(text, "/")
	}
	if strings.HasPrefix(text, "/") {
		p.Anchored = true
		text = strings.TrimPrefix(text, "/")
	} else if strings.Contains(text, "/") {
		// A separator anywhere anchors the pattern to the scope root,
		// matching gitignore behavior.
		p.Anchored = true
	}

	if text == "" {
		return p, fmt.Errorf("pattern %q: empty after stripping markers", raw)
	}

	re, err := regexp.Compile("^(?:" + translate(text) + ")$")
	if err != nil {
		return p, fmt.Errorf("pattern %q: %w", raw, err)
	}
	p.re = re
	return p, nil
}

// Matches reports whether the pattern matches relPath, a forward-slash path
// relative to the pattern's scope directory. Anchored patterns are tested
// against the whole relative path; unanchored patterns are tested against the
// basename, so they match at any depth.
func (p *Pattern) Matches(relPath string, isDir bool) bool {
	if p.re == nil {
		return false
	}
	if p.DirOnly && !isDir {
		return false
	}
	target := relPath
	if !p.Anchored {
		target = path.Base(relPath)
	}
	return p.re.MatchString(target)
}

// HasMeta reports whether s contains glob metacharacters and therefore needs
// filesystem expansion before being used as a literal path.
func HasMeta(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// translate converts a glob pattern body to a regular expression fragment.
func translate(glob string) string {
	var b strings.Builder
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				i++
				if i+1 < len(runes) && runes[i+1] == '/' {
					// "**/" also matches zero directories
					i++
					b.WriteString(`(?:.*/)?`)
				} else {
					b.WriteString(`.*`)
				}
			} else {
				b.WriteString(`[^/]*`)
			}
		case '?':
			b.WriteString(`[^/]`)
		default:
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
		}
	}
	return b.String()
}
