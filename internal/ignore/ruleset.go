// Package ignore resolves layered inclusion/exclusion rules during a walk.
//
// Rules come from three places: explicit --ignore patterns, .gitignore files
// discovered at each directory level, and git's global excludes file. Rules
// are evaluated in order with last-match-wins semantics, except that operator
// rules always run after every .gitignore rule so a repository negation can
// never re-include a path the operator excluded.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bethropolis/path-inspector/internal/logger"
	"github.com/bethropolis/path-inspector/internal/pattern"
	"github.com/bethropolis/path-inspector/internal/tree"
)

// Origin records where a rule came from.
type Origin string

const (
	OriginGitignore Origin = "gitignore"
	OriginGlobal    Origin = "global-excludes"
	OriginFlag      Origin = "flag"
)

// Rule is one pattern bound to the directory that scopes it. A rule only
// applies to paths inside its scope directory.
type Rule struct {
	Pattern *pattern.Pattern
	Scope   string // absolute directory
	Origin  Origin
}

// RuleSet is an ordered, immutable collection of rules. Extending a rule set
// always produces a new value; parents handed down the recursion are never
// mutated, so sibling subtree walks cannot observe each other's rules.
type RuleSet struct {
	rules []Rule // gitignore-origin rules in root-to-leaf load order
	flags []Rule // operator rules, evaluated last
}

// NewRuleSet creates a rule set holding only operator rules.
func NewRuleSet(flagRules []Rule) *RuleSet {
	return &RuleSet{flags: flagRules}
}

// Merge returns a new rule set with extra appended after the existing
// gitignore rules. The receiver is left untouched.
func (s *RuleSet) Merge(extra []Rule) *RuleSet {
	if len(extra) == 0 {
		return s
	}
	merged := make([]Rule, 0, len(s.rules)+len(extra))
	merged = append(merged, s.rules...)
	merged = append(merged, extra...)
	return &RuleSet{rules: merged, flags: s.flags}
}

// Len returns the number of rules in the set.
func (s *RuleSet) Len() int {
	return len(s.rules) + len(s.flags)
}

// IsIgnored evaluates every applicable rule against absPath and returns the
// final decision. The default, when no rule matches, is not ignored.
func (s *RuleSet) IsIgnored(absPath string, isDir bool) bool {
	ignored := false
	decide := func(r Rule) {
		rel, ok := scopeRel(r.Scope, absPath)
		if !ok {
			return
		}
		if r.Pattern.Matches(rel, isDir) {
			ignored = !r.Pattern.Negated
		}
	}
	for _, r := range s.rules {
		decide(r)
	}
	for _, r := range s.flags {
		decide(r)
	}
	return ignored
}

// scopeRel returns absPath relative to scope in forward-slash form, or false
// when absPath is not strictly inside scope.
func scopeRel(scope, absPath string) (string, bool) {
	rel, err := filepath.Rel(scope, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// FlagRules compiles operator-supplied --ignore patterns into rules scoped to
// scope. Unusable patterns are logged and surfaced as warnings, never fatal.
func FlagRules(scope string, patterns []string, log logger.Logger) ([]Rule, []tree.Warning) {
	var rules []Rule
	var warnings []tree.Warning
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		p, err := pattern.Parse(raw)
		if err != nil {
			log.Warn("Skipping unusable --ignore pattern %q: %v", raw, err)
			warnings = append(warnings, tree.Warning{Path: raw, Reason: tree.ReasonBadPattern})
			continue
		}
		rules = append(rules, Rule{Pattern: p, Scope: scope, Origin: OriginFlag})
	}
	return rules, warnings
}
