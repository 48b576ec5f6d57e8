// Package walker drives the traversal: it enumerates roots, applies the
// layered ignore rules at each directory level, and assembles the result
// tree, delegating content reading to the extract package.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/path-inspector/internal/extract"
	"github.com/bethropolis/path-inspector/internal/ignore"
	"github.com/bethropolis/path-inspector/internal/logger"
	"github.com/bethropolis/path-inspector/internal/pattern"
	"github.com/bethropolis/path-inspector/internal/tree"
)

// Config holds the traversal and extraction settings for one walk.
type Config struct {
	// IncludeHidden lists entries whose name starts with '.'; off by
	// default, which also hides .git.
	IncludeHidden bool

	// MaxDepth limits descent. Roots are at depth 0; directories at the
	// limit are listed but not expanded. Negative disables the limit.
	MaxDepth int

	// UseGitignore enables .gitignore discovery and the global excludes
	// file.
	UseGitignore bool

	// IgnorePatterns are operator patterns evaluated after every
	// .gitignore rule.
	IgnorePatterns []string

	// IgnoreDirs are directory names skipped outright, wherever they
	// appear.
	IgnoreDirs []string

	// AddMetadata records size and modification time on every node.
	AddMetadata bool

	// Extract configures content extraction for included files.
	Extract extract.Options

	// Concurrent runs content extraction in a worker pool after the
	// traversal. The traversal itself stays sequential, so ordering is
	// unaffected.
	Concurrent bool
	Workers    int
}

// Walker traverses filesystem subtrees according to its configuration.
type Walker struct {
	cfg    Config
	log    logger.Logger
	loader *ignore.Loader
}

// New creates a Walker.
func New(cfg Config, log logger.Logger) *Walker {
	if log == nil {
		log = logger.Noop{}
	}
	return &Walker{
		cfg:    cfg,
		log:    log,
		loader: ignore.NewLoader(log, !cfg.UseGitignore),
	}
}

// Walk inspects the given roots (literal paths or globs) and returns the
// fully materialized result tree. Per-root failures become warnings; the
// returned error is reserved for environment failures that make any walk
// impossible.
func (w *Walker) Walk(roots []string) (*tree.Result, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("walker: cannot determine working directory: %w", err)
	}

	st := &walkState{
		Walker:     w,
		base:       base,
		cache:      make(map[string]*tree.Node),
		ignoreDirs: make(map[string]struct{}, len(w.cfg.IgnoreDirs)),
	}
	for _, name := range w.cfg.IgnoreDirs {
		st.ignoreDirs[name] = struct{}{}
	}
	st.root = &tree.Node{Name: ".", Path: base, RelPath: ".", Kind: tree.KindDir}
	st.cache[base] = st.root

	resolved := st.expandRoots(roots)
	failed := 0
	for _, root := range resolved {
		if !st.walkRoot(root) {
			failed++
		}
	}

	st.runPending()
	st.root.Sort()

	return &tree.Result{
		Nodes:    st.root.Children,
		Warnings: st.warnings,
		Partial:  failed > 0,
	}, nil
}

// walkState carries the per-walk bookkeeping: the virtual root anchored at
// the working directory, the directory-node cache used to materialize parent
// chains, collected warnings, and files pending concurrent extraction.
type walkState struct {
	*Walker

	base  string
	root  *tree.Node
	cache map[string]*tree.Node

	ignoreDirs map[string]struct{}

	mu       sync.Mutex
	warnings []tree.Warning

	pending []pendingFile
}

type pendingFile struct {
	node *tree.Node
	path string
}

func (st *walkState) warn(path string, reason tree.Reason) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.warnings = append(st.warnings, tree.Warning{Path: path, Reason: reason})
}

func (st *walkState) addWarnings(warns []tree.Warning) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.warnings = append(st.warnings, warns...)
}

// walkRoot processes one resolved root. Explicit roots are never filtered;
// their descendants are. Returns false when the root could not be processed
// at all.
func (st *walkState) walkRoot(root string) bool {
	abs, err := filepath.Abs(root)
	if err != nil {
		st.log.Error("Invalid root path %q: %v", root, err)
		st.warn(root, tree.ReasonRootNotFound)
		return false
	}
	info, err := os.Stat(abs)
	if err != nil {
		st.log.Error("Root %q not accessible: %v", root, err)
		st.warn(root, tree.ReasonRootNotFound)
		return false
	}

	if info.IsDir() {
		node := st.walkDir(abs, 0, st.buildRuleSet(abs))
		st.attachDir(node)
		return true
	}

	parent := st.ensureDir(filepath.Dir(abs))
	if childByPath(parent, abs) != nil {
		return true // same file named twice
	}
	var meta fs.FileInfo
	if st.cfg.AddMetadata {
		meta = info
	}
	parent.Children = append(parent.Children, st.fileNode(abs, 0, meta))
	return true
}

// buildRuleSet assembles the initial rule set for a directory root: operator
// rules first, then (when enabled) the global excludes file and the
// .gitignore files of every directory between the enclosing repository root
// and the walk root, in root-to-leaf order. The root's own .gitignore is
// picked up by walkDir.
func (st *walkState) buildRuleSet(scope string) *ignore.RuleSet {
	flagRules, warns := ignore.FlagRules(scope, st.cfg.IgnorePatterns, st.log)
	st.addWarnings(warns)
	rs := ignore.NewRuleSet(flagRules)
	if !st.cfg.UseGitignore {
		return rs
	}
	rs = rs.Merge(st.loader.GlobalExcludes(scope))
	if gitRoot, ok := ignore.FindGitRoot(scope); ok && gitRoot != scope {
		for _, dir := range ancestorChain(gitRoot, scope) {
			rules, warns := st.loader.LoadDir(dir)
			st.addWarnings(warns)
			rs = rs.Merge(rules)
		}
	}
	return rs
}

// ancestorChain lists the directories from top down to the parent of bottom,
// in that order. top must be an ancestor of bottom.
func ancestorChain(top, bottom string) []string {
	var chain []string
	for dir := filepath.Dir(bottom); ; dir = filepath.Dir(dir) {
		chain = append([]string{dir}, chain...)
		if dir == top || dir == filepath.Dir(dir) {
			break
		}
	}
	return chain
}

// walkDir recursively builds the node for one directory. The inherited rule
// set is extended, never mutated, so sibling walks stay independent.
func (st *walkState) walkDir(abs string, depth int, rs *ignore.RuleSet) *tree.Node {
	node := st.dirNode(abs, depth, nil)

	merged := rs
	if st.cfg.UseGitignore {
		rules, warns := st.loader.LoadDir(abs)
		st.addWarnings(warns)
		merged = merged.Merge(rules)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		reason := tree.ReasonReadError
		if os.IsPermission(err) {
			reason = tree.ReasonPermissionDenied
		}
		st.log.Warn("Cannot list directory %q: %v", abs, err)
		st.warn(node.RelPath, reason)
		return node
	}

	for _, entry := range entries {
		name := entry.Name()
		childAbs := filepath.Join(abs, name)
		isDir := entry.IsDir()

		if !st.cfg.IncludeHidden && strings.HasPrefix(name, ".") {
			st.log.Debug("Skipping hidden entry: %s", childAbs)
			continue
		}
		if isDir {
			if _, skip := st.ignoreDirs[name]; skip {
				st.log.Debug("Skipping ignored directory name: %s", childAbs)
				continue
			}
		}
		if merged.IsIgnored(childAbs, isDir) {
			st.log.Debug("Skipping ignored path: %s", childAbs)
			continue
		}

		if isDir {
			childDepth := depth + 1
			if st.cfg.MaxDepth >= 0 && childDepth > st.cfg.MaxDepth {
				// Listed at the boundary, not expanded.
				node.Children = append(node.Children, st.dirNode(childAbs, childDepth, st.entryInfo(entry, childAbs)))
				continue
			}
			node.Children = append(node.Children, st.walkDir(childAbs, childDepth, merged))
		} else {
			node.Children = append(node.Children, st.fileNode(childAbs, depth+1, st.entryInfo(entry, childAbs)))
		}
	}
	return node
}

func (st *walkState) dirNode(abs string, depth int, info fs.FileInfo) *tree.Node {
	node := &tree.Node{
		Name:    filepath.Base(abs),
		Path:    abs,
		RelPath: st.relTo(abs),
		Kind:    tree.KindDir,
		Depth:   depth,
	}
	if st.cfg.AddMetadata {
		if info == nil {
			info = st.statFor(abs)
		}
		applyMetadata(node, info)
	}
	return node
}

func (st *walkState) fileNode(abs string, depth int, info fs.FileInfo) *tree.Node {
	node := &tree.Node{
		Name:    filepath.Base(abs),
		Path:    abs,
		RelPath: st.relTo(abs),
		Kind:    tree.KindFile,
		Depth:   depth,
	}
	if st.cfg.AddMetadata {
		if info == nil {
			info = st.statFor(abs)
		}
		applyMetadata(node, info)
	}

	if st.cfg.Concurrent {
		st.pending = append(st.pending, pendingFile{node: node, path: abs})
	} else {
		st.extractInto(node, abs)
	}
	return node
}

func (st *walkState) extractInto(node *tree.Node, abs string) {
	res := extract.Extract(abs, st.cfg.Extract)
	node.Content = &res
	if res.Status == extract.StatusSkipped && res.Skip == extract.SkipReadError {
		st.log.Warn("Failed to read %q", abs)
		st.warn(node.RelPath, tree.ReasonReadError)
	}
}

// runPending drains the files deferred by concurrent mode through a worker
// pool. Every worker writes to its own node, so no tree locking is needed.
func (st *walkState) runPending() {
	if !st.cfg.Concurrent || len(st.pending) == 0 {
		return
	}
	workers := st.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	st.log.Debug("Extracting %d files with %d workers", len(st.pending), workers)

	jobs := make(chan pendingFile, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				st.extractInto(p.node, p.path)
			}
		}()
	}
	for _, p := range st.pending {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
}

func (st *walkState) entryInfo(entry fs.DirEntry, abs string) fs.FileInfo {
	if !st.cfg.AddMetadata {
		return nil
	}
	info, err := entry.Info()
	if err != nil {
		st.log.Warn("Cannot stat %q: %v", abs, err)
		st.warn(st.relTo(abs), tree.ReasonMetadataError)
		return nil
	}
	return info
}

func (st *walkState) statFor(abs string) fs.FileInfo {
	info, err := os.Stat(abs)
	if err != nil {
		st.log.Warn("Cannot stat %q: %v", abs, err)
		st.warn(st.relTo(abs), tree.ReasonMetadataError)
		return nil
	}
	return info
}

func applyMetadata(node *tree.Node, info fs.FileInfo) {
	if info == nil {
		return
	}
	size := info.Size()
	modified := info.ModTime()
	node.Size = &size
	node.Modified = &modified
}

// relTo maps an absolute path to a forward-slash path relative to the
// working directory. Paths outside it fall back to their basename.
func (st *walkState) relTo(abs string) string {
	rel, err := filepath.Rel(st.base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(abs)
	}
	return filepath.ToSlash(rel)
}

// ensureDir materializes the chain of directory nodes from the working
// directory down to dir, reusing nodes already in the cache. Paths outside
// the working directory are anchored directly at the virtual root.
func (st *walkState) ensureDir(dir string) *tree.Node {
	if node, ok := st.cache[dir]; ok {
		return node
	}
	rel, err := filepath.Rel(st.base, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return st.root
	}
	parent := st.ensureDir(filepath.Dir(dir))
	node := &tree.Node{
		Name:    filepath.Base(dir),
		Path:    dir,
		RelPath: filepath.ToSlash(rel),
		Kind:    tree.KindDir,
	}
	st.cache[dir] = node
	parent.Children = append(parent.Children, node)
	return node
}

// attachDir hangs a fully walked directory node under its parent chain,
// merging children when the same directory was already produced by an
// earlier root.
func (st *walkState) attachDir(node *tree.Node) {
	parent := st.ensureDir(filepath.Dir(node.Path))
	if existing := childByPath(parent, node.Path); existing != nil {
		seen := make(map[string]struct{}, len(existing.Children))
		for _, c := range existing.Children {
			seen[c.Path] = struct{}{}
		}
		for _, c := range node.Children {
			if _, dup := seen[c.Path]; !dup {
				existing.Children = append(existing.Children, c)
			}
		}
		return
	}
	parent.Children = append(parent.Children, node)
	if _, ok := st.cache[node.Path]; !ok {
		st.cache[node.Path] = node
	}
}

func childByPath(parent *tree.Node, path string) *tree.Node {
	for _, c := range parent.Children {
		if c.Path == path {
			return c
		}
	}
	return nil
}

// expandRoots resolves glob arguments against the filesystem. Arguments
// without metacharacters, and globs that match nothing, pass through as
// literal paths so the root-not-found handling reports them.
func (st *walkState) expandRoots(args []string) []string {
	var out []string
	for _, arg := range args {
		if !pattern.HasMeta(arg) {
			out = append(out, arg)
			continue
		}
		matches := st.expandGlob(arg)
		if len(matches) == 0 {
			st.log.Warn("Glob %q matched nothing", arg)
			out = append(out, arg)
			continue
		}
		st.log.Debug("Glob %q matched %d paths", arg, len(matches))
		out = append(out, matches...)
	}
	return out
}

// expandGlob walks from the literal prefix of a glob argument and collects
// matching paths. A matched directory becomes a root on its own, so its
// interior is not matched again.
func (st *walkState) expandGlob(arg string) []string {
	slashed := filepath.ToSlash(arg)
	segs := strings.Split(slashed, "/")
	split := 0
	for ; split < len(segs); split++ {
		if pattern.HasMeta(segs[split]) {
			break
		}
	}
	prefix := strings.Join(segs[:split], "/")
	if prefix == "" {
		if strings.HasPrefix(slashed, "/") {
			prefix = "/"
		} else {
			prefix = "."
		}
	}
	rest := strings.Join(segs[split:], "/")

	p, err := pattern.Parse("/" + rest)
	if err != nil {
		st.log.Warn("Unusable glob %q: %v", arg, err)
		st.warn(arg, tree.ReasonBadPattern)
		return nil
	}

	// Without '**' a pattern segment matches exactly one path segment, so
	// anything deeper than the pattern cannot match.
	maxSegs := -1
	if !strings.Contains(rest, "**") {
		maxSegs = len(segs) - split
	}

	absPrefix, err := filepath.Abs(prefix)
	if err != nil {
		return nil
	}

	var matches []string
	_ = filepath.WalkDir(absPrefix, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == absPrefix {
			return nil
		}
		rel, rerr := filepath.Rel(absPrefix, path)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if p.Matches(rel, d.IsDir()) {
			matches = append(matches, path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() && maxSegs >= 0 && strings.Count(rel, "/")+1 >= maxSegs {
			return filepath.SkipDir
		}
		return nil
	})
	sort.Strings(matches)
	return matches
}
