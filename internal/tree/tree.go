// Package tree defines the in-memory result tree assembled during a walk.
package tree

import (
	"sort"
	"strings"
	"time"

	"github.com/bethropolis/path-inspector/internal/extract"
)

// Kind distinguishes file and directory nodes.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// Node represents one filesystem entry in the result tree.
type Node struct {
	Name    string // basename of the entry
	Path    string // absolute path
	RelPath string // forward-slash path relative to the working directory
	Kind    Kind
	Depth   int // 0 for walk roots

	// Metadata, populated only when requested.
	Size     *int64
	Modified *time.Time

	// Extraction outcome, present only for files that went through the
	// content extraction step.
	Content *extract.Result

	// Children of directory nodes, in deterministic render order.
	Children []*Node
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDir
}

// Sort orders children recursively: directories first, then files, both by
// case-insensitive name. This is the one canonical ordering every renderer
// relies on.
func (n *Node) Sort() {
	if !n.IsDir() {
		return
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for _, child := range n.Children {
		child.Sort()
	}
}

// Reason classifies why a warning was recorded for a path.
type Reason string

const (
	ReasonRootNotFound     Reason = "Root Not Found"
	ReasonPermissionDenied Reason = "Permission Denied"
	ReasonReadError        Reason = "Read Error"
	ReasonBadPattern       Reason = "Unusable Ignore Pattern"
	ReasonIgnoreUnreadable Reason = "Ignore File Unreadable"
	ReasonMetadataError    Reason = "Metadata Unavailable"
)

// Warning is a non-fatal diagnostic attached to a specific path. Warnings are
// surfaced separately from the structural result so a consumer is never
// silently handed an incomplete tree.
type Warning struct {
	Path   string `json:"path"`
	Reason Reason `json:"reason"`
}

// Result is the fully materialized outcome of a walk.
type Result struct {
	// Nodes holds the top-level nodes, anchored under the working
	// directory. Intermediate directories between the working directory
	// and each walk root are materialized as plain directory nodes.
	Nodes []*Node

	Warnings []Warning

	// Partial is true when at least one requested root could not be
	// processed at all.
	Partial bool
}
