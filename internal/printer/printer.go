// Package printer serializes a finished result tree. Renderers are pure
// consumers: they never touch the filesystem and never branch on walk
// configuration.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/bethropolis/path-inspector/internal/tree"
)

// Meta carries run-level information some renderers include in their output.
type Meta struct {
	AbsolutePath   string // working directory the tree is anchored at
	RepositoryRoot string // enclosing git repository root, empty when none
}

// Renderer serializes top-level nodes to a writer.
type Renderer interface {
	Render(nodes []*tree.Node, w io.Writer, meta Meta) error
}

// ForFormat returns the renderer for a format name. The caller validates the
// name; unknown names fall back to XML, the default format.
func ForFormat(name string) Renderer {
	switch name {
	case "json":
		return JSONRenderer{}
	case "compact":
		return CompactRenderer{}
	case "show":
		return ShowRenderer{}
	default:
		return XMLRenderer{}
	}
}

// nodeText returns the extracted content of a file node, if any.
func nodeText(n *tree.Node) (string, bool) {
	if n.Kind != tree.KindFile || n.Content == nil || !n.Content.HasText() {
		return "", false
	}
	return n.Content.Text, true
}

// xmlEscape covers the characters that matter in both element text and
// quoted attributes.
var xmlEscape = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// XMLRenderer is the default output format: a nested Directory/File document
// with file contents wrapped in CDATA sections.
type XMLRenderer struct{}

func (XMLRenderer) Render(nodes []*tree.Node, w io.Writer, meta Meta) error {
	fmt.Fprint(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(w, "<PathInspectorResults path=\"%s\"", xmlEscape.Replace(meta.AbsolutePath))
	if meta.RepositoryRoot != "" {
		fmt.Fprintf(w, " repository=\"%s\"", xmlEscape.Replace(meta.RepositoryRoot))
	}
	fmt.Fprint(w, ">\n")
	for _, node := range nodes {
		renderXMLNode(node, w, 1, true)
	}
	_, err := fmt.Fprint(w, "</PathInspectorResults>\n")
	return err
}

func renderXMLNode(n *tree.Node, w io.Writer, indent int, isRoot bool) {
	prefix := strings.Repeat("  ", indent)

	// Root nodes render their relative path so multi-root output stays
	// unambiguous; nested nodes only need their name.
	displayName := n.Name
	if isRoot {
		displayName = n.RelPath
	}
	attrs := fmt.Sprintf("name=\"%s\"", xmlEscape.Replace(displayName))
	if n.Size != nil {
		attrs += fmt.Sprintf(" size=\"%d\"", *n.Size)
	}
	if n.Modified != nil {
		attrs += fmt.Sprintf(" modified=\"%s\"", n.Modified.Format(modifiedLayout))
	}

	if n.IsDir() {
		fmt.Fprintf(w, "%s<Directory %s>\n", prefix, attrs)
		for _, child := range n.Children {
			renderXMLNode(child, w, indent+1, false)
		}
		fmt.Fprintf(w, "%s</Directory>\n", prefix)
		return
	}

	if n.Content != nil && n.Content.Lines > 0 {
		attrs += fmt.Sprintf(" truncated=\"%s\" lines=\"%d\"", n.Content.Truncated, n.Content.Lines)
	}

	text, ok := nodeText(n)
	if !ok {
		fmt.Fprintf(w, "%s<File %s />\n", prefix, attrs)
		return
	}
	fmt.Fprintf(w, "%s<File %s>\n", prefix, attrs)
	fmt.Fprintf(w, "%s  <![CDATA[\n", prefix)
	// A "]]>" inside the content would terminate the section early; split
	// it across two sections.
	fmt.Fprint(w, strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>"))
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprint(w, "\n")
	}
	fmt.Fprintf(w, "%s  ]]>\n", prefix)
	fmt.Fprintf(w, "%s</File>\n", prefix)
}
