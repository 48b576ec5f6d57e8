package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bethropolis/path-inspector/internal/tree"
)

// modifiedLayout is the timestamp format used across all renderers.
const modifiedLayout = time.RFC3339

type jsonMetadata struct {
	Size     int64  `json:"size"`
	Modified string `json:"modified,omitempty"`
}

type jsonFile struct {
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	Path      string        `json:"path"`
	Metadata  *jsonMetadata `json:"metadata,omitempty"`
	Truncated string        `json:"truncated,omitempty"`
	Content   *string       `json:"content,omitempty"`
}

type jsonDir struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Path     string        `json:"path"`
	Metadata *jsonMetadata `json:"metadata,omitempty"`
	Children []any         `json:"children"`
}

type jsonDocument struct {
	AbsolutePath   string `json:"absolute_path"`
	RepositoryRoot string `json:"repository_root,omitempty"`
	Results        []any  `json:"results"`
}

// JSONRenderer writes the standard, indented JSON document.
type JSONRenderer struct{}

func (JSONRenderer) Render(nodes []*tree.Node, w io.Writer, meta Meta) error {
	doc := jsonDocument{
		AbsolutePath:   meta.AbsolutePath,
		RepositoryRoot: meta.RepositoryRoot,
		Results:        make([]any, 0, len(nodes)),
	}
	for _, node := range nodes {
		doc.Results = append(doc.Results, jsonValue(node, true))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

func jsonValue(n *tree.Node, isRoot bool) any {
	// The root node of each walk renders as "." since its real location is
	// carried by the document metadata.
	name := n.Name
	if isRoot {
		name = "."
	}

	var metadata *jsonMetadata
	if n.Size != nil {
		metadata = &jsonMetadata{Size: *n.Size}
		if n.Modified != nil {
			metadata.Modified = n.Modified.Format(modifiedLayout)
		}
	}

	if n.IsDir() {
		dir := jsonDir{
			Name:     name,
			Type:     "dir",
			Path:     n.RelPath,
			Metadata: metadata,
			Children: make([]any, 0, len(n.Children)),
		}
		for _, child := range n.Children {
			dir.Children = append(dir.Children, jsonValue(child, false))
		}
		return dir
	}

	file := jsonFile{
		Name:     name,
		Type:     "file",
		Path:     n.RelPath,
		Metadata: metadata,
	}
	if n.Content != nil && n.Content.Lines > 0 {
		file.Truncated = string(n.Content.Truncated)
	}
	if text, ok := nodeText(n); ok {
		file.Content = &text
	}
	return file
}

// The compact format uses single-letter keys and carries children only for
// directories.
type compactFile struct {
	N       string  `json:"n"`
	Content *string `json:"content,omitempty"`
}

type compactDir struct {
	N string `json:"n"`
	C []any  `json:"c"`
}

// CompactRenderer writes a whitespace-free JSON array meant for
// token-conscious consumers.
type CompactRenderer struct{}

func (CompactRenderer) Render(nodes []*tree.Node, w io.Writer, meta Meta) error {
	results := make([]any, 0, len(nodes))
	for _, node := range nodes {
		results = append(results, compactValue(node, true))
	}
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func compactValue(n *tree.Node, isRoot bool) any {
	name := n.Name
	if isRoot {
		name = "."
	}
	if n.IsDir() {
		dir := compactDir{N: name, C: make([]any, 0, len(n.Children))}
		for _, child := range n.Children {
			dir.C = append(dir.C, compactValue(child, false))
		}
		return dir
	}
	file := compactFile{N: name}
	if text, ok := nodeText(n); ok {
		file.Content = &text
	}
	return file
}

// ShowRenderer prints only extracted file contents, each in a delimited
// block, recursing through directories in tree order.
type ShowRenderer struct{}

func (ShowRenderer) Render(nodes []*tree.Node, w io.Writer, meta Meta) error {
	for _, node := range nodes {
		renderShowNode(node, w)
	}
	return nil
}

func renderShowNode(n *tree.Node, w io.Writer) {
	if text, ok := nodeText(n); ok {
		separator := strings.Repeat("=", 42)
		fmt.Fprintf(w, "%s\nFile: %s\n%s\n", separator, n.RelPath, separator)
		if n.Size != nil {
			fmt.Fprintf(w, "Size: %d bytes\n", *n.Size)
		}
		if n.Modified != nil {
			fmt.Fprintf(w, "Modified: %s\n", n.Modified.Format(modifiedLayout))
		}
		fmt.Fprint(w, "\n--- BEGIN CONTENT ---\n")
		fmt.Fprint(w, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprint(w, "\n")
		}
		fmt.Fprint(w, "--- END CONTENT ---\n\n")
	}
	for _, child := range n.Children {
		renderShowNode(child, w)
	}
}
