// Package extract reads file contents for matched files, with binary
// detection and head/tail truncation.
package extract

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Binary sniffing constants. The heuristic is approximate by nature: a file
// is classified binary when its first sniffWindow bytes contain a NUL byte or
// when more than nonPrintableRatio of them are non-printable. Bytes >= 0x80
// count as printable so multi-byte UTF-8 text is not misclassified.
const (
	sniffWindow       = 8192
	nonPrintableRatio = 0.30
)

// Status tags an extraction outcome.
type Status string

const (
	StatusFull      Status = "full"
	StatusTruncated Status = "truncated"
	StatusSkipped   Status = "skipped"
)

// TruncateKind records which end of the file was kept.
type TruncateKind string

const (
	TruncateHead TruncateKind = "head"
	TruncateTail TruncateKind = "tail"
)

// SkipReason records why content was not extracted.
type SkipReason string

const (
	SkipBinary    SkipReason = "binary"
	SkipExtension SkipReason = "no-extension-match"
	SkipReadError SkipReason = "read-error"
	SkipTooLarge  SkipReason = "too-large"
)

// Result is the outcome of extracting one file.
type Result struct {
	Status Status

	// Text is set for Full and Truncated results.
	Text string

	// Truncated and Lines describe the truncation for StatusTruncated.
	Truncated TruncateKind
	Lines     int

	// Skip is set for StatusSkipped.
	Skip SkipReason
}

// HasText reports whether the result carries content.
func (r Result) HasText() bool {
	return r.Status == StatusFull || r.Status == StatusTruncated
}

// Options configures content extraction.
type Options struct {
	// ReadAll reads every matched file regardless of extension.
	ReadAll bool

	// Extensions is the allow-list of extensions (lowercase, no dot) whose
	// content is read when ReadAll is off.
	Extensions map[string]struct{}

	// Head and Tail keep only the first/last N lines. Mutual exclusion is
	// validated at the configuration boundary, not here.
	Head int
	Tail int

	// MaxFileSize skips files larger than this many bytes. Zero disables
	// the limit.
	MaxFileSize int64
}

// WantsContent reports whether the options call for reading the given file
// at all, based on the read-all flag and the extension allow-list.
func (o Options) WantsContent(path string) bool {
	if o.ReadAll {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := o.Extensions[ext]
	return ok
}

// Extract reads the file at path according to opts. It never fails the walk:
// every problem is folded into a skipped Result.
func Extract(path string, opts Options) Result {
	if !opts.WantsContent(path) {
		return Result{Status: StatusSkipped, Skip: SkipExtension}
	}

	if opts.MaxFileSize > 0 {
		info, err := os.Lstat(path)
		if err != nil {
			return Result{Status: StatusSkipped, Skip: SkipReadError}
		}
		if info.Size() > opts.MaxFileSize {
			return Result{Status: StatusSkipped, Skip: SkipTooLarge}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{Status: StatusSkipped, Skip: SkipReadError}
	}
	defer f.Close()

	window := make([]byte, sniffWindow)
	n, err := io.ReadFull(f, window)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Result{Status: StatusSkipped, Skip: SkipReadError}
	}
	window = window[:n]

	if looksBinary(window) {
		return Result{Status: StatusSkipped, Skip: SkipBinary}
	}

	rest, err := io.ReadAll(f)
	if err != nil {
		return Result{Status: StatusSkipped, Skip: SkipReadError}
	}
	text := string(window) + string(rest)

	return truncate(text, opts.Head, opts.Tail)
}

// looksBinary applies the NUL-byte and non-printable-ratio heuristic to the
// sniff window.
func looksBinary(window []byte) bool {
	if len(window) == 0 {
		return false // empty files are text
	}
	if bytes.IndexByte(window, 0) >= 0 {
		return true
	}
	nonPrintable := 0
	for _, b := range window {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(window)) > nonPrintableRatio
}

func isPrintable(b byte) bool {
	return (b >= 0x20 && b <= 0x7e) || b >= 0x80 || b == '\n' || b == '\r' || b == '\t'
}

// truncate applies head/tail line limits. A file shorter than the limit is
// returned whole as a full result, with no padding.
func truncate(text string, head, tail int) Result {
	if head <= 0 && tail <= 0 {
		return Result{Status: StatusFull, Text: text}
	}

	lines := splitLines(text)
	switch {
	case head > 0 && len(lines) > head:
		return Result{
			Status:    StatusTruncated,
			Text:      strings.Join(lines[:head], ""),
			Truncated: TruncateHead,
			Lines:     head,
		}
	case tail > 0 && len(lines) > tail:
		return Result{
			Status:    StatusTruncated,
			Text:      strings.Join(lines[len(lines)-tail:], ""),
			Truncated: TruncateTail,
			Lines:     tail,
		}
	default:
		return Result{Status: StatusFull, Text: text}
	}
}

// splitLines splits text into lines that keep their trailing newline, so the
// truncated text joins back without altering the original bytes.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
