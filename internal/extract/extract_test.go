package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func numberedLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func TestWantsContent(t *testing.T) {
	opts := Options{Extensions: map[string]struct{}{"py": {}, "md": {}}}
	assert.True(t, opts.WantsContent("src/main.py"))
	assert.True(t, opts.WantsContent("README.MD"))
	assert.False(t, opts.WantsContent("image.png"))
	assert.False(t, opts.WantsContent("Makefile"))

	all := Options{ReadAll: true}
	assert.True(t, all.WantsContent("image.png"))
}

func TestExtractFull(t *testing.T) {
	path := writeFile(t, "a.txt", []byte("hello\nworld\n"))

	r := Extract(path, Options{ReadAll: true})
	assert.Equal(t, StatusFull, r.Status)
	assert.Equal(t, "hello\nworld\n", r.Text)
	assert.True(t, r.HasText())
}

func TestExtractHead(t *testing.T) {
	path := writeFile(t, "a.txt", []byte(numberedLines(10)))

	r := Extract(path, Options{ReadAll: true, Head: 3})
	assert.Equal(t, StatusTruncated, r.Status)
	assert.Equal(t, TruncateHead, r.Truncated)
	assert.Equal(t, 3, r.Lines)
	assert.Equal(t, "line 1\nline 2\nline 3\n", r.Text)
}

func TestExtractTail(t *testing.T) {
	path := writeFile(t, "a.txt", []byte(numberedLines(100)))

	r := Extract(path, Options{ReadAll: true, Tail: 10})
	assert.Equal(t, StatusTruncated, r.Status)
	assert.Equal(t, TruncateTail, r.Truncated)
	assert.Equal(t, 10, r.Lines)
	lines := strings.Split(strings.TrimRight(r.Text, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "line 91", lines[0])
	assert.Equal(t, "line 100", lines[9])
}

func TestExtractShortFileStaysFull(t *testing.T) {
	path := writeFile(t, "a.txt", []byte("one\ntwo\n"))

	r := Extract(path, Options{ReadAll: true, Head: 5})
	assert.Equal(t, StatusFull, r.Status)
	assert.Equal(t, "one\ntwo\n", r.Text)
	assert.Equal(t, 0, r.Lines)
}

func TestExtractNoFinalNewline(t *testing.T) {
	path := writeFile(t, "a.txt", []byte("one\ntwo\nthree"))

	r := Extract(path, Options{ReadAll: true, Tail: 2})
	assert.Equal(t, StatusTruncated, r.Status)
	assert.Equal(t, "two\nthree", r.Text)
}

func TestExtractExtensionSkip(t *testing.T) {
	path := writeFile(t, "a.bin", []byte("text really"))

	r := Extract(path, Options{Extensions: map[string]struct{}{"py": {}}})
	assert.Equal(t, StatusSkipped, r.Status)
	assert.Equal(t, SkipExtension, r.Skip)
	assert.False(t, r.HasText())
}

func TestExtractBinary(t *testing.T) {
	data := append([]byte("elf header"), 0x00, 0x01, 0x02)
	path := writeFile(t, "prog.exe", data)

	// Classification must be stable across repeated reads.
	for i := 0; i < 2; i++ {
		r := Extract(path, Options{ReadAll: true})
		assert.Equal(t, StatusSkipped, r.Status)
		assert.Equal(t, SkipBinary, r.Skip)
	}
}

func TestExtractNonPrintableRatio(t *testing.T) {
	// Half the bytes are control characters, no NUL anywhere.
	data := make([]byte, 100)
	for i := range data {
		if i%2 == 0 {
			data[i] = 0x01
		} else {
			data[i] = 'a'
		}
	}
	path := writeFile(t, "junk.dat", data)

	r := Extract(path, Options{ReadAll: true})
	assert.Equal(t, SkipBinary, r.Skip)
}

func TestExtractUTF8NotBinary(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("héllo wörld ünïcode\n"))

	r := Extract(path, Options{ReadAll: true})
	assert.Equal(t, StatusFull, r.Status)
}

func TestExtractEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)

	r := Extract(path, Options{ReadAll: true})
	assert.Equal(t, StatusFull, r.Status)
	assert.Equal(t, "", r.Text)
}

func TestExtractTooLarge(t *testing.T) {
	path := writeFile(t, "big.txt", []byte(strings.Repeat("x", 64)))

	r := Extract(path, Options{ReadAll: true, MaxFileSize: 32})
	assert.Equal(t, StatusSkipped, r.Status)
	assert.Equal(t, SkipTooLarge, r.Skip)

	r = Extract(path, Options{ReadAll: true, MaxFileSize: 128})
	assert.Equal(t, StatusFull, r.Status)
}

func TestExtractReadError(t *testing.T) {
	r := Extract(filepath.Join(t.TempDir(), "missing.txt"), Options{ReadAll: true})
	assert.Equal(t, StatusSkipped, r.Status)
	assert.Equal(t, SkipReadError, r.Skip)
}

func TestExtractLargerThanSniffWindow(t *testing.T) {
	text := numberedLines(2000) // well past the sniff window
	path := writeFile(t, "big.txt", []byte(text))

	r := Extract(path, Options{ReadAll: true})
	require.Equal(t, StatusFull, r.Status)
	assert.Equal(t, text, r.Text)
}
