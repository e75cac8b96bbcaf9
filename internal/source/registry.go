// Package source owns loaded source buffers and answers
// byte-offset-to-line/column queries for the diagnostics sink.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/doublelove22/basecode/internal/token"
)

// File is a single registered source buffer with its precomputed line
// table. Lines are half-open byte ranges [begin, end), keyed by begin
// and compared by disjointness.
type File struct {
	Path       string
	Text       string
	lineStarts []int // byte offset of the start of each line (1-based line N -> lineStarts[N-1])
}

func newFile(path, text string) *File {
	f := &File{Path: path, Text: text}
	f.lineStarts = append(f.lineStarts, 0)
	for i, b := range []byte(text) {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// LineColumn converts a byte offset into a 1-based {line, column}.
// Column is counted in runes, consistent with the lexer's own
// rune-based column counting.
func (f *File) LineColumn(offset int) (line, column int) {
	line = 1
	for i, start := range f.lineStarts {
		if start > offset {
			break
		}
		line = i + 1
	}
	lineStart := f.lineStarts[line-1]
	if lineStart > len(f.Text) {
		lineStart = len(f.Text)
	}
	end := offset
	if end > len(f.Text) {
		end = len(f.Text)
	}
	if end < lineStart {
		end = lineStart
	}
	column = len([]rune(f.Text[lineStart:end])) + 1
	return line, column
}

// DisplayColumn converts a 1-based rune column on line into the
// terminal display-column a caret should be drawn under: East-Asian
// wide/fullwidth runes count for two columns, everything else (narrow,
// halfwidth, neutral, ambiguous) counts for one. column is in the same
// 1-based rune units LineColumn returns, so callers can pass
// d.Pos.Column straight through.
func (f *File) DisplayColumn(line, column int) int {
	text := f.LineText(line)
	runes := []rune(text)
	upto := column - 1
	if upto > len(runes) {
		upto = len(runes)
	}
	display := 1
	for _, r := range runes[:upto] {
		if norm.NFC.Properties([]byte(string(r))).CCC() != 0 {
			// A combining mark rides on the preceding rune's cell.
			continue
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			display += 2
		default:
			display++
		}
	}
	return display
}

// LineRange returns the half-open [begin, end) byte range of the
// given 1-based line, or (0, 0, false) if the line does not exist.
func (f *File) LineRange(line int) (begin, end int, ok bool) {
	if line < 1 || line > len(f.lineStarts) {
		return 0, 0, false
	}
	begin = f.lineStarts[line-1]
	if line == len(f.lineStarts) {
		end = len(f.Text)
	} else {
		end = f.lineStarts[line] - 1 // exclude the newline itself
		if end < begin {
			end = begin
		}
	}
	return begin, end, true
}

// LineText returns the text of a single 1-based line, without its
// trailing newline.
func (f *File) LineText(line int) string {
	begin, end, ok := f.LineRange(line)
	if !ok {
		return ""
	}
	return f.Text[begin:end]
}

// Registry owns every source buffer seen during a compilation session.
// Registration is idempotent by canonical path, which is what the
// evaluator's module-compilation idempotence builds on: importing the
// same file twice resolves to the same registered buffer.
type Registry struct {
	files map[string]*File
	order []string
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{files: make(map[string]*File)}
}

// Canonical resolves path to an absolute, cleaned form suitable as a
// dedup key, resolving relative paths against base — the importing
// file's directory, as the module_expression handler does.
func Canonical(base, path string) string {
	p := path
	if !filepath.IsAbs(path) {
		p = filepath.Join(base, path)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// RegisterString registers an in-memory buffer under a caller-supplied
// name (used for REPL/CLI `-e` style inline sources and for tests).
// Re-registering the same name returns the existing File.
func (r *Registry) RegisterString(name, text string) *File {
	if f, ok := r.files[name]; ok {
		return f
	}
	f := newFile(name, text)
	r.files[name] = f
	r.order = append(r.order, name)
	return f
}

// RegisterFile reads and registers the file at the canonical path. If
// the canonical path was already registered, the existing File is
// returned and the file is not re-read from disk.
func (r *Registry) RegisterFile(path string) (*File, error) {
	canon := filepath.Clean(path)
	if f, ok := r.files[canon]; ok {
		return f, nil
	}
	data, err := os.ReadFile(canon)
	if err != nil {
		return nil, fmt.Errorf("source: cannot read %s: %w", canon, err)
	}
	f := newFile(canon, strings.TrimPrefix(string(data), "\xef\xbb\xbf"))
	r.files[canon] = f
	r.order = append(r.order, canon)
	return f, nil
}

// Lookup returns a previously registered file by canonical path.
func (r *Registry) Lookup(path string) (*File, bool) {
	f, ok := r.files[path]
	return f, ok
}

// IsRegistered reports whether path has already been registered,
// without reading it from disk.
func (r *Registry) IsRegistered(path string) bool {
	_, ok := r.files[path]
	return ok
}

// Position converts a File-relative byte offset into a full
// token.Position.
func (f *File) Position(offset int) token.Position {
	line, col := f.LineColumn(offset)
	return token.Position{Line: line, Column: col, Offset: offset}
}
