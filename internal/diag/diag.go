// Package diag implements an accumulating diagnostic result: a single
// result collecting {code, text, detail, fatal} records, with
// source-context + caret rendering for terminal output.
package diag

import (
	"fmt"
	"strings"

	"github.com/doublelove22/basecode/internal/source"
	"github.com/doublelove22/basecode/internal/token"
)

// Code is one of the stable diagnostic identifiers the parser and
// evaluator report.
type Code string

const (
	P001 Code = "P001" // program root must be a program node
	P002 Code = "P002" // unknown type
	P014 Code = "P014" // invalid parameter declaration
	P018 Code = "P018" // non-namespace used as qualifier
	P019 Code = "P019" // unable to infer type
	P027 Code = "P027" // assignment target/source arity mismatch
	P041 Code = "P041" // invalid numeric literal
	P071 Code = "P071" // ast node evaluation failed
	B016 Code = "B016" // expected token X but found Y
	B021 Code = "B021" // no prefix/infix parselet
	B027 Code = "B027" // type expected
	C021 Code = "C021" // unable to load module
	C024 Code = "C024" // invalid statement
)

// fatalCodes lists the codes that halt compilation of the enclosing
// unit: arity mismatches on assignment, unresolved types used as
// annotations, malformed literals, and unparseable tokens. Everything
// else defaults to non-fatal, so the parser/evaluator can continue and
// collect further diagnostics in the same pass.
var fatalCodes = map[Code]bool{
	P027: true,
	P002: true,
	P041: true,
	B021: true,
	B016: true,
}

// Diagnostic is a single {code, location, message} record plus a
// free-text detail and a fatal flag.
type Diagnostic struct {
	Code    Code
	Message string
	Detail  string
	Pos     token.Position
	File    string
	Fatal   bool
}

// NewDiagnostic constructs a Diagnostic, defaulting Fatal from the
// code's classification in fatalCodes (callers may still override it
// for a specific occurrence).
func NewDiagnostic(code Code, pos token.Position, file, message string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Pos:     pos,
		File:    file,
		Fatal:   fatalCodes[code],
	}
}

func (d Diagnostic) Error() string {
	return d.Format(false, nil)
}

// Format renders a single diagnostic with optional ANSI color and
// optional source context (a *source.File, for the caret indicator).
func (d Diagnostic) Format(color bool, file *source.File) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "[%s] %s:%d:%d\n", d.Code, d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "[%s] %d:%d\n", d.Code, d.Pos.Line, d.Pos.Column)
	}

	if file != nil {
		line := file.LineText(d.Pos.Line)
		if line != "" {
			lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+file.DisplayColumn(d.Pos.Line, d.Pos.Column)-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	if d.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(d.Detail)
		sb.WriteString(")")
	}

	return sb.String()
}

// Result is the single accumulating diagnostic result a Session owns.
// Evaluator handlers and the parser both append to it through
// Add/Addf.
type Result struct {
	diagnostics []Diagnostic
}

// NewResult constructs an empty Result.
func NewResult() *Result {
	return &Result{}
}

// Add appends a diagnostic to the result.
func (r *Result) Add(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// Addf is a convenience wrapper constructing and appending a
// Diagnostic from a code, position, file and formatted message.
func (r *Result) Addf(code Code, pos token.Position, file, format string, args ...any) {
	r.Add(NewDiagnostic(code, pos, file, fmt.Sprintf(format, args...)))
}

// Diagnostics returns every diagnostic collected so far, in the order
// they were added.
func (r *Result) Diagnostics() []Diagnostic {
	return r.diagnostics
}

// HasErrors reports whether any diagnostic was recorded.
func (r *Result) HasErrors() bool {
	return len(r.diagnostics) > 0
}

// HasFatal reports whether any recorded diagnostic is fatal.
func (r *Result) HasFatal() bool {
	for _, d := range r.diagnostics {
		if d.Fatal {
			return true
		}
	}
	return false
}

// FormatAll renders every diagnostic in the result, looking up source
// context per-diagnostic from registry when non-nil.
func (r *Result) FormatAll(color bool, registry *source.Registry) string {
	if len(r.diagnostics) == 0 {
		return ""
	}
	var sb strings.Builder
	if len(r.diagnostics) > 1 {
		fmt.Fprintf(&sb, "%d diagnostic(s):\n\n", len(r.diagnostics))
	}
	for i, d := range r.diagnostics {
		var file *source.File
		if registry != nil {
			if f, ok := registry.Lookup(d.File); ok {
				file = f
			}
		}
		sb.WriteString(d.Format(color, file))
		if i < len(r.diagnostics)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
