package diag

import (
	"strings"
	"testing"

	"github.com/doublelove22/basecode/internal/token"
	"github.com/tidwall/gjson"
)

func TestResult_FormatJSON(t *testing.T) {
	r := NewResult()
	r.Addf(P018, token.Position{Line: 4, Column: 2}, "x.bc", "non-namespace used as qualifier")

	out, err := r.FormatJSON(false)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	if !gjson.Valid(out) {
		t.Fatalf("FormatJSON produced invalid JSON: %s", out)
	}
	first := gjson.Get(out, "0")
	if first.Get("code").String() != "P018" {
		t.Fatalf("code = %q, want P018", first.Get("code").String())
	}
	if first.Get("location.line").Int() != 4 {
		t.Fatalf("location.line = %d, want 4", first.Get("location.line").Int())
	}
}

func TestResult_FormatJSONPretty(t *testing.T) {
	r := NewResult()
	r.Addf(P071, token.Position{Line: 1, Column: 1}, "x.bc", "node evaluation failed")
	out, err := r.FormatJSON(true)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	if !strings.Contains(out, "\n") {
		t.Fatalf("pretty output should contain newlines")
	}
}
