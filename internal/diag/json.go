package diag

import (
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FormatJSON renders every diagnostic in the result as a JSON array,
// one object per diagnostic with a {code, location, message} shape
// plus the detail/fatal fields this module tracks. Built with
// sjson.Set rather than encoding/json struct tags, and pretty-printed
// when prettyPrint is true.
func (r *Result) FormatJSON(prettyPrint bool) (string, error) {
	json := "[]"
	var err error
	for i, d := range r.diagnostics {
		base := fmt.Sprintf("%d", i)
		sets := []struct {
			path string
			val  any
		}{
			{base + ".code", string(d.Code)},
			{base + ".message", d.Message},
			{base + ".fatal", d.Fatal},
			{base + ".location.file", d.File},
			{base + ".location.line", d.Pos.Line},
			{base + ".location.column", d.Pos.Column},
		}
		if d.Detail != "" {
			sets = append(sets, struct {
				path string
				val  any
			}{base + ".detail", d.Detail})
		}
		for _, s := range sets {
			if json, err = sjson.Set(json, s.path, s.val); err != nil {
				return "", err
			}
		}
	}
	if prettyPrint {
		return string(pretty.Pretty([]byte(json))), nil
	}
	return json, nil
}
