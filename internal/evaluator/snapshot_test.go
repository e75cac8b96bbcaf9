package evaluator

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/doublelove22/basecode/internal/elements"
	"github.com/gkampitakis/go-snaps/snaps"
)

// dumpStore renders every element in store as "#id Kind \"Name\"",
// ordered by id for stable output, the same shape cmd/basecode's
// `compile --dump-elements` prints.
func dumpStore(store *elements.Store) string {
	var ids []uint64
	store.Walk(func(e *elements.Element) { ids = append(ids, e.ID) })
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for _, id := range ids {
		e := store.MustGet(id)
		if e.Name != "" {
			fmt.Fprintf(&sb, "#%d %s %q\n", e.ID, e.Kind, e.Name)
		} else {
			fmt.Fprintf(&sb, "#%d %s\n", e.ID, e.Kind)
		}
	}
	return sb.String()
}

// TestEvaluate_MatchesElementGraphSnapshots elaborates a handful of
// representative programs and snapshots the resulting element graph,
// the same way the teacher snapshots interpreter output per fixture.
func TestEvaluate_MatchesElementGraphSnapshots(t *testing.T) {
	cases := map[string]string{
		"declarations_and_folding": `
x := 1 + 2 * 3;
y := 2.5;
z := -x;
`,
		"proc_and_struct": `
add := proc(a: u32, b: u32): u32 { return a + b; };
Point := struct { x: u32; y: u32; };
`,
		"namespace_and_qualifier": `
core := namespace {
	v := 1;
};
core::v := 2;
`,
		"control_flow": `
cond := true;
if cond {
	a := 1;
} else {
	a := 0;
}
outer: while cond {
	break;
}
`,
	}

	for name, src := range cases {
		src := src
		t.Run(name, func(t *testing.T) {
			_, mgr, diags, ok := compile(t, src)
			if !ok {
				t.Fatalf("unexpected diagnostics for %s: %v", name, diags.Diagnostics())
			}
			snaps.MatchSnapshot(t, name, dumpStore(mgr.Store))
		})
	}
}
