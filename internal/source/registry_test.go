package source

import "testing"

func TestRegistry_RegisterStringIdempotent(t *testing.T) {
	r := NewRegistry()
	a := r.RegisterString("<eval>", "x := 1;")
	b := r.RegisterString("<eval>", "y := 2;")
	if a != b {
		t.Fatalf("re-registering the same name should return the same *File")
	}
	if a.Text != "x := 1;" {
		t.Fatalf("first registration's text should win, got %q", a.Text)
	}
}

func TestFile_LineColumn(t *testing.T) {
	f := newFile("t", "abc\ndef\nghi")
	line, col := f.LineColumn(0)
	if line != 1 || col != 1 {
		t.Fatalf("offset 0: got %d:%d, want 1:1", line, col)
	}
	line, col = f.LineColumn(4) // 'd'
	if line != 2 || col != 1 {
		t.Fatalf("offset 4: got %d:%d, want 2:1", line, col)
	}
	line, col = f.LineColumn(9) // 'h'
	if line != 3 || col != 2 {
		t.Fatalf("offset 9: got %d:%d, want 3:2", line, col)
	}
}

func TestFile_LineRangesDisjoint(t *testing.T) {
	f := newFile("t", "abc\ndef\nghi")
	seen := map[int]bool{}
	for line := 1; line <= 3; line++ {
		begin, end, ok := f.LineRange(line)
		if !ok {
			t.Fatalf("line %d should exist", line)
		}
		for i := begin; i < end; i++ {
			if seen[i] {
				t.Fatalf("offset %d covered by more than one line range", i)
			}
			seen[i] = true
		}
	}
}

func TestFile_LineText(t *testing.T) {
	f := newFile("t", "abc\ndef\nghi")
	if got := f.LineText(2); got != "def" {
		t.Fatalf("LineText(2) = %q, want %q", got, "def")
	}
	if got := f.LineText(3); got != "ghi" {
		t.Fatalf("LineText(3) = %q, want %q", got, "ghi")
	}
}

func TestFile_DisplayColumnCountsWideRunesTwice(t *testing.T) {
	f := newFile("t", "中x\n")
	// column 1 is before any rune; column 3 is after the wide rune and
	// the narrow 'x', so it should be 1 (start) + 2 (wide) + 1 (narrow).
	if got := f.DisplayColumn(1, 1); got != 1 {
		t.Fatalf("DisplayColumn(1,1) = %d, want 1", got)
	}
	if got := f.DisplayColumn(1, 3); got != 4 {
		t.Fatalf("DisplayColumn(1,3) = %d, want 4", got)
	}
}

func TestCanonical_RelativeResolvesAgainstBase(t *testing.T) {
	got := Canonical("/a/b", "c.bc")
	if got != "/a/b/c.bc" {
		t.Fatalf("got %q", got)
	}
}
