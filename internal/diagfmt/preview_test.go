package diagfmt

import (
	"bytes"
	"testing"
)

func TestBuildPreview(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		fixed     string
		start     int
		before    []string
		after     []string
	}{
		{
			name:     "single line",
			original: "a\nlet xs = List.empty<Nat>();\nb\n",
			fixed:    "a\nlet xs = List.empty();\nb\n",
			start:    1,
			before:   []string{"let xs = List.empty<Nat>();"},
			after:    []string{"let xs = List.empty();"},
		},
		{
			name:     "line removed",
			original: "f(\n  a,\n  Nat.compare,\n)\n",
			fixed:    "f(\n  a,\n)\n",
			start:    2,
			before:   []string{"  Nat.compare,"},
			after:    nil,
		},
		{
			name:     "edits far apart",
			original: "x<Nat>\nsame\ny<Nat>\n",
			fixed:    "x\nsame\ny\n",
			start:    0,
			before:   []string{"x<Nat>", "same", "y<Nat>"},
			after:    []string{"x", "same", "y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pv, ok := BuildPreview(tt.original, tt.fixed)
			if !ok {
				t.Fatal("expected a preview")
			}
			if pv.StartLine != tt.start || !equal(pv.Before, tt.before) || !equal(pv.After, tt.after) {
				t.Fatalf("got %+v", pv)
			}
		})
	}

	if _, ok := BuildPreview("same\n", "same\n"); ok {
		t.Fatal("equal texts produced a preview")
	}
}

func TestWritePreview(t *testing.T) {
	pv, _ := BuildPreview("a\nList.sort(xs, Nat.compare)\n", "a\nxs.sort()\n")
	var buf bytes.Buffer
	WritePreview(&buf, "src/Main.mo", pv, PrettyOpts{})
	want := "src/Main.mo:2\n- List.sort(xs, Nat.compare)\n+ xs.sort()\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
