package source

import "testing"

func TestFileSetReplacesSnapshot(t *testing.T) {
	fs := NewFileSet()
	first := fs.Set("a.mo", "one")
	second := fs.Set("a.mo", "two")

	got, ok := fs.Get("a.mo")
	if !ok {
		t.Fatal("expected a.mo to exist")
	}
	if got != second || got == first {
		t.Fatal("Get must return the latest snapshot")
	}
	if first.Text() != "one" {
		t.Fatal("old snapshot must stay unchanged")
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSetFrom(map[string]string{
		"/work/src/Main.mo": "",
		"lib/Util.mo":       "",
		"barfoo.mo":         "",
	})

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/work/src/Main.mo", "/work/src/Main.mo", true},
		{"src/Main.mo", "/work/src/Main.mo", true},
		{"./lib/Util.mo", "lib/Util.mo", true},
		{"/abs/project/lib/Util.mo", "lib/Util.mo", true},
		{"foo.mo", "", false},
		{"Other.mo", "", false},
	}
	for _, tt := range tests {
		got, ok := fs.Resolve(tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFileSetDelete(t *testing.T) {
	fs := NewFileSetFrom(map[string]string{"a.mo": "x", "b.mo": "y"})
	fs.Delete("a.mo")
	if fs.Len() != 1 {
		t.Fatalf("expected 1 file, got %d", fs.Len())
	}
	if _, ok := fs.Resolve("a.mo"); ok {
		t.Fatal("deleted file must not resolve")
	}
	if keys := fs.Keys(); len(keys) != 1 || keys[0] != "b.mo" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
