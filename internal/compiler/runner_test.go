package compiler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"mofix/internal/diag"
	"mofix/internal/driver"
)

const fakeMoc = `#!/bin/sh
file="$2"
[ -n "$FAKE_MOC_LOG" ] && echo "$file" >> "$FAKE_MOC_LOG"
if grep -q '<Nat>' "$file"; then
  echo "$file:1.11-1.16: warning [M0223], redundant type instantiation" >&2
fi
if grep -q 'boom' "$file"; then
  echo "$file:1.1-1.5: type error [M0001], boom" >&2
  echo "stdout tail"
  exit 1
fi
exit 0
`

type mapOverlay map[string]string

func (m mapOverlay) Content(path string) (string, bool) {
	text, ok := m[path]
	return text, ok
}

// setupFakeMoc writes the fake compiler and returns a Runner working in a
// fresh directory plus the path of the invocation log.
func setupFakeMoc(t *testing.T) (*Runner, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}
	bin := t.TempDir()
	moc := filepath.Join(bin, "moc")
	if err := os.WriteFile(moc, []byte(fakeMoc), 0o755); err != nil {
		t.Fatalf("write fake moc: %v", err)
	}
	log := filepath.Join(bin, "calls.log")
	t.Setenv("FAKE_MOC_LOG", log)
	return &Runner{Path: moc, Dir: t.TempDir(), Args: []string{"-W=M0223"}}, log
}

func put(t *testing.T, r *Runner, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(r.Dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func calls(t *testing.T, log string) []string {
	t.Helper()
	data, err := os.ReadFile(log)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return strings.Fields(string(data))
}

func TestCheckExitCodeAndOutput(t *testing.T) {
	r, _ := setupFakeMoc(t)
	put(t, r, "bad.mo", "boom")
	put(t, r, "good.mo", "let x = 1;")

	res, err := r.Check(context.Background(), "bad.mo")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.OK() || res.ExitCode != 1 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	want := "bad.mo:1.1-1.5: type error [M0001], boom\nstdout tail"
	if res.Output != want {
		t.Fatalf("output = %q, want %q", res.Output, want)
	}

	res, err = r.Check(context.Background(), "good.mo")
	if err != nil || !res.OK() || res.Output != "" {
		t.Fatalf("good file: %+v %v", res, err)
	}
}

func TestDiagnoseShadowsOverlayContent(t *testing.T) {
	r, log := setupFakeMoc(t)
	put(t, r, "a.mo", "List.empty()")

	overlay := mapOverlay{"a.mo": "List.empty<Nat>()"}
	out, err := r.Diagnose(context.Background(), []string{"a.mo"}, overlay)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	want := "a.mo:1.11-1.16: warning [M0223], redundant type instantiation"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}

	seen := calls(t, log)
	if len(seen) != 1 || !strings.Contains(seen[0], ".a.mofix-") || !strings.HasSuffix(seen[0], ".mo") {
		t.Fatalf("compiler saw %v", seen)
	}
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("shadow file left behind: %v", entries)
	}
	if data, _ := os.ReadFile(filepath.Join(r.Dir, "a.mo")); string(data) != "List.empty()" {
		t.Fatalf("original file touched: %q", data)
	}
}

func TestDiagnoseKeepsInputOrder(t *testing.T) {
	r, _ := setupFakeMoc(t)
	r.Jobs = 2
	names := []string{"c.mo", "a.mo", "clean.mo", "b.mo"}
	for _, name := range names {
		content := "List.empty<Nat>()"
		if name == "clean.mo" {
			content = "List.empty()"
		}
		put(t, r, name, content)
	}

	out, err := r.Diagnose(context.Background(), names, nil)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out)
	}
	for i, want := range []string{"c.mo:", "a.mo:", "b.mo:"} {
		if !strings.HasPrefix(lines[i], want) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], want)
		}
	}
}

func TestCheckUsesDiskCache(t *testing.T) {
	r, log := setupFakeMoc(t)
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	r.Cache = cache
	put(t, r, "a.mo", "List.empty<Nat>()")

	first, err := r.Check(context.Background(), "a.mo")
	if err != nil || first.Cached {
		t.Fatalf("first: %+v %v", first, err)
	}
	second, err := r.Check(context.Background(), "a.mo")
	if err != nil || !second.Cached || second.Output != first.Output {
		t.Fatalf("second: %+v %v", second, err)
	}
	if n := len(calls(t, log)); n != 1 {
		t.Fatalf("compiler ran %d times", n)
	}

	put(t, r, "a.mo", "List.empty()")
	third, err := r.Check(context.Background(), "a.mo")
	if err != nil || third.Cached || third.Output != "" {
		t.Fatalf("third: %+v %v", third, err)
	}

	// overlay content equal to an earlier disk snapshot hits the same entry
	overlay := mapOverlay{"a.mo": "List.empty<Nat>()"}
	for i := 0; i < 2; i++ {
		out, err := r.Diagnose(context.Background(), []string{"a.mo"}, overlay)
		if err != nil || !strings.HasPrefix(out, "a.mo:1.11-1.16") {
			t.Fatalf("diagnose %d: %q %v", i, out, err)
		}
	}
	if n := len(calls(t, log)); n != 2 {
		t.Fatalf("compiler ran %d times", n)
	}
}

func TestMissingCompiler(t *testing.T) {
	r := &Runner{Path: filepath.Join(t.TempDir(), "no-such-moc")}
	if _, err := r.Check(context.Background(), "a.mo"); err == nil {
		t.Fatal("expected an error for a missing compiler")
	}
}

func TestUnshadow(t *testing.T) {
	out := "src/.Main.mofix-123.mo:1.1-1.2: warning [M0223], x\n" +
		"/abs/src/.Main.mofix-123.mo:2.1-2.2: warning [M0223], y\n" +
		"note: .Main.mofix-123.mo"
	got := unshadow(out, "src/.Main.mofix-123.mo", "/abs/src/.Main.mofix-123.mo", "src/Main.mo")
	want := "src/Main.mo:1.1-1.2: warning [M0223], x\n" +
		"src/Main.mo:2.1-2.2: warning [M0223], y\n" +
		"note: Main.mo"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// importingMoc also reports the warnings of B.mo, read from disk, whenever
// the checked file imports it.
const importingMoc = `#!/bin/sh
file="$2"
if grep -q '<Nat>' "$file"; then
  echo "$file:1.20-1.25: warning [M0223], redundant type instantiation" >&2
fi
if grep -q 'import' "$file" && grep -q '<Nat>' B.mo; then
  echo "B.mo:1.20-1.25: warning [M0223], redundant type instantiation" >&2
fi
exit 0
`

func setupImportingMoc(t *testing.T) *Runner {
	t.Helper()
	r, _ := setupFakeMoc(t)
	if err := os.WriteFile(r.Path, []byte(importingMoc), 0o755); err != nil {
		t.Fatalf("write fake moc: %v", err)
	}
	put(t, r, "A.mo", "import B \"B\";\nlet x = 1;\n")
	put(t, r, "B.mo", "let a = List.empty<Nat>();\nlet b = 1;\n")
	return r
}

func TestDiagnoseKeepsOnlyOwnDiagnostics(t *testing.T) {
	r := setupImportingMoc(t)

	out, err := r.Diagnose(context.Background(), []string{"A.mo", "B.mo"}, nil)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	want := "B.mo:1.20-1.25: warning [M0223], redundant type instantiation"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}

	// the plain check still shows everything the compiler printed
	res, err := r.Check(context.Background(), "A.mo")
	if err != nil || res.Output != want {
		t.Fatalf("Check(A.mo) = %+v, %v", res, err)
	}
}

func TestAutofixWithImportedFile(t *testing.T) {
	r := setupImportingMoc(t)

	summary, err := driver.Autofix(context.Background(), []string{"A.mo", "B.mo"}, r.Diagnose,
		&driver.Options{BaseDir: r.Dir})
	if err != nil {
		t.Fatalf("Autofix: %v", err)
	}
	if summary == nil {
		t.Fatal("expected changes")
	}
	if summary.Rounds != 2 {
		t.Errorf("rounds = %d, want 2", summary.Rounds)
	}
	if got := summary.FixedErrorCounts[diag.RedundantTypeInstantiation]; got != 1 || len(summary.FixedErrorCounts) != 1 {
		t.Errorf("counts = %v", summary.FixedErrorCounts)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("warnings = %v", summary.Warnings)
	}
	data, err := os.ReadFile(filepath.Join(r.Dir, "B.mo"))
	if err != nil {
		t.Fatalf("read B.mo: %v", err)
	}
	if string(data) != "let a = List.empty();\nlet b = 1;\n" {
		t.Fatalf("B.mo = %q", data)
	}
}

func TestJoinStreams(t *testing.T) {
	tests := []struct {
		stderr, stdout, want string
	}{
		{"err\n", "out\n", "err\nout"},
		{"err\n", "", "err"},
		{"", "  out\n", "out"},
		{"\n", "\n", ""},
	}
	for _, tt := range tests {
		if got := joinStreams(tt.stderr, tt.stdout); got != tt.want {
			t.Errorf("joinStreams(%q, %q) = %q, want %q", tt.stderr, tt.stdout, got, tt.want)
		}
	}
}
