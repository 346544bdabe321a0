package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"

	"mofix/internal/diag"
	"mofix/internal/driver"
	"mofix/internal/source"
)

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.mo", "a.mo", "notes.txt", "sub/c.mo", ".mops/core/d.mo"} {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	explicit := filepath.Join(root, "notes.txt")

	files, err := collectFiles([]string{root, explicit, filepath.Join(root, "a.mo")})
	if err != nil {
		t.Fatalf("collectFiles: %v", err)
	}
	want := []string{
		filepath.Join(root, "a.mo"),
		filepath.Join(root, "b.mo"),
		filepath.Join(root, "sub", "c.mo"),
		explicit,
	}
	if strings.Join(files, "\n") != strings.Join(want, "\n") {
		t.Fatalf("files = %v, want %v", files, want)
	}

	if _, err := collectFiles([]string{filepath.Join(root, "missing.mo")}); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestReadColorMode(t *testing.T) {
	tests := map[string]colorMode{"": colorModeAuto, "AUTO": colorModeAuto, "on": colorModeOn, "never": colorModeOff}
	for in, want := range tests {
		got, err := readColorMode(in)
		if err != nil || got != want {
			t.Errorf("readColorMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readColorMode("rainbow"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestFormatDiagnosticTruncates(t *testing.T) {
	color.NoColor = true
	d := diag.Diagnostic{
		File:    "src/Main.mo",
		Range:   source.Range{Start: source.Position{Line: 2, Character: 4}},
		Code:    diag.DotNotationAvailable,
		Message: "You can use the dot notation `List.sort(...)` here, 名前付き",
	}
	full := formatDiagnostic(d, 0)
	if full != "src/Main.mo:3.5 [M0236] "+d.Message {
		t.Fatalf("full = %q", full)
	}
	short := formatDiagnostic(d, 30)
	if !strings.HasSuffix(short, "…") || len([]rune(short)) > 30 {
		t.Fatalf("short = %q", short)
	}
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true
	summary := &driver.Summary{
		Files: []driver.FileChange{{Path: "a.mo"}, {Path: "b.mo"}},
		FixedErrorCounts: map[diag.Code]int{
			diag.RedundantImplicitArgument:  1,
			diag.RedundantTypeInstantiation: 2,
		},
		Rounds:   3,
		Warnings: []string{"incorrect error count for fix code M0237: 1 != 2 - 0"},
	}
	var buf bytes.Buffer
	printSummary(&buf, summary, false)
	want := "✎ a.mo\n✎ b.mo\n" +
		"would fix 3 diagnostics in 2 files (M0223: 2, M0237: 1) after 3 rounds\n" +
		"warning: incorrect error count for fix code M0237: 1 != 2 - 0\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	printSummary(&buf, nil, true)
	if buf.Len() != 0 {
		t.Fatalf("quiet nil summary printed %q", buf.String())
	}
}

func TestPrintUnfixedKeepsKnownCodes(t *testing.T) {
	color.NoColor = true
	output := "a.mo:1.1-1.5: warning [M0223], redundant\n" +
		"a.mo:1.1-1.5: warning [M0223], redundant\n" +
		"a.mo:2.1-2.5: warning [M0194], unused identifier\n"
	var buf bytes.Buffer
	if n := printUnfixed(&buf, output, nil, 0); n != 1 {
		t.Fatalf("n = %d, output %q", n, buf.String())
	}
	if !strings.Contains(buf.String(), "a.mo:1.1 [M0223] redundant") {
		t.Fatalf("output = %q", buf.String())
	}
}

const fakeMoc = `#!/bin/sh
if grep -q '<Nat>' "$2"; then
  echo "$2:1.20-1.25: warning [M0223], redundant type instantiation" >&2
fi
exit 0
`

func TestFixCommandEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}
	moc, src := writeFakeProject(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"fix", "--dry-run=false", "--color", "off", "--moc", moc, src})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("fix: %v\n%s", err, out.String())
	}

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "let xs = List.empty();\n" {
		t.Fatalf("source = %q", data)
	}
	if !strings.Contains(out.String(), "fixed 1 diagnostics in 1 files (M0223: 1) after 2 rounds") {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"check", "--color", "off", "--moc", moc, src})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("check: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "✓ "+src) {
		t.Fatalf("check output = %q", out.String())
	}
}

func TestFixCommandDryRunPreview(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}
	moc, src := writeFakeProject(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"fix", "--dry-run", "--color", "off", "--moc", moc, src})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("fix: %v\n%s", err, out.String())
	}

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "let xs = List.empty<Nat>();\n" {
		t.Fatalf("dry run wrote the file: %q", data)
	}
	for _, want := range []string{
		src + ":1\n- let xs = List.empty<Nat>();\n+ let xs = List.empty();\n",
		"would fix 1 diagnostics in 1 files (M0223: 1) after 2 rounds",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output %q lacks %q", out.String(), want)
		}
	}
	if strings.Contains(out.String(), "fixable diagnostics left") {
		t.Fatalf("fixed content was not used for the final check:\n%s", out.String())
	}
}

func writeFakeProject(t *testing.T) (moc, src string) {
	t.Helper()
	dir := t.TempDir()
	moc = filepath.Join(dir, "moc")
	if err := os.WriteFile(moc, []byte(fakeMoc), 0o755); err != nil {
		t.Fatalf("write moc: %v", err)
	}
	src = filepath.Join(dir, "Main.mo")
	if err := os.WriteFile(src, []byte("let xs = List.empty<Nat>();\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return moc, src
}
