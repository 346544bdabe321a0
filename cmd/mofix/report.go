package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mofix/internal/diag"
	"mofix/internal/diagfmt"
	"mofix/internal/driver"
	"mofix/internal/fix"
	"mofix/internal/observ"
	"mofix/internal/source"
)

// fixedOverlay serves the fixed content of a dry run to the compiler.
type fixedOverlay map[string]string

func (o fixedOverlay) Content(path string) (string, bool) {
	text, ok := o[path]
	return text, ok
}

func overlayOf(summary *driver.Summary) driver.Overlay {
	if summary == nil || summary.Written {
		return nil
	}
	o := make(fixedOverlay, len(summary.Files))
	for _, ch := range summary.Files {
		o[ch.Path] = ch.Fixed
	}
	return o
}

func printSummary(out io.Writer, summary *driver.Summary, quiet bool) {
	if summary == nil {
		if !quiet {
			fmt.Fprintln(out, "no fixes applied")
		}
		return
	}
	verb := "fixed"
	if !summary.Written {
		verb = "would fix"
	}
	if !quiet {
		for _, ch := range summary.Files {
			fmt.Fprintf(out, "%s %s\n", okColor.Sprint("✎"), pathColor.Sprint(ch.Path))
		}
	}
	codes := summary.Codes()
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s: %d", code, summary.FixedErrorCounts[code]))
	}
	fmt.Fprintf(out, "%s %d diagnostics in %d files (%s) after %d rounds\n",
		verb, summary.FixedTotal(), len(summary.Files), strings.Join(parts, ", "), summary.Rounds)
	for _, w := range summary.Warnings {
		fmt.Fprintln(out, warnColor.Sprint("warning: ")+w)
	}
}

// printPreviews shows the rewritten lines of every file of a dry run.
func printPreviews(out io.Writer, summary *driver.Summary, width int) {
	if summary == nil {
		return
	}
	opts := diagfmt.PrettyOpts{Color: !color.NoColor, Width: width}
	for _, ch := range summary.Files {
		if pv, ok := diagfmt.BuildPreview(ch.Original, ch.Fixed); ok {
			diagfmt.WritePreview(out, ch.Path, pv, opts)
		}
	}
}

// loadSources reads files for source context, preferring overlay content.
// Unreadable files are left out; their diagnostics print without context.
func loadSources(files []string, overlay driver.Overlay) *source.FileSet {
	set := source.NewFileSet()
	for _, path := range files {
		if overlay != nil {
			if text, ok := overlay.Content(path); ok {
				set.Set(path, text)
				continue
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		set.Set(path, string(data))
	}
	return set
}

// printUnfixed lists the diagnostics of known codes that are still in output.
// With sources set every diagnostic gets its source line; otherwise width > 0
// truncates each line to the terminal.
func printUnfixed(out io.Writer, output string, sources *source.FileSet, width int) int {
	bag := diag.ParseBag(output).Filter(func(d diag.Diagnostic) bool {
		_, ok := fix.Lookup(d.Code)
		return ok
	})
	bag.Dedup()
	bag.Sort()
	if bag.Len() == 0 {
		return 0
	}
	fmt.Fprintf(out, "%s %d fixable diagnostics left:\n", warnColor.Sprint("!"), bag.Len())
	if sources != nil {
		diagfmt.Pretty(out, bag, sources, diagfmt.PrettyOpts{Color: !color.NoColor, Context: 1})
		return bag.Len()
	}
	for _, d := range bag.Items() {
		fmt.Fprintln(out, "  "+formatDiagnostic(d, width-2))
	}
	return bag.Len()
}

// formatDiagnostic renders d as "file:line.col [code] message", truncated to
// width display cells when width > 0.
func formatDiagnostic(d diag.Diagnostic, width int) string {
	loc := fmt.Sprintf("%s:%d.%d", d.File, d.Range.Start.Line+1, d.Range.Start.Character+1)
	line := fmt.Sprintf("%s [%s] %s", loc, d.Code, d.Message)
	if width > 0 && runewidth.StringWidth(line) > width {
		line = runewidth.Truncate(line, width, "…")
	}
	return strings.Replace(line, loc, pathColor.Sprint(loc), 1)
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if timer == nil || len(timer.Phases()) == 0 {
		return
	}
	fmt.Fprint(out, dimColor.Sprint(timer.Summary()))
}
