package diagfmt

import (
	"fmt"
	"io"
	"strings"
)

// Preview is the block of lines a fix run rewrote in one file.
// Lines outside the block are identical before and after.
type Preview struct {
	StartLine int // 0-based first line of the block
	Before    []string
	After     []string
}

// BuildPreview trims the lines original and fixed share at both ends.
// ok is false when the texts are equal.
func BuildPreview(original, fixed string) (Preview, bool) {
	if original == fixed {
		return Preview{}, false
	}
	before := splitPreviewLines(original)
	after := splitPreviewLines(fixed)

	head := 0
	for head < len(before) && head < len(after) && before[head] == after[head] {
		head++
	}
	tail := 0
	for tail < len(before)-head && tail < len(after)-head &&
		before[len(before)-1-tail] == after[len(after)-1-tail] {
		tail++
	}
	return Preview{
		StartLine: head,
		Before:    before[head : len(before)-tail],
		After:     after[head : len(after)-tail],
	}, true
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	// завершающий \n не даёт отдельной пустой строки
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// WritePreview prints "path:line" followed by removed and added lines.
func WritePreview(w io.Writer, path string, pv Preview, opts PrettyOpts) {
	p := printer{w: w, opts: opts}
	loc := fmt.Sprintf("%s:%d", displayPath(path, opts), pv.StartLine+1)
	fmt.Fprintln(w, p.paint(pathStyle, loc))
	for _, line := range pv.Before {
		fmt.Fprintln(w, p.paint(removedStyle, p.truncate("- "+expandTabs(line))))
	}
	for _, line := range pv.After {
		fmt.Fprintln(w, p.paint(addedStyle, p.truncate("+ "+expandTabs(line))))
	}
}
