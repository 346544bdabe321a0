// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"sort"
	"unicode/utf16"

	"mofix/internal/diag"
	"mofix/internal/fix"
	"mofix/internal/source"
)

// CheckDiagnostics verifies what the parser promises about every record:
// 1) positions are 0-based and non-negative
// 2) a range never ends before it starts
// 3) the code is set and upper-case
func CheckDiagnostics(diags []diag.Diagnostic) error {
	for i, d := range diags {
		r := d.Range
		if r.Start.Line < 0 || r.Start.Character < 0 || r.End.Line < 0 || r.End.Character < 0 {
			return fmt.Errorf("diag %d: negative position %s", i, r)
		}
		if r.End.Before(r.Start) {
			return fmt.Errorf("diag %d: range ends before start %s", i, r)
		}
		if d.Code == diag.UnknownCode {
			return fmt.Errorf("diag %d: empty code", i)
		}
		for _, ch := range d.Code {
			if ch >= 'a' && ch <= 'z' {
				return fmt.Errorf("diag %d: code %q is not upper-case", i, d.Code)
			}
		}
	}
	return nil
}

// CheckBatch verifies the outcome of fix.Apply(fc, fixes):
// 1) every fix is either applied or skipped
// 2) applied fixes do not overlap once resolved against fc
// 3) batch.Text equals fc with the applied fixes spliced in front to back
// 4) batch.Counts sums to the number of applied fixes
func CheckBatch(fc *source.FileContent, fixes []fix.CodeFix, batch *fix.Batch) error {
	if batch == nil {
		return fmt.Errorf("nil batch")
	}
	if got := len(batch.Applied) + len(batch.Skipped); got != len(fixes) {
		return fmt.Errorf("applied+skipped = %d, want %d", got, len(fixes))
	}

	type span struct {
		start, end int
		text       string
	}
	spans := make([]span, 0, len(batch.Applied))
	for _, f := range batch.Applied {
		start := fc.Offset(f.Range.Start)
		spans = append(spans, span{start: start, end: max(fc.Offset(f.Range.End), start), text: f.NewText})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return fmt.Errorf("applied fixes overlap: [%d,%d) and [%d,%d)",
				spans[i-1].start, spans[i-1].end, spans[i].start, spans[i].end)
		}
	}

	units := fc.Units()
	want := make([]uint16, 0, len(units))
	prev := 0
	for _, s := range spans {
		want = append(want, units[prev:s.start]...)
		want = append(want, utf16.Encode([]rune(s.text))...)
		prev = s.end
	}
	want = append(want, units[prev:]...)
	expected := string(utf16.Decode(want))
	if len(spans) == 0 {
		expected = fc.Text()
	}
	if batch.Text != expected {
		return fmt.Errorf("batch text mismatch:\n got %q\nwant %q", batch.Text, expected)
	}

	total := 0
	for _, n := range batch.Counts {
		total += n
	}
	if total != len(batch.Applied) {
		return fmt.Errorf("counts sum to %d, want %d", total, len(batch.Applied))
	}
	return nil
}
