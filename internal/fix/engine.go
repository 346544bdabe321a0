// Package fix synthesizes and applies source edits for the compiler
// diagnostics it knows how to remediate.
package fix

import (
	"math"
	"slices"
	"sort"
	"unicode/utf16"

	"mofix/internal/diag"
	"mofix/internal/source"
)

// Batch is the outcome of applying a set of fixes to one file.
type Batch struct {
	Text    string            // new content; the input text when nothing applied
	Applied []CodeFix         // in application order (back to front)
	Skipped []CodeFix         // dropped because they overlap an applied fix
	Counts  map[diag.Code]int // applied fixes per code
}

// Changed reports whether at least one fix was applied.
func (b *Batch) Changed() bool {
	return len(b.Applied) > 0
}

// Apply applies fixes to fc back to front.
//
// All ranges are resolved against fc. Fixes are visited by start position,
// last first; a fix whose end lies past the start of an already applied fix
// overlaps it and is skipped. Overlaps are never merged.
func Apply(fc *source.FileContent, fixes []CodeFix) *Batch {
	batch := &Batch{
		Text:   fc.Text(),
		Counts: make(map[diag.Code]int),
	}
	if len(fixes) == 0 {
		return batch
	}

	ordered := slices.Clone(fixes)
	sortDescending(ordered)

	units := fc.Units()
	lowWater := math.MaxInt
	for _, f := range ordered {
		start := fc.Offset(f.Range.Start)
		end := max(fc.Offset(f.Range.End), start)
		if end > lowWater {
			batch.Skipped = append(batch.Skipped, f)
			continue
		}
		units = slices.Concat(units[:start], utf16.Encode([]rune(f.NewText)), units[end:])
		lowWater = start
		batch.Applied = append(batch.Applied, f)
		batch.Counts[f.Code]++
	}

	if len(batch.Applied) > 0 {
		batch.Text = string(utf16.Decode(units))
	}
	return batch
}

// sortDescending orders fixes by start position, last first.
// Equal starts keep their input order.
func sortDescending(fixes []CodeFix) {
	sort.SliceStable(fixes, func(i, j int) bool {
		return fixes[j].Range.Start.Before(fixes[i].Range.Start)
	})
}
