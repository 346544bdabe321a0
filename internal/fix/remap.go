package fix

import (
	"mofix/internal/diag"
	"mofix/internal/source"
)

// Remap moves diagnostics computed against the text before applied was
// applied onto the text after it.
//
// Only single-line deletions are accounted for: a position is shifted left by
// the length of every such deletion on its line that starts at or before it.
// A deletion that straddles the position moves it to the deletion start.
// Start and end are shifted independently. Multi-line or non-empty edits are
// ignored, so new kinds producing them in PhaseDelete need a better remapper.
func Remap(diags []diag.Diagnostic, applied []CodeFix) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		d.Range.Start = shiftLeft(d.Range.Start, applied)
		d.Range.End = shiftLeft(d.Range.End, applied)
		out[i] = d
	}
	return out
}

func shiftLeft(pos source.Position, applied []CodeFix) source.Position {
	shift := 0
	for _, f := range applied {
		r := f.Range
		if !f.Deletes() || !r.SingleLine() || r.Start.Line != pos.Line {
			continue
		}
		if r.Start.Character > pos.Character {
			continue
		}
		shift += min(r.End.Character-r.Start.Character, pos.Character-r.Start.Character)
	}
	pos.Character = max(pos.Character-shift, 0)
	return pos
}
