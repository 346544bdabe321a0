package fix

import (
	"mofix/internal/diag"
	"mofix/internal/source"
)

// TextEdit replaces Range in the current content of a file with NewText.
type TextEdit struct {
	Range   source.Range
	NewText string
}

// Deletes reports whether the edit only removes text.
func (e TextEdit) Deletes() bool {
	return e.NewText == ""
}

// CodeFix is an edit tagged with the diagnostic code that produced it.
type CodeFix struct {
	TextEdit
	Code diag.Code
}

// Delete builds a fix removing rng.
func Delete(code diag.Code, rng source.Range) CodeFix {
	return CodeFix{TextEdit: TextEdit{Range: rng}, Code: code}
}

// Replace builds a fix substituting text for rng.
func Replace(code diag.Code, rng source.Range, text string) CodeFix {
	return CodeFix{TextEdit: TextEdit{Range: rng, NewText: text}, Code: code}
}
