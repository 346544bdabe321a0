package diag

import (
	"fmt"

	"mofix/internal/source"
)

// Diagnostic is one finding reported by the external compiler.
// Range is zero-based; File is the path exactly as the compiler printed it.
type Diagnostic struct {
	File     string
	Range    source.Range
	Code     Code
	Message  string
	Severity Severity
}

// Key identifies a diagnostic structurally (file, range, code).
func (d Diagnostic) Key() string {
	return fmt.Sprintf("%s:%s:%s", d.File, d.Range, d.Code)
}

func (d Diagnostic) String() string {
	// в выводе позиции снова 1-based, как у компилятора
	return fmt.Sprintf("%s:%d.%d-%d.%d: %s [%s], %s",
		d.File,
		d.Range.Start.Line+1, d.Range.Start.Character+1,
		d.Range.End.Line+1, d.Range.End.Character+1,
		d.Severity, d.Code, d.Message)
}
