package fix

import (
	"mofix/internal/diag"
	"mofix/internal/source"
)

// Phase orders fix kinds inside one round. PhaseDelete edits are applied
// first; PhaseRewrite diagnostics are remapped past them before synthesis.
type Phase uint8

const (
	PhaseDelete Phase = iota + 1
	PhaseRewrite
)

func (p Phase) String() string {
	switch p {
	case PhaseDelete:
		return "delete"
	case PhaseRewrite:
		return "rewrite"
	}
	return "unknown"
}

// SynthFunc computes the edit for one diagnostic against the current content
// of its file. It returns false when the text does not have the expected shape.
type SynthFunc func(d diag.Diagnostic, fc *source.FileContent) (TextEdit, bool)

// Kind describes one fixable diagnostic code.
type Kind struct {
	Code  diag.Code
	Phase Phase
	// Verifiable kinds take part in the count check after re-diagnosis.
	// Deleting a redundant instantiation can make the compiler report new
	// ones elsewhere, so those counts are not comparable.
	Verifiable bool
	Synthesize SynthFunc
}

var kinds = [...]Kind{
	{Code: diag.RedundantTypeInstantiation, Phase: PhaseDelete, Verifiable: false, Synthesize: deleteRange},
	{Code: diag.DotNotationAvailable, Phase: PhaseRewrite, Verifiable: true, Synthesize: dotNotation},
	{Code: diag.RedundantImplicitArgument, Phase: PhaseRewrite, Verifiable: true, Synthesize: dropArgument},
}

// Lookup returns the kind registered for code.
func Lookup(code diag.Code) (Kind, bool) {
	for _, k := range kinds {
		if k.Code == code {
			return k, true
		}
	}
	return Kind{}, false
}

// SupportedCodes lists every fixable code in registration order.
func SupportedCodes() []diag.Code {
	out := make([]diag.Code, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.Code)
	}
	return out
}

func inPhase(code diag.Code, phase Phase) bool {
	k, ok := Lookup(code)
	return ok && k.Phase == phase
}
