package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

// String returns the keyword the compiler uses for the severity.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "type error"
	}
	return "unknown"
}

func parseSeverity(s string) Severity {
	if strings.EqualFold(s, "warning") {
		return SevWarning
	}
	return SevError
}
