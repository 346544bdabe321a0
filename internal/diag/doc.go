// Package diag defines the diagnostic model shared by the fixer and its callers.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - File – the path as printed by the compiler (not yet resolved against a file set).
//   - Range – zero-based, half-open source.Range in UTF-16 units.
//   - Code – compiler code such as "M0223" (see codes.go).
//   - Message – the remainder of the compiler line.
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//
// Identity is structural: two diagnostics with the same File, Range and Code
// are the same diagnostic (see Diagnostic.Key).
//
// # Parsing
//
// Parse reads compiler output of the form
//
//	<file>:<sl>.<sc>-<el>.<ec>: (type error|warning) [<code>], <message>
//
// one record per matching line. Positions in the text are 1-based and are
// converted to 0-based before leaving the package. Lines that do not match,
// or carry unusable numbers, are ignored.
//
// Package diag does no IO and no formatting beyond Diagnostic.String.
package diag
