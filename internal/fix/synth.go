package fix

import (
	"regexp"
	"strings"

	"mofix/internal/diag"
	"mofix/internal/source"
)

// deleteRange removes exactly the reported range.
func deleteRange(d diag.Diagnostic, _ *source.FileContent) (TextEdit, bool) {
	if d.Range.Empty() {
		return TextEdit{}, false
	}
	return TextEdit{Range: d.Range}, true
}

// "You can use the dot notation `list.sortInPlace(...)` here"
var dotHintRE = regexp.MustCompile("dot notation `(.+)\\.(.+)\\(\\.\\.\\.\\)`")

// dotNotation rewrites `M.f(recv, rest...)` into `recv.f(rest...)`.
func dotNotation(d diag.Diagnostic, fc *source.FileContent) (TextEdit, bool) {
	c, ok := parseCall(fc.TextAt(d.Range))
	if !ok || len(c.Args) == 0 || c.Args[0] == "" {
		return TextEdit{}, false
	}

	name := c.Name()
	if m := dotHintRE.FindStringSubmatch(d.Message); m != nil {
		name = m[2]
	}
	if name == "" {
		return TextEdit{}, false
	}

	recv := c.Args[0]
	if !simpleReceiver(recv) {
		recv = "(" + recv + ")"
	}
	var sb strings.Builder
	sb.WriteString(recv)
	sb.WriteByte('.')
	sb.WriteString(name)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(c.Args[1:], ", "))
	sb.WriteByte(')')
	return TextEdit{Range: d.Range, NewText: sb.String()}, true
}

var (
	// separator after the argument; the comma may sit on the next line
	trailingCommaRE = regexp.MustCompile(`^[ \t]*(\r?\n[ \t]*)?,[ \t]*`)
	// separator before a last argument
	leadingCommaRE = regexp.MustCompile(`,[ \t]*(\r?\n[ \t]*)?$`)
)

// dropArgument deletes one argument together with its separating comma.
// When nothing but whitespace is left around the deletion on its lines, the
// whole lines go, newline included.
func dropArgument(d diag.Diagnostic, fc *source.FileContent) (TextEdit, bool) {
	rng := d.Range
	if rng.Empty() {
		return TextEdit{}, false
	}
	start, end := fc.Offset(rng.Start), fc.Offset(rng.End)

	// совпадения только из ASCII, поэтому байты == UTF-16 units
	if m := trailingCommaRE.FindString(textAfter(fc, rng.End)); m != "" {
		rng.End = fc.PositionAt(end + len(m))
	} else if m := leadingCommaRE.FindString(textBefore(fc, rng.Start)); m != "" {
		rng.Start = fc.PositionAt(start - len(m))
	}

	before := fc.LineBefore(rng.Start.Line, rng.Start.Character)
	after := fc.LineAfter(rng.End.Line, rng.End.Character)
	if source.IsBlank(before) && source.IsBlank(after) {
		rng.Start.Character = 0
		rng.End = source.Position{Line: rng.End.Line + 1}
	}
	return TextEdit{Range: rng}, true
}

// textAfter returns the rest of pos's line plus the following line.
func textAfter(fc *source.FileContent, pos source.Position) string {
	rest := fc.LineAfter(pos.Line, pos.Character)
	if pos.Line+1 >= fc.LineCount() {
		return rest
	}
	return rest + "\n" + fc.LineAt(pos.Line+1)
}

// textBefore returns the previous line plus the head of pos's line.
func textBefore(fc *source.FileContent, pos source.Position) string {
	head := fc.LineBefore(pos.Line, pos.Character)
	if pos.Line == 0 {
		return head
	}
	return fc.LineAt(pos.Line-1) + "\n" + head
}
