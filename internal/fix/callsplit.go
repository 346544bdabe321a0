package fix

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// callee path, then everything between the first '(' and the final ')'
var callRE = regexp.MustCompile(`^([\w.]+)\s*\(([\s\S]*)\)$`)

// call is a parsed `callee(args...)` expression.
type call struct {
	Callee string
	Args   []string // trimmed, top-level arguments
}

// Name returns the last segment of the callee path.
func (c call) Name() string {
	if i := strings.LastIndexByte(c.Callee, '.'); i >= 0 {
		return c.Callee[i+1:]
	}
	return c.Callee
}

// parseCall recognizes `path.to.f(a, b, ...)`. It fails when the parentheses
// around the arguments do not belong together, e.g. `f(a)(b)`.
func parseCall(text string) (call, bool) {
	m := callRE.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return call{}, false
	}
	args, ok := splitArgs(m[2])
	if !ok {
		return call{}, false
	}
	return call{Callee: m[1], Args: args}, true
}

// splitArgs splits an argument list on top-level commas.
//
// Nesting of (), [] and {} is tracked; commas inside string literals,
// character literals and comments do not split. The result is nil for an
// empty list. ok is false when brackets are unbalanced.
func splitArgs(s string) ([]string, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	var (
		args  []string
		depth int
		start int
	)
	for sc := newScanner(s); !sc.done(); {
		i, r := sc.next()
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, false
	}
	return append(args, strings.TrimSpace(s[start:])), true
}

// simpleReceiver reports whether expr can take a `.method` suffix without
// parentheses: a postfix chain of names, literals, fields, calls and indexing.
func simpleReceiver(expr string) bool {
	if expr == "" {
		return false
	}
	depth := 0
	for sc := newScanner(expr); !sc.done(); {
		_, r := sc.next()
		switch {
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case depth > 0:
		case r == '.' || r == '_' || r == '"' || r == '\'':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		default:
			return false
		}
	}
	return depth == 0
}

// scanner walks source text rune by rune and steps over string literals,
// character literals and comments as a whole. A literal or comment is
// reported as its opening rune only.
type scanner struct {
	s   string
	pos int
}

func newScanner(s string) *scanner {
	return &scanner{s: s}
}

func (sc *scanner) done() bool {
	return sc.pos >= len(sc.s)
}

// next returns the byte offset and the rune at the current position and
// advances past it, or past the whole literal/comment it opens.
func (sc *scanner) next() (int, rune) {
	start := sc.pos
	r, size := utf8.DecodeRuneInString(sc.s[sc.pos:])
	sc.pos += size
	switch {
	case r == '"' || r == '\'':
		sc.skipQuoted(byte(r))
	case r == '/' && strings.HasPrefix(sc.s[sc.pos:], "/"):
		if nl := strings.IndexByte(sc.s[sc.pos:], '\n'); nl >= 0 {
			sc.pos += nl
		} else {
			sc.pos = len(sc.s)
		}
		return start, ' '
	case r == '/' && strings.HasPrefix(sc.s[sc.pos:], "*"):
		if end := strings.Index(sc.s[sc.pos+1:], "*/"); end >= 0 {
			sc.pos += 1 + end + 2
		} else {
			sc.pos = len(sc.s)
		}
		return start, ' '
	}
	return start, r
}

func (sc *scanner) skipQuoted(quote byte) {
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		sc.pos++
		switch c {
		case '\\':
			sc.pos++ // экранированный символ
		case quote:
			return
		}
	}
	sc.pos = min(sc.pos, len(sc.s))
}
