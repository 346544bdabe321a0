package source

import (
	"fmt"
)

// Position is a zero-based location in a file. Character is counted in
// UTF-16 code units, the unit compilers report columns in.
type Position struct {
	Line      int
	Character int
}

// Before reports whether p sorts strictly before other in document order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open [Start, End) interval of positions.
type Range struct {
	Start Position
	End   Position
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

// SingleLine reports whether the range starts and ends on the same line.
func (r Range) SingleLine() bool {
	return r.Start.Line == r.End.Line
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Cover returns the smallest range containing both r and other.
func (r Range) Cover(other Range) Range {
	if other.Start.Before(r.Start) {
		r.Start = other.Start
	}
	if r.End.Before(other.End) {
		r.End = other.End
	}
	return r
}
