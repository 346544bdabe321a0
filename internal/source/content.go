package source

import (
	"strings"
)

func (fc *FileContent) init() {
	fc.once.Do(func() {
		fc.units = encodeUTF16(fc.text)
		fc.lineStarts = buildLineIndex(fc.units)
	})
}

// Text returns the snapshot text as it was given to NewFileContent.
func (fc *FileContent) Text() string {
	return fc.text
}

// Units returns the UTF-16 view of the text.
// The slice is shared with the snapshot and must not be modified.
func (fc *FileContent) Units() []uint16 {
	fc.init()
	return fc.units
}

// Len returns the text length in UTF-16 units.
func (fc *FileContent) Len() int {
	fc.init()
	return len(fc.units)
}

// LineCount returns the number of lines; a trailing newline opens an empty last line.
func (fc *FileContent) LineCount() int {
	fc.init()
	return len(fc.lineStarts)
}

// Offset converts a position into an absolute unit offset.
// Positions past the end of a line run into the next one; positions past the
// end of the file clamp to Len. Offset never panics.
func (fc *FileContent) Offset(pos Position) int {
	fc.init()
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(fc.lineStarts) {
		return len(fc.units)
	}
	off := int(fc.lineStarts[pos.Line]) + max(pos.Character, 0)
	return min(off, len(fc.units))
}

// PositionAt is the inverse of Offset for offsets inside the text.
func (fc *FileContent) PositionAt(offset int) Position {
	fc.init()
	offset = min(max(offset, 0), len(fc.units))
	// бинпоиск: последняя строка, начало которой <= offset
	lo, hi := 0, len(fc.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) >> 1
		if int(fc.lineStarts[mid]) <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo, Character: offset - int(fc.lineStarts[lo])}
}

// Slice returns the text between two unit offsets, clamped to the content.
func (fc *FileContent) Slice(start, end int) string {
	fc.init()
	start = min(max(start, 0), len(fc.units))
	end = min(max(end, start), len(fc.units))
	return decodeUTF16(fc.units[start:end])
}

// TextAt returns the text covered by r.
func (fc *FileContent) TextAt(r Range) string {
	return fc.Slice(fc.Offset(r.Start), fc.Offset(r.End))
}

// LineAt returns line number line without its terminating '\n'.
// Missing lines read as empty.
func (fc *FileContent) LineAt(line int) string {
	fc.init()
	if line < 0 || line >= len(fc.lineStarts) {
		return ""
	}
	start := int(fc.lineStarts[line])
	end := len(fc.units)
	if line+1 < len(fc.lineStarts) {
		end = int(fc.lineStarts[line+1]) - 1
	}
	return decodeUTF16(fc.units[start:end])
}

// LineLen returns the length of a line in units, excluding '\n'.
func (fc *FileContent) LineLen(line int) int {
	fc.init()
	if line < 0 || line >= len(fc.lineStarts) {
		return 0
	}
	if line+1 < len(fc.lineStarts) {
		return int(fc.lineStarts[line+1]) - 1 - int(fc.lineStarts[line])
	}
	return len(fc.units) - int(fc.lineStarts[line])
}

// LineBefore returns the part of a line that precedes character ch.
func (fc *FileContent) LineBefore(line, ch int) string {
	start := fc.Offset(Position{Line: line})
	end := min(fc.Offset(Position{Line: line, Character: ch}), start+fc.LineLen(line))
	return fc.Slice(start, end)
}

// LineAfter returns the part of a line that follows character ch.
func (fc *FileContent) LineAfter(line, ch int) string {
	lineStart := fc.Offset(Position{Line: line})
	lineEnd := lineStart + fc.LineLen(line)
	start := min(fc.Offset(Position{Line: line, Character: ch}), lineEnd)
	return fc.Slice(start, lineEnd)
}

// IsBlank reports whether s holds only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
