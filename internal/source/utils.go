package source

import (
	"fmt"
	"path/filepath"
	"unicode/utf16"

	"fortio.org/safecast"
)

func encodeUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func decodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}

// buildLineIndex returns the unit offset at which every line starts.
// Lines are separated by '\n' only; a '\r' before it stays part of the line.
func buildLineIndex(units []uint16) []uint32 {
	out := make([]uint32, 1, len(units)/32+1)
	for i, u := range units {
		if u != '\n' {
			continue
		}
		next, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		out = append(out, next)
	}
	return out
}

func normalizePath(p string) string {
	// единый вид путей, независимо от того, как их напечатал компилятор
	return filepath.ToSlash(filepath.Clean(p))
}
