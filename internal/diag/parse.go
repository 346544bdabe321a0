package diag

import (
	"regexp"
	"strconv"
	"strings"

	"mofix/internal/source"
)

// <file>:<sl>.<sc>-<el>.<ec>: (type error|warning) [<code>], <message>
var lineRE = regexp.MustCompile(
	`(?im)^([^:\n]+):(\d+)\.(\d+)-(\d+)\.(\d+): (type error|warning) \[([a-z]*\d+)\], (.*)$`)

// Parse scans compiler output and returns every diagnostic line it recognizes.
//
// Parsing is best effort: lines that do not match the grammar are ignored,
// and a matching line whose numbers cannot be used (zero, overflow, or an end
// before the start) is skipped without affecting the rest of the batch.
// Positions in the result are zero-based.
func Parse(output string) []Diagnostic {
	matches := lineRE.FindAllStringSubmatch(output, -1)
	out := make([]Diagnostic, 0, len(matches))
	for _, m := range matches {
		d, ok := fromMatch(m)
		if !ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ParseBag is Parse wrapped into a Bag.
func ParseBag(output string) *Bag {
	bag := NewBag()
	for _, d := range Parse(output) {
		bag.Add(d)
	}
	return bag
}

func fromMatch(m []string) (Diagnostic, bool) {
	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(m[2+i])
		if err != nil || n < 1 {
			return Diagnostic{}, false
		}
		nums[i] = n - 1
	}
	rng := source.Range{
		Start: source.Position{Line: nums[0], Character: nums[1]},
		End:   source.Position{Line: nums[2], Character: nums[3]},
	}
	if rng.End.Before(rng.Start) {
		return Diagnostic{}, false
	}
	return Diagnostic{
		File:     strings.TrimSpace(m[1]),
		Range:    rng,
		Code:     Code(strings.ToUpper(m[7])),
		Message:  strings.TrimRight(m[8], "\r"),
		Severity: parseSeverity(m[6]),
	}, true
}

// Counts returns how many diagnostics carry each code.
func Counts(diags []Diagnostic) map[Code]int {
	counts := make(map[Code]int)
	for _, d := range diags {
		counts[d.Code]++
	}
	return counts
}
