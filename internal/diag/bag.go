package diag

import (
	"sort"
)

// Bag collects diagnostics of one compiler run.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{items: make([]Diagnostic, 0)}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the diagnostics in their current order.
// The slice aliases the bag; do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, start, end, severity (desc) and code
// so output is deterministic.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Range.Start != dj.Range.Start {
			return di.Range.Start.Before(dj.Range.Start)
		}
		if di.Range.End != dj.Range.End {
			return di.Range.End.Before(dj.Range.End)
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops structurally identical diagnostics (same file, range, code),
// keeping the first occurrence.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	items := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := d.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, d)
	}
	b.items = items
}

// Counts returns per-code occurrence counts.
func (b *Bag) Counts() map[Code]int {
	return Counts(b.items)
}

// ByFile groups diagnostics by file, keeping input order inside each group.
// The returned file list is in order of first appearance.
func (b *Bag) ByFile() ([]string, map[string][]Diagnostic) {
	files := make([]string, 0)
	groups := make(map[string][]Diagnostic)
	for _, d := range b.items {
		if _, ok := groups[d.File]; !ok {
			files = append(files, d.File)
		}
		groups[d.File] = append(groups[d.File], d)
	}
	return files, groups
}

// Filter returns a new bag holding the diagnostics for which keep is true.
func (b *Bag) Filter(keep func(Diagnostic) bool) *Bag {
	out := NewBag()
	for _, d := range b.items {
		if keep(d) {
			out.Add(d)
		}
	}
	return out
}
