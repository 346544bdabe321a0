package fix

import (
	"fmt"
	"sort"
	"strconv"

	"mofix/internal/diag"
	"mofix/internal/source"
	"mofix/internal/trace"
)

// Options configures a Fixer.
type Options struct {
	Tracer trace.Tracer // nil means trace.Nop
	Parent uint64       // parent span for per-file spans
}

// Result is what one Fix call changed.
type Result struct {
	FixedFiles       map[string]string // file key -> full new content
	FixedErrorCounts map[diag.Code]int
	Conflicts        int // fixes skipped because they overlapped another fix
}

// Fixer turns one compiler output into edits for a set of files.
//
// Counters and the content cache belong to the instance and are reset by
// every Fix call. A Fixer is not safe for concurrent use.
type Fixer struct {
	tracer trace.Tracer
	parent uint64

	initial map[diag.Code]int
	fixed   map[diag.Code]int
	cache   *source.FileSet
}

// NewFixer creates a Fixer. opts may be nil.
func NewFixer(opts *Options) *Fixer {
	f := &Fixer{tracer: trace.Nop}
	if opts != nil {
		if opts.Tracer != nil {
			f.tracer = opts.Tracer
		}
		f.parent = opts.Parent
	}
	f.reset(nil)
	return f
}

func (f *Fixer) reset(files map[string]string) {
	f.initial = make(map[diag.Code]int)
	f.fixed = make(map[diag.Code]int)
	f.cache = source.NewFileSetFrom(files)
}

// Fix parses output, synthesizes fixes for the supported codes and applies
// them to files (key -> content). Diagnostics naming a file outside files
// are dropped. It returns nil when no file changed.
func (f *Fixer) Fix(files map[string]string, output string) *Result {
	f.reset(files)

	diags := diag.Parse(output)
	if len(diags) == 0 {
		return nil
	}
	f.initial = diag.Counts(diags)

	keys, groups := f.groupByKey(diags)
	res := &Result{
		FixedFiles:       make(map[string]string),
		FixedErrorCounts: f.fixed,
	}
	for _, key := range keys {
		text, changed, conflicts := f.fixFile(key, groups[key])
		res.Conflicts += conflicts
		if changed {
			res.FixedFiles[key] = text
		}
	}

	if len(res.FixedFiles) == 0 {
		return nil
	}
	return res
}

// groupByKey resolves each diagnostic's file against the cache and groups
// them by file key, keys in order of first appearance.
func (f *Fixer) groupByKey(diags []diag.Diagnostic) ([]string, map[string][]diag.Diagnostic) {
	keys := make([]string, 0)
	groups := make(map[string][]diag.Diagnostic)
	unknown := make(map[string]bool)
	for _, d := range diags {
		key, ok := f.cache.Resolve(d.File)
		if !ok {
			if !unknown[d.File] {
				unknown[d.File] = true
				trace.Point(f.tracer, trace.ScopeFile, "unknown-file", d.File, nil)
			}
			continue
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], d)
	}
	return keys, groups
}

// fixFile runs both phases for one file.
func (f *Fixer) fixFile(key string, diags []diag.Diagnostic) (string, bool, int) {
	span := trace.Begin(f.tracer, trace.ScopeFile, "file", f.parent)
	fc, _ := f.cache.Get(key)
	changed := false
	conflicts := 0

	// фаза 1: простые удаления
	first := f.synthesize(filterPhase(diags, PhaseDelete), fc)
	var applied []CodeFix
	if len(first) > 0 {
		batch := f.apply(key, fc, first)
		conflicts += len(batch.Skipped)
		applied = batch.Applied
		if batch.Changed() {
			fc = f.cache.Set(key, batch.Text)
			changed = true
		}
	}

	// фаза 2: позиции сдвинуты на удаления первой фазы
	second := f.synthesize(Remap(filterPhase(diags, PhaseRewrite), applied), fc)
	if len(second) > 0 {
		batch := f.apply(key, fc, second)
		conflicts += len(batch.Skipped)
		if batch.Changed() {
			fc = f.cache.Set(key, batch.Text)
			changed = true
		}
	}

	span.WithExtra("diagnostics", strconv.Itoa(len(diags))).
		WithExtra("conflicts", strconv.Itoa(conflicts)).
		End(key)
	return fc.Text(), changed, conflicts
}

func (f *Fixer) synthesize(diags []diag.Diagnostic, fc *source.FileContent) []CodeFix {
	fixes := make([]CodeFix, 0, len(diags))
	for _, d := range diags {
		kind, ok := Lookup(d.Code)
		if !ok {
			continue
		}
		edit, ok := kind.Synthesize(d, fc)
		if !ok {
			trace.Point(f.tracer, trace.ScopeEdit, "no-fix", d.String(), nil)
			continue
		}
		fixes = append(fixes, CodeFix{TextEdit: edit, Code: d.Code})
	}
	return fixes
}

func (f *Fixer) apply(key string, fc *source.FileContent, fixes []CodeFix) *Batch {
	batch := Apply(fc, fixes)
	for code, n := range batch.Counts {
		f.fixed[code] += n
	}
	for _, skipped := range batch.Skipped {
		trace.Point(f.tracer, trace.ScopeEdit, "conflict", key, map[string]string{
			"code":  skipped.Code.ID(),
			"range": skipped.Range.String(),
		})
	}
	return batch
}

func filterPhase(diags []diag.Diagnostic, phase Phase) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if inPhase(d.Code, phase) {
			out = append(out, d)
		}
	}
	return out
}

// Verify compares the per-code counts in output, the compiler's answer to
// the files returned by the last Fix, with initial minus fixed counts.
// Only verifiable kinds present in output are checked. Each mismatch is
// returned as a warning and traced; none of them is fatal.
func (f *Fixer) Verify(output string) []string {
	counts := diag.Counts(diag.Parse(output))
	codes := make([]diag.Code, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var warnings []string
	for _, code := range codes {
		kind, ok := Lookup(code)
		if !ok || !kind.Verifiable {
			continue
		}
		actual, initial, fixed := counts[code], f.initial[code], f.fixed[code]
		if actual == initial-fixed {
			continue
		}
		msg := fmt.Sprintf("incorrect error count for fix code %s: %d != %d - %d", code, actual, initial, fixed)
		warnings = append(warnings, msg)
		trace.Error(f.tracer, trace.ScopeRound, "verify", msg, map[string]string{"code": code.ID()})
	}
	return warnings
}

// FixedCounts returns a copy of the per-code counts of the last Fix call.
func (f *Fixer) FixedCounts() map[diag.Code]int {
	out := make(map[diag.Code]int, len(f.fixed))
	for code, n := range f.fixed {
		out[code] = n
	}
	return out
}
