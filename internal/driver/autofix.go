package driver

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"strings"

	"mofix/internal/diag"
	"mofix/internal/fix"
	"mofix/internal/observ"
	"mofix/internal/trace"
)

// MaxIterations caps the number of diagnose calls of one Autofix run.
const MaxIterations = 10

// ErrNoFiles is returned when Autofix is called without files.
var ErrNoFiles = errors.New("no files to fix")

// Overlay exposes the in-memory content of files changed during the run.
// ok is false when the file on disk is still current.
type Overlay interface {
	Content(path string) (string, bool)
}

// DiagnoseFunc runs the compiler over files and returns its diagnostic text.
// Content from overlay must be used in place of the on-disk files.
// An empty result means there is nothing left to report.
type DiagnoseFunc func(ctx context.Context, files []string, overlay Overlay) (string, error)

// Options configures Autofix.
type Options struct {
	// BaseDir resolves relative file paths; empty means the working directory.
	BaseDir string
	// MaxIterations lowers the diagnose call limit; values outside
	// 1..MaxIterations mean MaxIterations.
	MaxIterations int
	// DryRun computes the fixes without writing files.
	DryRun bool
	// Timer records per-round phases when set.
	Timer *observ.Timer
}

// FileChange describes one file rewritten by Autofix.
type FileChange struct {
	Path     string // as passed to Autofix
	AbsPath  string
	Original string
	Fixed    string
}

// Summary reports a run that changed at least one file.
type Summary struct {
	Files            []FileChange
	FixedErrorCounts map[diag.Code]int
	Rounds           int      // diagnose calls made
	Warnings         []string // count verification mismatches
	Written          bool     // false for dry runs
}

// FixedTotal returns the number of fixed diagnostics over all codes.
func (s *Summary) FixedTotal() int {
	total := 0
	for _, n := range s.FixedErrorCounts {
		total += n
	}
	return total
}

// Codes returns the fixed codes in sorted order.
func (s *Summary) Codes() []diag.Code {
	codes := make([]diag.Code, 0, len(s.FixedErrorCounts))
	for code := range s.FixedErrorCounts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Autofix repeatedly diagnoses files and fixes what it can until the
// compiler output is clean, a round fixes nothing, or the diagnose call
// limit is reached. Changed files are written once, after the loop.
//
// It returns a nil Summary when no file changed. Unfixable diagnostics are
// not an error; file I/O errors and diagnose errors are.
func Autofix(ctx context.Context, files []string, diagnose DiagnoseFunc, opts *Options) (*Summary, error) {
	if opts == nil {
		opts = &Options{}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	limit := opts.MaxIterations
	if limit <= 0 || limit > MaxIterations {
		limit = MaxIterations
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "autofix", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	ws, err := loadWorkspace(files, opts.BaseDir)
	if err != nil {
		span.End("load failed")
		return nil, err
	}

	var (
		counts   = make(map[diag.Code]int)
		warnings []string
		rounds   int
		previous *fix.Fixer
	)
	for rounds < limit {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return nil, err
		}
		rounds++
		round := trace.Begin(tracer, trace.ScopeRound, "round", span.ID())
		round.WithExtra("n", strconv.Itoa(rounds))

		idx := opts.Timer.Begin("diagnose", rounds)
		output, err := diagnose(ctx, ws.keys, ws)
		opts.Timer.End(idx, "")
		if err != nil {
			round.End("diagnose failed")
			span.End("error")
			return nil, fmt.Errorf("diagnose (round %d): %w", rounds, err)
		}

		if previous != nil {
			warnings = append(warnings, previous.Verify(output)...)
		}
		if strings.TrimSpace(output) == "" {
			round.End("clean")
			break
		}

		fixer := fix.NewFixer(&fix.Options{Tracer: tracer, Parent: round.ID()})
		idx = opts.Timer.Begin("fix", rounds)
		res := fixer.Fix(ws.current, output)
		if res == nil {
			opts.Timer.End(idx, "no fixes")
			round.End("no fixes")
			break
		}
		maps.Copy(ws.current, res.FixedFiles)
		fixed := 0
		for code, n := range res.FixedErrorCounts {
			counts[code] += n
			fixed += n
		}
		opts.Timer.End(idx, fmt.Sprintf("%d fixes in %d files", fixed, len(res.FixedFiles)))
		round.WithExtra("files", strconv.Itoa(len(res.FixedFiles))).
			WithExtra("fixed", strconv.Itoa(fixed)).
			End("")
		previous = fixer
	}

	changes := ws.changes()
	if len(changes) == 0 {
		span.WithExtra("rounds", strconv.Itoa(rounds)).End("no fixes")
		return nil, nil
	}

	summary := &Summary{
		Files:            changes,
		FixedErrorCounts: counts,
		Rounds:           rounds,
		Warnings:         warnings,
	}
	if !opts.DryRun {
		idx := opts.Timer.Begin("write", 0)
		err := persist(changes)
		opts.Timer.End(idx, fmt.Sprintf("%d files", len(changes)))
		if err != nil {
			span.End("write failed")
			return nil, err
		}
		summary.Written = true
	}

	span.WithExtra("rounds", strconv.Itoa(rounds)).
		WithExtra("files", strconv.Itoa(len(changes))).
		End("")
	return summary, nil
}
