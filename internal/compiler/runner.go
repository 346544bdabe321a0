// Package compiler runs the Motoko compiler (`moc --check`) on behalf of the
// fix loop and the check command.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"mofix/internal/diag"
	"mofix/internal/driver"
	"mofix/internal/trace"
)

// DefaultPath is the compiler binary used when none is configured.
const DefaultPath = "moc"

// Result is the outcome of one `moc --check` run.
type Result struct {
	Output   string // stderr, then stdout, trimmed
	ExitCode int
	Cached   bool
}

// OK reports whether the compiler accepted the file.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Runner invokes the compiler. The zero value runs "moc" from PATH in the
// current directory with GOMAXPROCS parallel jobs and no cache.
type Runner struct {
	Path  string   // compiler binary
	Args  []string // extra arguments after the file, e.g. -W=M0223
	Dir   string   // working directory of the compiler process
	Jobs  int      // parallel checks, <= 0 means GOMAXPROCS
	Cache *DiskCache
}

func (r *Runner) path() string {
	if r.Path == "" {
		return DefaultPath
	}
	return r.Path
}

func (r *Runner) jobs(n int) int {
	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(min(jobs, n), 1)
}

// Check runs `moc --check file args...` on the file as it is on disk.
// A non-zero exit code is reported in the Result, not as an error; errors
// mean the compiler could not be run at all.
func (r *Runner) Check(ctx context.Context, file string) (Result, error) {
	return r.checkDisk(ctx, file)
}

// CheckAll checks files in parallel and returns results in input order.
func (r *Runner) CheckAll(ctx context.Context, files []string) ([]Result, error) {
	return r.run(ctx, files, nil)
}

// Diagnose checks every file and concatenates the outputs in input order.
// Files with overlay content are checked through a sibling shadow file so
// relative imports keep resolving; shadow paths in the output are mapped
// back to the original file. Its signature matches driver.DiagnoseFunc.
//
// Each file keeps only the diagnostics that name the file itself. Warnings
// the compiler prints for imported files describe their on-disk text, which
// is stale once the overlay holds newer content; every input file reports
// its own diagnostics anyway.
func (r *Runner) Diagnose(ctx context.Context, files []string, overlay driver.Overlay) (string, error) {
	results, err := r.run(ctx, files, overlay)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(results))
	for i, res := range results {
		if out := r.ownLines(res.Output, files[i]); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// ownLines drops diagnostic lines of output that name a file other than
// file. Lines that are not diagnostics stay.
func (r *Runner) ownLines(output, file string) string {
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if ds := diag.Parse(line); len(ds) == 1 && !r.sameFile(ds[0].File, file) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// sameFile reports whether the compiler-printed path refers to file.
func (r *Runner) sameFile(printed, file string) bool {
	if filepath.Clean(printed) == filepath.Clean(file) {
		return true
	}
	a, errA := filepath.Abs(r.resolve(printed))
	b, errB := filepath.Abs(r.resolve(file))
	return errA == nil && errB == nil && a == b
}

func (r *Runner) run(ctx context.Context, files []string, overlay driver.Overlay) ([]Result, error) {
	results := make([]Result, len(files))
	if len(files) == 0 {
		return results, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeRound, "compile", trace.CurrentSpan(ctx))
	span.WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs(len(files)))

	for i, file := range files {
		g.Go(func() error {
			var (
				res Result
				err error
			)
			if content, ok := overlayContent(overlay, file); ok {
				res, err = r.checkShadow(gctx, file, content)
			} else {
				res, err = r.checkDisk(gctx, file)
			}
			if err != nil {
				return err
			}
			results[i] = res // индекс уникален, мьютекс не нужен
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func overlayContent(overlay driver.Overlay, file string) (string, bool) {
	if overlay == nil {
		return "", false
	}
	return overlay.Content(file)
}

func (r *Runner) checkDisk(ctx context.Context, file string) (Result, error) {
	if r.Cache == nil {
		return r.exec(ctx, file)
	}
	data, err := os.ReadFile(r.resolve(file))
	if err != nil {
		// пусть компилятор сам сообщит о проблеме
		return r.exec(ctx, file)
	}
	return r.withCache(ctx, file, string(data), func() (Result, error) {
		return r.exec(ctx, file)
	})
}

// checkShadow writes content next to file under a hidden name, checks it and
// reports the output as if file itself had been checked.
func (r *Runner) checkShadow(ctx context.Context, file, content string) (Result, error) {
	return r.withCache(ctx, file, content, func() (Result, error) {
		shadow, err := writeShadow(r.resolve(file), content)
		if err != nil {
			return Result{}, err
		}
		defer func() {
			_ = os.Remove(shadow)
		}()

		// тот же вид пути, что у исходного файла
		target := filepath.Join(filepath.Dir(file), filepath.Base(shadow))
		res, err := r.exec(ctx, target)
		if err != nil {
			return Result{}, err
		}
		res.Output = unshadow(res.Output, target, shadow, file)
		return res, nil
	})
}

// withCache answers from the disk cache when it holds a result for file with
// this content, and stores the result of run otherwise.
func (r *Runner) withCache(ctx context.Context, file, content string, run func() (Result, error)) (Result, error) {
	if r.Cache == nil {
		return run()
	}
	tracer := trace.FromContext(ctx)
	key := NewKey(r.path(), r.Args, file, content)
	if res, ok, err := r.Cache.Get(key); err == nil && ok {
		trace.Point(tracer, trace.ScopeFile, "cache-hit", file, nil)
		return res, nil
	}
	res, err := run()
	if err != nil {
		return Result{}, err
	}
	if err := r.Cache.Put(key, res); err != nil {
		trace.Error(tracer, trace.ScopeFile, "cache", err.Error(), map[string]string{"file": file})
	}
	return res, nil
}

func (r *Runner) exec(ctx context.Context, target string) (Result, error) {
	args := append([]string{"--check", target}, r.Args...)
	cmd := exec.CommandContext(ctx, r.path(), args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "moc", trace.CurrentSpan(ctx))
	err := cmd.Run()

	res := Result{Output: joinStreams(stderr.String(), stdout.String())}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			span.End("failed")
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			return Result{}, fmt.Errorf("run %s: %w", r.path(), err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	span.WithExtra("exit", fmt.Sprint(res.ExitCode)).End(target)
	return res, nil
}

// joinStreams trims both streams and joins the non-empty ones, stderr first.
func joinStreams(stderr, stdout string) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{stderr, stdout} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// resolve returns path as seen from the compiler's working directory.
func (r *Runner) resolve(path string) string {
	if filepath.IsAbs(path) || r.Dir == "" {
		return path
	}
	return filepath.Join(r.Dir, path)
}

func writeShadow(path, content string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	f, err := os.CreateTemp(filepath.Dir(path), "."+stem+".mofix-*"+ext)
	if err != nil {
		return "", fmt.Errorf("shadow %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("shadow %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("shadow %s: %w", path, err)
	}
	return f.Name(), nil
}

// unshadow rewrites every spelling of the shadow path in output to file.
func unshadow(output, target, shadowAbs, file string) string {
	output = strings.ReplaceAll(output, shadowAbs, file)
	output = strings.ReplaceAll(output, target, file)
	return strings.ReplaceAll(output, filepath.Base(shadowAbs), filepath.Base(file))
}
