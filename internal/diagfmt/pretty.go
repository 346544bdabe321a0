package diagfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mofix/internal/diag"
	"mofix/internal/source"
)

const tabWidth = 4

var (
	pathStyle    = color.New(color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgYellow, color.Bold)
	infoStyle    = color.New(color.FgCyan)
	gutterStyle  = color.New(color.FgBlue)
	caretStyle   = color.New(color.FgGreen, color.Bold)
	removedStyle = color.New(color.FgRed)
	addedStyle   = color.New(color.FgGreen)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Range.
// Files missing from files get the header line only.
func Pretty(w io.Writer, bag *diag.Bag, files *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := printer{w: w, opts: opts}
	for _, d := range bag.Items() {
		p.header(d)
		if files == nil {
			continue
		}
		key, ok := files.Resolve(d.File)
		if !ok {
			continue
		}
		fc, _ := files.Get(key)
		p.snippet(fc, d.Range)
	}
}

type printer struct {
	w    io.Writer
	opts PrettyOpts
}

func (p *printer) paint(c *color.Color, s string) string {
	if !p.opts.Color {
		return s
	}
	return c.Sprint(s)
}

func (p *printer) header(d diag.Diagnostic) {
	sev := strings.ToUpper(d.Severity.String())
	style := infoStyle
	switch d.Severity {
	case diag.SevError:
		style = errorStyle
	case diag.SevWarning:
		style = warningStyle
	}
	loc := fmt.Sprintf("%s:%d:%d", displayPath(d.File, p.opts), d.Range.Start.Line+1, d.Range.Start.Character+1)
	line := fmt.Sprintf("%s: %s %s: %s", loc, sev, d.Code, d.Message)
	line = p.truncate(line)
	// раскрашиваем после обрезки, чтобы ширина считалась без escape-кодов
	if rest, ok := strings.CutPrefix(line, loc); ok {
		rest = strings.Replace(rest, sev, p.paint(style, sev), 1)
		line = p.paint(pathStyle, loc) + rest
	}
	fmt.Fprintln(p.w, line)
}

func (p *printer) snippet(fc *source.FileContent, rng source.Range) {
	first := max(rng.Start.Line-p.opts.Context, 0)
	last := min(rng.Start.Line+p.opts.Context, fc.LineCount()-1)
	gutter := len(fmt.Sprint(last + 1))
	for line := first; line <= last; line++ {
		text := expandTabs(fc.LineAt(line))
		num := fmt.Sprintf("%*d |", gutter, line+1)
		fmt.Fprintf(p.w, "%s %s\n", p.paint(gutterStyle, num), p.truncate(text))
		if line != rng.Start.Line {
			continue
		}
		pad := runewidth.StringWidth(expandTabs(fc.LineBefore(line, rng.Start.Character)))
		endCh := rng.End.Character
		if rng.End.Line != rng.Start.Line {
			endCh = fc.LineLen(line)
		}
		marked := runewidth.StringWidth(expandTabs(fc.TextAt(source.Range{
			Start: rng.Start,
			End:   source.Position{Line: line, Character: endCh},
		})))
		caret := "^" + strings.Repeat("~", max(marked-1, 0))
		blank := strings.Repeat(" ", gutter) + " |"
		fmt.Fprintf(p.w, "%s %s%s\n", p.paint(gutterStyle, blank), strings.Repeat(" ", pad), p.paint(caretStyle, caret))
	}
}

func (p *printer) truncate(s string) string {
	if p.opts.Width <= 0 || runewidth.StringWidth(s) <= p.opts.Width {
		return s
	}
	return runewidth.Truncate(s, p.opts.Width, "…")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayPath(path string, opts PrettyOpts) string {
	switch opts.PathMode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case PathModeRelative:
		base := opts.BaseDir
		if base == "" {
			if wd, err := os.Getwd(); err == nil {
				base = wd
			}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return path
		}
		if rel, err := filepath.Rel(base, abs); err == nil {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}
