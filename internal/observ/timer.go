package observ

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Phase records one timed step of a fix run.
type Phase struct {
	Name  string // "diagnose", "fix", "write", ...
	Round int    // 1-based round, 0 outside the loop
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Label returns "name" or "name#round".
func (p Phase) Label() string {
	if p.Round == 0 {
		return p.Name
	}
	return fmt.Sprintf("%s#%d", p.Name, p.Round)
}

// Timer tracks the execution time of the phases of a fix run.
// It is not safe for concurrent use.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns its index. A nil Timer returns -1.
func (t *Timer) Begin(name string, round int) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Round: round, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// Totals sums durations per phase name across rounds.
func (t *Timer) Totals() map[string]time.Duration {
	totals := make(map[string]time.Duration)
	if t == nil {
		return totals
	}
	for _, p := range t.phases {
		totals[p.Name] += p.Dur
	}
	return totals
}

// Summary returns a human-readable table of all phases followed by
// per-name totals.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %9.2f ms", p.Label, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	totals := t.Totals()
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %-20s %9.2f ms\n", "Σ "+name, durationToMillis(totals[name]))
	}
	fmt.Fprintf(&sb, "  %-20s %9.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Label      string  `json:"label"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Label:      phase.Label(),
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
