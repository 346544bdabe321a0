package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mofix/internal/driver"
	"mofix/internal/observ"
	"mofix/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.mo|directory>... [-- compiler args]",
	Short: "Rewrite the code behind fixable compiler warnings",
	Long: `Run the compiler, apply fixes for M0223, M0236 and M0237 and repeat until the
output is clean or nothing more can be fixed. Files are written once, at the end.`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "compute fixes without writing files")
	fixCmd.Flags().Int("max-rounds", driver.MaxIterations, "maximum compiler runs")
}

func runFix(cmd *cobra.Command, args []string) (err error) {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	maxRounds, err := cmd.Flags().GetInt("max-rounds")
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	summary, err := s.autofix(cmd, dryRun, maxRounds)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	width := terminalWidth()
	if !s.quiet && dryRun {
		printPreviews(out, summary, width)
	}
	printSummary(out, summary, s.quiet)

	if !s.quiet {
		overlay := overlayOf(summary)
		output, err := s.runner.Diagnose(cmd.Context(), s.files, overlay)
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		var sources *source.FileSet
		if s.verbose {
			sources = loadSources(s.files, overlay)
		}
		printUnfixed(out, output, sources, width)
	}
	return nil
}

// autofix runs the fix loop with the session's compiler and prints timings
// when requested.
func (s *session) autofix(cmd *cobra.Command, dryRun bool, maxRounds int) (*driver.Summary, error) {
	var timer *observ.Timer
	if s.timings {
		timer = observ.NewTimer()
		defer printTimings(cmd.ErrOrStderr(), timer)
	}
	summary, err := driver.Autofix(cmd.Context(), s.files, s.runner.Diagnose, &driver.Options{
		MaxIterations: maxRounds,
		DryRun:        dryRun,
		Timer:         timer,
	})
	if err != nil {
		return nil, fmt.Errorf("fix: %w", err)
	}
	return summary, nil
}
