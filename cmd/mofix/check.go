package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.mo|directory>... [-- compiler args]",
	Short: "Type-check files with the compiler, optionally fixing them first",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("fix", false, "apply fixes before checking")
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	doFix, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	out := cmd.OutOrStdout()
	if doFix {
		summary, err := s.autofix(cmd, false, 0)
		if err != nil {
			return err
		}
		if summary != nil {
			printSummary(out, summary, s.quiet)
		}
	}

	results, err := s.runner.CheckAll(cmd.Context(), s.files)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	var firstErr error
	for i, res := range results {
		file := s.files[i]
		if res.OK() && res.Output == "" {
			if !s.quiet {
				fmt.Fprintf(out, "%s %s\n", okColor.Sprint("✓"), file)
			}
			continue
		}
		if res.Output != "" {
			fmt.Fprintln(out, res.Output)
		}
		if !res.OK() {
			fmt.Fprintf(out, "%s %s\n", failColor.Sprint("✗"), file)
			if firstErr == nil {
				firstErr = fmt.Errorf("check failed for file %s (exit code %d)", file, res.ExitCode)
			}
		} else if !s.quiet {
			fmt.Fprintf(out, "%s %s\n", okColor.Sprint("✓"), file)
		}
	}
	return firstErr
}
