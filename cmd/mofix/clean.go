package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mofix/internal/compiler"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached compiler results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := compiler.OpenDiskCache("mofix")
		if err != nil {
			return fmt.Errorf("disk cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		}
		return nil
	},
}
