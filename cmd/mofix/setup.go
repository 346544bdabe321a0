package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"mofix/internal/compiler"
	"mofix/internal/project"
)

const sourceExt = ".mo"

// session collects what a check or fix command needs from flags and mofix.toml.
type session struct {
	files   []string
	runner  *compiler.Runner
	quiet   bool
	verbose bool
	timings bool
}

// newSession splits args at "--" into input paths and extra compiler args,
// then layers flags over mofix.toml over defaults.
func newSession(cmd *cobra.Command, args []string) (*session, error) {
	paths, extra := args, []string(nil)
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		paths, extra = args[:dash], args[dash:]
	}
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}

	flags := cmd.Root().PersistentFlags()
	s := &session{}
	var err error
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	if s.quiet && s.verbose {
		return nil, errors.New("--quiet and --verbose are mutually exclusive")
	}

	manifest, _, err := project.LoadManifest(".")
	if err != nil {
		return nil, err
	}
	var cfg project.Config
	if manifest != nil {
		cfg = manifest.Config
	}

	runner := &compiler.Runner{
		Path: cfg.Compiler.Path,
		Args: append(append([]string(nil), cfg.Compiler.Args...), extra...),
		Jobs: cfg.Compiler.Jobs,
	}
	if flags.Changed("moc") {
		if runner.Path, err = flags.GetString("moc"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if runner.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
		if runner.Jobs < 0 {
			return nil, fmt.Errorf("--jobs must be >= 0")
		}
	}
	useCache := cfg.Cache.Enabled
	if flags.Changed("disk-cache") {
		if useCache, err = flags.GetBool("disk-cache"); err != nil {
			return nil, err
		}
	}
	if useCache {
		cache, err := compiler.OpenDiskCache("mofix")
		if err != nil {
			return nil, fmt.Errorf("disk cache: %w", err)
		}
		runner.Cache = cache
	}
	s.runner = runner

	if s.files, err = collectFiles(paths); err != nil {
		return nil, err
	}
	if len(s.files) == 0 {
		return nil, fmt.Errorf("no %s files found", sourceExt)
	}
	return s, nil
}

// collectFiles expands directories into the .mo files below them, skipping
// hidden directories (.mops, .dfx, .git). Explicit file arguments are kept
// as given, whatever their extension.
func collectFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == sourceExt {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}
