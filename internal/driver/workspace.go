package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// workspace holds the loaded files of one Autofix run.
type workspace struct {
	keys     []string          // paths as given, deduplicated, input order
	abs      map[string]string // key -> absolute path
	byAbs    map[string]string // absolute path -> key
	original map[string]string
	current  map[string]string
}

func loadWorkspace(files []string, baseDir string) (*workspace, error) {
	ws := &workspace{
		keys:     make([]string, 0, len(files)),
		abs:      make(map[string]string, len(files)),
		byAbs:    make(map[string]string, len(files)),
		original: make(map[string]string, len(files)),
		current:  make(map[string]string, len(files)),
	}
	for _, file := range files {
		if _, dup := ws.abs[file]; dup {
			continue
		}
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", file, err)
		}
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		ws.keys = append(ws.keys, file)
		ws.abs[file] = absPath
		ws.byAbs[absPath] = file
		ws.original[file] = string(data)
		ws.current[file] = string(data)
	}
	return ws, nil
}

// Content implements Overlay. path may be a key or an absolute path.
func (ws *workspace) Content(path string) (string, bool) {
	key, ok := ws.lookup(path)
	if !ok {
		return "", false
	}
	text := ws.current[key]
	if text == ws.original[key] {
		return "", false
	}
	return text, true
}

func (ws *workspace) lookup(path string) (string, bool) {
	if _, ok := ws.current[path]; ok {
		return path, true
	}
	if absPath, err := filepath.Abs(path); err == nil {
		if key, ok := ws.byAbs[absPath]; ok {
			return key, true
		}
	}
	return "", false
}

// changes lists the files whose content differs from what was loaded.
func (ws *workspace) changes() []FileChange {
	out := make([]FileChange, 0)
	for _, key := range ws.keys {
		if ws.current[key] == ws.original[key] {
			continue
		}
		out = append(out, FileChange{
			Path:     key,
			AbsPath:  ws.abs[key],
			Original: ws.original[key],
			Fixed:    ws.current[key],
		})
	}
	return out
}

// persist writes every change in two steps: all new contents go to temp
// files next to their targets first, then each temp file is renamed over its
// target. A failure while staging leaves every target untouched; a failed
// rename restores the targets renamed before it.
func persist(changes []FileChange) error {
	staged := make([]string, 0, len(changes))
	for _, ch := range changes {
		tmp, err := stage(ch, ch.Fixed)
		if err != nil {
			removeAll(staged)
			return err
		}
		staged = append(staged, tmp)
	}

	for i, ch := range changes {
		if err := os.Rename(staged[i], ch.AbsPath); err != nil {
			removeAll(staged[i:])
			err = fmt.Errorf("write %s: %w", ch.Path, err)
			return errors.Join(err, rollback(changes[:i]))
		}
	}
	return nil
}

// rollback puts the original text back into files already renamed over.
func rollback(done []FileChange) error {
	var errs []error
	for _, ch := range done {
		tmp, err := stage(ch, ch.Original)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore: %w", err))
			continue
		}
		if err := os.Rename(tmp, ch.AbsPath); err != nil {
			_ = os.Remove(tmp)
			errs = append(errs, fmt.Errorf("restore %s: %w", ch.Path, err))
		}
	}
	return errors.Join(errs...)
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

func stage(ch FileChange, content string) (string, error) {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(ch.AbsPath); err == nil {
		mode = info.Mode().Perm()
	}
	f, err := os.CreateTemp(filepath.Dir(ch.AbsPath), "."+filepath.Base(ch.AbsPath)+".mofix-*")
	if err != nil {
		return "", fmt.Errorf("write %s: %w", ch.Path, err)
	}
	name := f.Name()
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("write %s: %w", ch.Path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		return fail(err)
	}
	if err := f.Chmod(mode); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("write %s: %w", ch.Path, err)
	}
	return name, nil
}
