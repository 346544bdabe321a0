// Package project locates and decodes mofix.toml.
package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors mofix.toml. Zero values mean "not set".
type Config struct {
	Compiler CompilerConfig `toml:"compiler"`
	Cache    CacheConfig    `toml:"cache"`
}

// CompilerConfig is the [compiler] table.
type CompilerConfig struct {
	Path string   `toml:"path"`
	Args []string `toml:"args"`
	Jobs int      `toml:"jobs"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// Manifest is a decoded mofix.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// LoadConfig decodes the file at path. Unknown keys are an error so that
// typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Compiler.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [compiler].jobs must be >= 0", path)
	}
	if meta.IsDefined("compiler", "path") && strings.TrimSpace(cfg.Compiler.Path) == "" {
		return Config{}, fmt.Errorf("%s: [compiler].path is empty", path)
	}
	// относительный путь к компилятору считаем от корня проекта
	if p := cfg.Compiler.Path; strings.ContainsRune(p, filepath.Separator) && !filepath.IsAbs(p) {
		cfg.Compiler.Path = filepath.Join(filepath.Dir(path), p)
	}
	return cfg, nil
}

// LoadManifest finds mofix.toml above startDir and decodes it.
// ok is false when there is no config file; that is not an error.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	configPath, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   configPath,
		Root:   filepath.Dir(configPath),
		Config: cfg,
	}, true, nil
}
