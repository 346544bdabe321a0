package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeConfig(t, root, "")

	got, ok, err := FindConfig(nested)
	if err != nil || !ok {
		t.Fatalf("FindConfig: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || dir != root {
		t.Fatalf("FindProjectRoot = %q %v %v", dir, ok, err)
	}
}

func TestFindConfigSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ConfigName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := FindConfig(root)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	// выше TempDir конфига быть не должно, но на всякий случай проверяем только root
	if ok && filepath.Dir(path) == root {
		t.Fatalf("directory named %s treated as config", ConfigName)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[compiler]
path = "bin/moc"
args = ["-W=M0223,M0236,M0237", "--package", "core", ".mops/core/src"]
jobs = 4

[cache]
enabled = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Compiler.Path != filepath.Join(dir, "bin", "moc") {
		t.Errorf("path = %q", cfg.Compiler.Path)
	}
	if len(cfg.Compiler.Args) != 4 || cfg.Compiler.Args[1] != "--package" {
		t.Errorf("args = %v", cfg.Compiler.Args)
	}
	if cfg.Compiler.Jobs != 4 || !cfg.Cache.Enabled {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigKeepsBarePath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[compiler]\npath = \"moc\"\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Compiler.Path != "moc" {
		t.Fatalf("path = %q", cfg.Compiler.Path)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[compiler]\npaht = \"moc\"\n", "unknown keys: compiler.paht"},
		{"unknown table", "[lint]\nstrict = true\n", "unknown keys"},
		{"negative jobs", "[compiler]\njobs = -1\n", "jobs must be >= 0"},
		{"empty path", "[compiler]\npath = \" \"\n", "path is empty"},
		{"bad toml", "[compiler\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[cache]\nenabled = true\n")
	m, ok, err := LoadManifest(root)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: %v %v", ok, err)
	}
	if m.Root != root || !m.Config.Cache.Enabled {
		t.Fatalf("manifest = %+v", m)
	}
}
