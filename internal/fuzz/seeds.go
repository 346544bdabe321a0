package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var sourceSeeds = []string{
	"",
	"let xs = List.empty<Nat>();\n",
	"List.sort(xs, Nat.compare)\n",
	"Map.get(m, Nat.compare, k)\n",
	"f(\n  a,\n  Nat.compare\n)\n",
	"f(a, Nat.compare)\r\n",
	"Text.concat(\"a, (b\", t)\n",
	"// 日本語 🎉\nlet s = \"🎉\"; Debug.print(s)\n",
	"\t\tfoo(bar(1, [2, 3]), {x = 4})\n",
}

var outputSeeds = []string{
	"",
	"a.mo:1.20-1.25: warning [M0223], redundant type instantiation",
	"a.mo:1.1-1.27: warning [M0236], You can use the dot notation `xs.sort(...)` here",
	"a.mo:1.15-1.26: warning [M0237], redundant explicit implicit argument",
	"a.mo:3.3-3.14: warning [M0237], x\na.mo:1.1-4.2: warning [M0236], y",
	"a.mo:0.1-1.1: warning [M0223], zero line",
	"a.mo:99999999999999999999.1-1.1: type error [M0001], overflow",
	"A.MO:1.1-1.2: TYPE ERROR [m0223], upper\r",
}

func addSourceSeeds(f *testing.F) {
	for _, src := range sourceSeeds {
		for _, out := range outputSeeds {
			f.Add([]byte(src), []byte(out))
		}
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds picks up *.mo files from testdata/ when it exists.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.mo файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".mo" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src), []byte(""))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return bytes.Clone(src)
}

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}
