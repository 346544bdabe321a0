package source

import (
	"sort"
	"strings"
)

// FileSet holds the current snapshot of every file in a fix run, keyed by the
// path the caller supplied.
type FileSet struct {
	files map[string]*FileContent
	index map[string]string // normalized path -> key
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make(map[string]*FileContent),
		index: make(map[string]string),
	}
}

// NewFileSetFrom builds a FileSet from path -> text pairs.
func NewFileSetFrom(files map[string]string) *FileSet {
	fs := NewFileSet()
	for key, text := range files {
		fs.Set(key, text)
	}
	return fs
}

// Set stores a new snapshot for key and returns it. The previous snapshot, if
// any, is dropped.
func (fileSet *FileSet) Set(key, text string) *FileContent {
	fc := NewFileContent(text)
	fileSet.files[key] = fc
	fileSet.index[normalizePath(key)] = key
	return fc
}

// Get returns the current snapshot for an exact key.
func (fileSet *FileSet) Get(key string) (*FileContent, bool) {
	fc, ok := fileSet.files[key]
	return fc, ok
}

// Delete drops key from the set.
func (fileSet *FileSet) Delete(key string) {
	if _, ok := fileSet.files[key]; !ok {
		return
	}
	delete(fileSet.files, key)
	delete(fileSet.index, normalizePath(key))
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Keys returns all keys in sorted order.
func (fileSet *FileSet) Keys() []string {
	keys := make([]string, 0, len(fileSet.files))
	for key := range fileSet.files {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve finds the key a compiler-printed path refers to.
//
// Matching order: exact key, normalized key, then a suffix match on a '/'
// boundary in either direction, so "src/A.mo" matches "/work/src/A.mo" and
// the other way around. Ties on suffix match go to the lexically first key.
func (fileSet *FileSet) Resolve(path string) (string, bool) {
	if _, ok := fileSet.files[path]; ok {
		return path, true
	}
	norm := normalizePath(path)
	if key, ok := fileSet.index[norm]; ok {
		return key, true
	}
	for _, key := range fileSet.Keys() {
		keyNorm := normalizePath(key)
		if strings.HasSuffix(keyNorm, "/"+norm) || strings.HasSuffix(norm, "/"+keyNorm) {
			return key, true
		}
	}
	return "", false
}
