package source

import "sync"

// FileContent is an immutable snapshot of one file's text.
//
// The UTF-16 view and the line table are built lazily on first use. Any change
// to the text must go through NewFileContent; offsets computed on one snapshot
// are meaningless on another.
type FileContent struct {
	text string

	once       sync.Once
	units      []uint16 // текст в UTF-16
	lineStarts []uint32 // offset of each line start, in units
}

// NewFileContent wraps text in a fresh snapshot.
func NewFileContent(text string) *FileContent {
	return &FileContent{text: text}
}
