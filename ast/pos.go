package ast

import (
	"fmt"
	"sort"

	"github.com/rivo/uniseg"
)

// SourcePos identifies a location in a grammar source file.
type SourcePos struct {
	Filename  string
	Line, Col int
	Offset    int
}

func (pos SourcePos) String() string {
	if pos.Line <= 0 || pos.Col <= 0 {
		return pos.Filename
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Col)
}

// UnknownPos is a placeholder position for nodes that were constructed
// programmatically instead of being parsed from a source file.
func UnknownPos(filename string) SourcePos {
	return SourcePos{Filename: filename}
}

// FileInfo contains information about the contents of a grammar source
// file. A lexer accumulates line offsets as it scans the file, which
// allows positions to be represented compactly as byte offsets and
// materialized into line and column numbers on demand.
type FileInfo struct {
	name string
	data []byte
	// The value at index 0 is the offset of the first line (always
	// zero); the value at index 1 is the offset at which the second
	// line begins, and so on.
	lines []int
}

// NewFileInfo creates a new instance for the given file.
func NewFileInfo(filename string, contents []byte) *FileInfo {
	return &FileInfo{
		name:  filename,
		data:  contents,
		lines: []int{0},
	}
}

func (f *FileInfo) Name() string {
	return f.name
}

// AddLine records that a new line begins at the given byte offset. The
// offset is that of the first character after the line terminator.
func (f *FileInfo) AddLine(offset int) {
	if offset < 0 {
		panic(fmt.Sprintf("invalid line offset: %d must not be negative", offset))
	}
	if offset > len(f.data) {
		panic(fmt.Sprintf("invalid line offset: %d is greater than file size %d", offset, len(f.data)))
	}
	f.lines = append(f.lines, offset)
}

// SourcePos computes the position for the given byte offset into the
// file.
func (f *FileInfo) SourcePos(offset int) SourcePos {
	lineNumber := sort.Search(len(f.lines), func(n int) bool {
		return f.lines[n] > offset
	})

	// The search above returns the index of the first line that starts
	// after the offset, so the offset belongs to the line before it.
	// Columns count display cells, not bytes, so that positions line up
	// with what an editor shows for non-ASCII grammar sources.
	lineStart := f.lines[lineNumber-1]
	return SourcePos{
		Filename: f.name,
		Line:     lineNumber,
		Col:      uniseg.StringWidth(string(f.data[lineStart:offset])) + 1,
		Offset:   offset,
	}
}
