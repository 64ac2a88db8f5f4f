// Package position provides source position tracking for the sonar front end.
// Tokens and AST nodes carry only byte-offset spans; line and column numbers
// are resolved on demand through a LineTable built by the lexer.
package position

import (
	"fmt"
	"sort"
	"strings"
)

// Span is a half-open byte range [Start, End) into a source buffer.
type Span struct {
	Start int // inclusive byte offset
	End   int // exclusive byte offset
}

// IsValid returns true if the span is well formed
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.Start <= s.End
}

// Len returns the length of the span in bytes
func (s Span) Len() int {
	if !s.IsValid() {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// String returns a string representation of the span
func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Location is a 1-based line and column pair.
type Location struct {
	Line   int
	Column int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// LineTable holds the byte offset of every line start, in ascending order.
// Offset 0 is always the first entry.
type LineTable []int

// NewLineTable returns a table holding only the first line.
func NewLineTable() LineTable {
	return LineTable{0}
}

// LineTableFor scans content and records every line start.
func LineTableFor(content string) LineTable {
	table := NewLineTable()
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			table = append(table, i+1)
		}
	}
	return table
}

// Locate maps a byte offset to its line and column. It finds the last line
// start that is <= offset with an upper-bound binary search.
func (t LineTable) Locate(offset int) Location {
	if len(t) == 0 {
		return Location{Line: 1, Column: offset + 1}
	}
	// index of the first line start strictly greater than offset
	upper := sort.Search(len(t), func(i int) bool { return t[i] > offset })
	index := 0
	if upper > 0 {
		index = upper - 1
	}
	return Location{Line: index + 1, Column: offset - t[index] + 1}
}

// SourceFile pairs source content with its name and line table so that
// diagnostics can quote the offending lines.
type SourceFile struct {
	Name    string
	Content string
	Lines   LineTable
}

// NewSourceFile creates a new source file from content
func NewSourceFile(name, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Content: content,
		Lines:   LineTableFor(content),
	}
}

// LineCount returns the number of lines in the file.
func (sf *SourceFile) LineCount() int {
	return len(sf.Lines)
}

// GetLine returns the specified line (1-based) without its newline, or an
// empty string if the line does not exist.
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	start := sf.Lines[lineNum-1]
	end := len(sf.Content)
	if lineNum < len(sf.Lines) {
		end = sf.Lines[lineNum] - 1
	}
	return strings.TrimSuffix(sf.Content[start:end], "\r")
}

// GetSpanText returns the text covered by the span
func (sf *SourceFile) GetSpanText(span Span) string {
	if !span.IsValid() || span.End > len(sf.Content) {
		return ""
	}
	return sf.Content[span.Start:span.End]
}

// Locate resolves an offset within the file.
func (sf *SourceFile) Locate(offset int) Location {
	return sf.Lines.Locate(offset)
}
