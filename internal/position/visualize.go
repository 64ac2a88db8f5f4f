package position

import (
	"fmt"
	"strings"
)

// SpanHighlighter renders source lines with a caret underline beneath a span.
type SpanHighlighter struct {
	file *SourceFile

	// ContextLines is the number of lines shown before the span.
	ContextLines int
}

// NewSpanHighlighter creates a new span highlighter.
func NewSpanHighlighter(file *SourceFile) *SpanHighlighter {
	return &SpanHighlighter{
		file:         file,
		ContextLines: 1,
	}
}

// HighlightSpan returns the lines touched by span, numbered, with carets
// under the covered bytes. Zero-width spans get a single caret.
//
//	   1 | let x = (1 +
//	     |             ^
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if !span.IsValid() || span.Start > len(sh.file.Content) {
		return ""
	}

	start := sh.file.Locate(span.Start)
	end := start
	if span.End > span.Start {
		end = sh.file.Locate(span.End - 1)
	}

	var result strings.Builder
	firstLine := max(1, start.Line-sh.ContextLines)
	for lineNum := firstLine; lineNum <= end.Line; lineNum++ {
		line := sh.file.GetLine(lineNum)
		result.WriteString(fmt.Sprintf("%4d | %s\n", lineNum, line))
		if lineNum < start.Line {
			continue
		}

		from, to := 1, len(line)+1
		if lineNum == start.Line {
			from = start.Column
		}
		if lineNum == end.Line {
			to = end.Column + 1
		}
		if span.Len() == 0 {
			to = from + 1
		}
		result.WriteString("     | ")
		addUnderline(&result, line, from, to)
		result.WriteString("\n")
	}

	return result.String()
}

// addUnderline writes carets from column from up to (not including) column to,
// copying tabs from the source line so the carets stay aligned.
func addUnderline(result *strings.Builder, line string, from, to int) {
	for i := 1; i < from; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			result.WriteByte('\t')
		} else {
			result.WriteByte(' ')
		}
	}
	if to <= from {
		to = from + 1
	}
	result.WriteString(strings.Repeat("^", to-from))
}
