package source

import (
	"strings"
)

// Line is one line of text. End excludes the newline.
type Line struct {
	Start int
	End   int
	Text  string
}

// Next returns the offset just past the line's newline (or End at EOF)
func (l Line) Next(src string) int {
	if l.End < len(src) {
		return l.End + 1
	}
	return l.End
}

// Blank reports whether the line holds only whitespace
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Text) == ""
}

// Lines splits src into lines. A trailing newline does not produce an empty last line.
func Lines(src string) []Line {
	var out []Line
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			out = append(out, Line{Start: start, End: i, Text: src[start:i]})
			start = i + 1
		}
	}
	if start < len(src) {
		out = append(out, Line{Start: start, End: len(src), Text: src[start:]})
	}
	return out
}

// Indent returns the leading spaces and tabs of s
func Indent(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// LineIndex returns the index of the line containing offset, or -1
func LineIndex(lines []Line, offset int) int {
	for i, l := range lines {
		if offset >= l.Start && offset <= l.End {
			return i
		}
	}
	return -1
}

// 🔍 CodeLine reports whether the first non-blank byte of l is code. Lines inside
// comments and multi-line strings report false.
func (t *Text) CodeLine(l Line) bool {
	trimmed := len(l.Text) - len(strings.TrimLeft(l.Text, " \t"))
	if trimmed == len(l.Text) {
		return false
	}
	return t.IsCode(l.Start + trimmed)
}
