package migrate

import (
	"sort"
	"strings"

	"github.com/walteh/ctxmigrate/pkg/source"
	"github.com/walteh/ctxmigrate/pkg/text"
)

// 🧹 deleteLines queues removal of the marked lines, newline included. A blank line
// left dangling by a deleted run is removed too: one of a doubled pair of blanks, or a
// blank just above closeLine. Pass closeLine -1 when there is no enclosing block.
func deleteLines(buf *text.Buffer, src string, lines []source.Line, del map[int]bool, closeLine int) int {
	idx := make([]int, 0, len(del))
	for i := range del {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	extra := map[int]bool{}
	for r := 0; r < len(idx); {
		a := idx[r]
		b := a
		for r+1 < len(idx) && idx[r+1] == b+1 {
			r++
			b++
		}
		r++

		before, after := a-1, b+1
		if before < 0 || !lines[before].Blank() || del[before] || extra[before] {
			continue
		}
		switch {
		case after == closeLine:
			extra[before] = true
		case after < len(lines) && lines[after].Blank() && !del[after]:
			extra[after] = true
		}
	}

	for i := range extra {
		del[i] = true
	}
	for i := range del {
		buf.Delete(lines[i].Start, lines[i].Next(src))
	}
	return len(idx)
}

// replaceLine queues replacing the text of line i, keeping its newline
func replaceLine(buf *text.Buffer, lines []source.Line, i int, repl string) {
	buf.Replace(lines[i].Start, lines[i].End, repl)
}

// 🎯 statementEnd returns the index of the line where the statement starting on line i
// ends, following any bracket opened on that line to its closing line
func statementEnd(t *source.Text, lines []source.Line, i int) int {
	end := i
	l := lines[i]
	for off := l.Start; off < l.End; off++ {
		c := t.String()[off]
		if c != '(' && c != '{' && c != '[' {
			continue
		}
		closing, ok := t.Closing(off)
		if !ok {
			continue
		}
		if k := source.LineIndex(lines, closing); k > end {
			end = k
		}
		if closing >= l.End {
			break
		}
		off = closing
	}
	return end
}

// lineComment reports whether l holds only a line comment
func lineComment(t *source.Text, l source.Line) bool {
	trimmed := strings.TrimLeft(l.Text, " \t")
	if !strings.HasPrefix(trimmed, "//") {
		return false
	}
	return t.Kind(l.Start+len(l.Text)-len(trimmed)) == source.Comment
}
