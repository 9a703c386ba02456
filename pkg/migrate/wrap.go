package migrate

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/source"
	"github.com/walteh/ctxmigrate/pkg/text"
)

const scopeCall = "withProjectDir"

var (
	commandDecl = regexp.MustCompile(`^([ \t]*)val[ \t]+(\w+)[ \t]*=[ \t]*(\w*Command)\(\)` + stmtEnd)
	scopeOpener = regexp.MustCompile(`(?:^|[^\w])` + scopeCall + `(?:\s*\(\s*\))?\s*$`)
)

// 📦 WrapStage wraps a command construction and the parse call on the following line
// in a `context.withProjectDir { ... }` block. Sites already inside such a block are
// left alone.
type WrapStage struct {
	cfg *config.Config
}

func (s *WrapStage) Name() string { return "wrap" }

func (s *WrapStage) Apply(ctx context.Context, f *File) (int, error) {
	logger := zerolog.Ctx(ctx)
	t := source.Scan(f.Content)
	lines := source.Lines(f.Content)
	scoped := scopedLines(t, lines)
	buf := text.NewBuffer(f.Content)

	count := 0
	for i := 0; i+1 < len(lines); i++ {
		if scoped[i] || !t.CodeLine(lines[i]) {
			continue
		}
		m := commandDecl.FindStringSubmatch(lines[i].Text)
		if m == nil {
			continue
		}

		end, ok := parseCall(t, lines, i+1, m[2])
		if !ok {
			continue
		}

		indent := m[1]
		var sb strings.Builder
		sb.WriteString(indent + s.cfg.Names.Context + "." + scopeCall + " {\n")
		for k := i; k <= end; k++ {
			l := lines[k]
			switch {
			case l.Blank():
				sb.WriteString("\n")
			case t.Kind(l.Start) == source.String:
				// continuation of a multi-line string keeps its bytes
				sb.WriteString(l.Text + "\n")
			default:
				sb.WriteString("    " + l.Text + "\n")
			}
		}
		sb.WriteString(indent + "}")
		if end+1 < len(lines) && !lines[end+1].Blank() {
			sb.WriteString("\n")
		}

		buf.Replace(lines[i].Start, lines[end].End, sb.String())
		logger.Trace().Str("command", m[3]).Int("line", i+1).Msg("wrapping command parse")
		count++
		i = end
	}
	if count == 0 {
		return 0, nil
	}

	out, err := buf.Apply()
	if err != nil {
		return 0, err
	}
	f.Content = out
	return count, nil
}

// parseCall checks that line i is `v.parse(...)` and returns the line its closing
// parenthesis sits on. Anything but a comment after the call rejects the site.
func parseCall(t *source.Text, lines []source.Line, i int, v string) (int, bool) {
	l := lines[i]
	if !t.CodeLine(l) {
		return 0, false
	}
	prefix := v + ".parse("
	trimmed := strings.TrimLeft(l.Text, " \t")
	if !strings.HasPrefix(trimmed, prefix) {
		return 0, false
	}
	open := l.Start + len(l.Text) - len(trimmed) + len(prefix) - 1
	closing, ok := t.Closing(open)
	if !ok {
		return 0, false
	}
	end := source.LineIndex(lines, closing)
	rest := strings.TrimSpace(t.String()[closing+1 : lines[end].End])
	rest = strings.TrimPrefix(rest, ";")
	if rest = strings.TrimSpace(rest); rest != "" && !strings.HasPrefix(rest, "//") {
		return 0, false
	}
	return end, true
}

// 🗂️ scopedLines reports, per line, whether the line starts inside a project
// directory scope block. Braces are tracked on a stack so nested blocks of any depth
// are handled.
func scopedLines(t *source.Text, lines []source.Line) []bool {
	src := t.String()
	out := make([]bool, len(lines))
	var stack []bool
	depth := 0
	for li, l := range lines {
		out[li] = depth > 0
		for off := l.Start; off < l.End; off++ {
			if !t.IsCode(off) {
				continue
			}
			switch src[off] {
			case '{':
				scope := scopeOpener.MatchString(src[l.Start:off])
				stack = append(stack, scope)
				if scope {
					depth++
				}
			case '}':
				if len(stack) == 0 {
					continue
				}
				if stack[len(stack)-1] {
					depth--
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
	return out
}
