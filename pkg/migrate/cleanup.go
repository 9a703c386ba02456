package migrate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/source"
	"github.com/walteh/ctxmigrate/pkg/text"
)

// 🏷️ CleanupShape classifies an @AfterEach hook
type CleanupShape int

const (
	CleanupNone   CleanupShape = iota // nothing to rewrite
	CleanupStrict                     // exactly restore, exists check, recursive delete
	CleanupLoose                      // any other body deleting the directory
)

func (s CleanupShape) String() string {
	switch s {
	case CleanupNone:
		return "none"
	case CleanupStrict:
		return "strict"
	case CleanupLoose:
		return "loose"
	default:
		return fmt.Sprintf("CleanupShape(%d)", int(s))
	}
}

// CleanupMatch is the classification of one hook
type CleanupMatch struct {
	Shape CleanupShape
	Hook  Hook
}

func strictCleanup(n config.Names) []*regexp.Regexp {
	dir := regexp.QuoteMeta(n.LegacyDir)
	return []*regexp.Regexp{
		regexp.MustCompile(`^System\.setProperty\(\s*"user\.dir"\s*,\s*` + regexp.QuoteMeta(n.LegacyUserDir) + `\s*\)\s*;?$`),
		regexp.MustCompile(`^if\s*\(\s*` + dir + `\.exists\(\)\s*\)\s*\{$`),
		regexp.MustCompile(`^` + dir + `\.deleteRecursively\(\)\s*;?$`),
		regexp.MustCompile(`^\}$`),
	}
}

// 🔍 ClassifyCleanup tells the strict four statement body apart from any other body
// that deletes the directory. The strict shape wins when both apply.
func ClassifyCleanup(t *source.Text, lines []source.Line, h Hook, n config.Names) CleanupMatch {
	m := CleanupMatch{Hook: h}
	openLine, closeLine := h.lineRange(lines)

	var stmts []string
	for i := openLine + 1; i < closeLine; i++ {
		if lines[i].Blank() {
			continue
		}
		stmts = append(stmts, strings.TrimSpace(lines[i].Text))
	}

	if strict := strictCleanup(n); len(stmts) == len(strict) {
		ok := true
		for i, re := range strict {
			if !re.MatchString(stmts[i]) {
				ok = false
				break
			}
		}
		if ok {
			m.Shape = CleanupStrict
			return m
		}
	}

	if t.ContainsCode(n.LegacyDir+".deleteRecursively()", h.Open, h.Close) {
		m.Shape = CleanupLoose
	}
	return m
}

// 🧹 CleanupStage replaces the body of every legacy @AfterEach hook with a single
// context cleanup call. The annotation, indentation and function name stay.
type CleanupStage struct {
	cfg *config.Config
}

func (s *CleanupStage) Name() string { return "cleanup" }

func (s *CleanupStage) Apply(ctx context.Context, f *File) (int, error) {
	logger := zerolog.Ctx(ctx)
	t := source.Scan(f.Content)
	lines := source.Lines(f.Content)
	buf := text.NewBuffer(f.Content)

	for _, h := range FindHooks(t, "AfterEach") {
		m := ClassifyCleanup(t, lines, h, s.cfg.Names)
		logger.Debug().Str("hook", h.Func).Stringer("shape", m.Shape).Msg("classified cleanup hook")
		if m.Shape == CleanupNone {
			continue
		}

		indent := h.Indent
		if cl := lines[source.LineIndex(lines, h.Close)]; strings.TrimSpace(f.Content[cl.Start:h.Close]) == "" {
			indent = f.Content[cl.Start:h.Close]
		}
		buf.Replace(h.Open+1, h.Close, "\n"+indent+"    "+s.cfg.Names.Context+".cleanup()\n"+indent)
	}
	if buf.Len() == 0 {
		return 0, nil
	}

	out, err := buf.Apply()
	if err != nil {
		return 0, err
	}
	f.Content = out
	return buf.Len(), nil
}
