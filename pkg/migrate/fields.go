package migrate

import (
	"context"
	"regexp"
	"sort"

	"github.com/rs/zerolog"

	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/source"
	"github.com/walteh/ctxmigrate/pkg/text"
)

const (
	visibility   = `((?:(?:private|protected|internal)[ \t]+)?)`
	trailComment = `[ \t]*(?://[^\n]*)?`
)

type fieldPatterns struct {
	pair    *regexp.Regexp
	single  *regexp.Regexp
	context *regexp.Regexp
	userDir *regexp.Regexp
}

func newFieldPatterns(n config.Names) fieldPatterns {
	dir := regexp.QuoteMeta(n.LegacyDir)
	ud := regexp.QuoteMeta(n.LegacyUserDir)
	dirDecl := `^([ \t]*)` + visibility + `lateinit[ \t]+var[ \t]+` + dir + `[ \t]*:[ \t]*(?:java\.io\.)?File` + trailComment
	udDecl := `[ \t]*` + visibility + `val[ \t]+` + ud + `[ \t]*=[ \t]*System\.getProperty\([ \t]*"user\.dir"[ \t]*\)` + trailComment + `$`
	return fieldPatterns{
		pair:    regexp.MustCompile(`(?m)` + dirDecl + `\n` + udDecl),
		single:  regexp.MustCompile(`(?m)` + dirDecl + `$`),
		context: regexp.MustCompile(`(?m)^[ \t]*(?:\w+[ \t]+)*var[ \t]+` + regexp.QuoteMeta(n.Context) + `[ \t]*:[ \t]*` + regexp.QuoteMeta(n.ContextType) + `\b`),
		userDir: regexp.MustCompile(`^[ \t]*` + visibility + `(?:val|var)[ \t]+` + ud + `\b`),
	}
}

type fieldMatch struct {
	start, end int // end excludes the final newline
	indent     string
	vis        string
}

// 🏷️ FieldStage replaces the legacy directory field (alone, or paired with the
// captured working directory on the next line) with a single context field. Only the
// first declaration is replaced, further ones are deleted.
type FieldStage struct {
	cfg *config.Config
}

func (s *FieldStage) Name() string { return "fields" }

func (s *FieldStage) Apply(ctx context.Context, f *File) (int, error) {
	p := newFieldPatterns(s.cfg.Names)
	t := source.Scan(f.Content)

	var matches []fieldMatch
	taken := func(start, end int) bool {
		for _, m := range matches {
			if start < m.end && m.start < end {
				return true
			}
		}
		return false
	}
	// pairs first, so a single declaration never splits a pair
	for _, re := range []*regexp.Regexp{p.pair, p.single} {
		for _, m := range re.FindAllStringSubmatchIndex(f.Content, -1) {
			if !t.IsCode(m[3]) || taken(m[0], m[1]) {
				continue
			}
			matches = append(matches, fieldMatch{
				start:  m[0],
				end:    m[1],
				indent: f.Content[m[2]:m[3]],
				vis:    f.Content[m[4]:m[5]],
			})
		}
	}
	if len(matches) == 0 {
		return 0, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	hasContext := false
	for _, m := range p.context.FindAllStringIndex(f.Content, -1) {
		if t.CodeLine(source.Line{Start: m[0], End: m[1], Text: f.Content[m[0]:m[1]]}) {
			hasContext = true
			break
		}
	}

	buf := text.NewBuffer(f.Content)
	for i, m := range matches {
		if i == 0 && !hasContext {
			buf.Replace(m.start, m.end, m.indent+m.vis+"lateinit var "+s.cfg.Names.Context+": "+s.cfg.Names.ContextType)
			continue
		}
		end := m.end
		if end < len(f.Content) {
			end++
		}
		buf.Delete(m.start, end)
	}

	zerolog.Ctx(ctx).Trace().Int("declarations", len(matches)).Bool("had_context", hasContext).Msg("rewrote field declarations")

	out, err := buf.Apply()
	if err != nil {
		return 0, err
	}
	f.Content = out
	return len(matches), nil
}

// 🧹 UserDirStage deletes leftover declarations of the captured working directory
// that were not part of a recognised field pair
type UserDirStage struct {
	cfg *config.Config
}

func (s *UserDirStage) Name() string { return "userdir" }

func (s *UserDirStage) Apply(ctx context.Context, f *File) (int, error) {
	re := newFieldPatterns(s.cfg.Names).userDir
	t := source.Scan(f.Content)
	lines := source.Lines(f.Content)

	del := map[int]bool{}
	for i, l := range lines {
		if t.CodeLine(l) && re.MatchString(l.Text) {
			del[i] = true
		}
	}
	if len(del) == 0 {
		return 0, nil
	}

	buf := text.NewBuffer(f.Content)
	n := deleteLines(buf, f.Content, lines, del, -1)
	out, err := buf.Apply()
	if err != nil {
		return 0, err
	}
	zerolog.Ctx(ctx).Trace().Int("declarations", n).Msg("removed working directory declarations")
	f.Content = out
	return n, nil
}
