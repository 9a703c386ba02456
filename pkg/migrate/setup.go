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

// 🏷️ SetupShape classifies a @BeforeEach hook
type SetupShape int

const (
	SetupNone       SetupShape = iota // no legacy statements
	SetupMigrated                     // already creates a context
	SetupPartial                      // generation or override without an allocation
	SetupAllocOnly                    // allocation without generation
	SetupNoOverride                   // allocation and generation
	SetupFull                         // allocation, generation and override
)

func (s SetupShape) String() string {
	switch s {
	case SetupNone:
		return "none"
	case SetupMigrated:
		return "migrated"
	case SetupPartial:
		return "partial"
	case SetupAllocOnly:
		return "alloc-only"
	case SetupNoOverride:
		return "no-override"
	case SetupFull:
		return "full"
	default:
		return fmt.Sprintf("SetupShape(%d)", int(s))
	}
}

// Legacy reports whether the hook holds legacy statements to rewrite
func (s SetupShape) Legacy() bool {
	return s >= SetupPartial
}

// Span is an inclusive range of line indexes
type Span struct {
	From, To int
}

// GenerateSite is a project generation call inside a setup hook
type GenerateSite struct {
	Line   int
	Indent string
	Config string
	Var    string // generator variable, empty for a direct constructor call
}

// GeneratorDecl is a generator variable declared inside a setup hook
type GeneratorDecl struct {
	Line int
	Var  string
}

// 📋 SetupMatch is everything the classifier captured from one hook
type SetupMatch struct {
	Shape       SetupShape
	Hook        Hook
	Alloc       *Span // allocation statement, plus the directory creation line if present
	AllocIndent string
	Generates   []GenerateSite
	Overrides   []Span // working directory overrides with their attached comments
	Decls       []GeneratorDecl
}

type setupPatterns struct {
	alloc    *regexp.Regexp
	mkdirs   *regexp.Regexp
	direct   *regexp.Regexp
	variable *regexp.Regexp
	decl     *regexp.Regexp
	override *regexp.Regexp
}

const stmtEnd = `[ \t]*;?[ \t]*(?://.*)?$`

func newSetupPatterns(n config.Names) setupPatterns {
	dir := regexp.QuoteMeta(n.LegacyDir)
	gen := regexp.QuoteMeta(n.Generator)
	return setupPatterns{
		alloc:    regexp.MustCompile(`^([ \t]*)` + dir + `[ \t]*=[ \t]*[^=\s]`),
		mkdirs:   regexp.MustCompile(`^[ \t]*` + dir + `\.mkdirs\(\)` + stmtEnd),
		direct:   regexp.MustCompile(`^([ \t]*)(?:val[ \t]+\w+[ \t]*=[ \t]*)?` + gen + `\(\)\.generate\(\s*` + dir + `\s*,\s*(.+?)\s*\)` + stmtEnd),
		variable: regexp.MustCompile(`^([ \t]*)(\w+)\.generate\(\s*` + dir + `\s*,\s*(.+?)\s*\)` + stmtEnd),
		decl:     regexp.MustCompile(`^[ \t]*` + visibility + `val[ \t]+(\w+)[ \t]*=[ \t]*` + gen + `\(\)` + stmtEnd),
		override: regexp.MustCompile(`^[ \t]*System\.setProperty\(\s*"user\.dir"\s*,\s*` + dir + `\.(?:absolutePath|path|canonicalPath|absoluteFile\.path)\s*\)` + stmtEnd),
	}
}

// allocSite is an allocation statement with the indentation of its first line
type allocSite struct {
	Span
	Indent string
}

// legacySites are the legacy statements found on a run of lines
type legacySites struct {
	allocs    []allocSite
	generates []GenerateSite
	overrides []Span
}

// generators returns the generator variables declared anywhere in the file along with
// their declarations
func (p setupPatterns) generators(t *source.Text, lines []source.Line) (map[string]bool, []GeneratorDecl) {
	vars := map[string]bool{}
	var decls []GeneratorDecl
	for i, l := range lines {
		if !t.CodeLine(l) {
			continue
		}
		if d := p.decl.FindStringSubmatch(l.Text); d != nil {
			vars[d[2]] = true
			decls = append(decls, GeneratorDecl{Line: i, Var: d[2]})
		}
	}
	return vars, decls
}

// scan matches legacy statements on the code lines [from, to) that skip does not
// exclude. With single set only the first allocation is taken.
func (p setupPatterns) scan(t *source.Text, lines []source.Line, from, to int, vars map[string]bool, skip func(int) bool, single bool) legacySites {
	var out legacySites
	for i := from; i < to; i++ {
		l := lines[i]
		if (skip != nil && skip(i)) || !t.CodeLine(l) {
			continue
		}

		if (!single || len(out.allocs) == 0) && p.alloc.MatchString(l.Text) {
			span := Span{From: i, To: statementEnd(t, lines, i)}
			for k := span.To + 1; k < to; k++ {
				if lines[k].Blank() {
					continue
				}
				if t.CodeLine(lines[k]) && p.mkdirs.MatchString(lines[k].Text) {
					span.To = k
				}
				break
			}
			out.allocs = append(out.allocs, allocSite{Span: span, Indent: source.Indent(l.Text)})
			i = span.To
			continue
		}

		if g := p.direct.FindStringSubmatch(l.Text); g != nil {
			out.generates = append(out.generates, GenerateSite{Line: i, Indent: g[1], Config: g[2]})
			continue
		}
		if g := p.variable.FindStringSubmatch(l.Text); g != nil && vars[g[2]] {
			out.generates = append(out.generates, GenerateSite{Line: i, Indent: g[1], Config: g[3], Var: g[2]})
			continue
		}

		if p.override.MatchString(l.Text) {
			start := i
			for start-1 >= from && (skip == nil || !skip(start-1)) && lineComment(t, lines[start-1]) {
				start--
			}
			out.overrides = append(out.overrides, Span{From: start, To: i})
		}
	}
	return out
}

// 🔍 ClassifySetup captures the legacy statements of a @BeforeEach hook. Generator
// variables are recognised when declared in the hook or anywhere else in the file.
func ClassifySetup(t *source.Text, lines []source.Line, h Hook, n config.Names) SetupMatch {
	m := SetupMatch{Hook: h}
	if t.ContainsCode(n.ContextType+".create(", h.Open, h.Close) {
		m.Shape = SetupMigrated
		return m
	}

	p := newSetupPatterns(n)
	openLine, closeLine := h.lineRange(lines)

	vars, decls := p.generators(t, lines)
	for _, d := range decls {
		if d.Line > openLine && d.Line < closeLine {
			m.Decls = append(m.Decls, d)
		}
	}

	sites := p.scan(t, lines, openLine+1, closeLine, vars, nil, true)
	if len(sites.allocs) > 0 {
		a := sites.allocs[0]
		m.Alloc = &a.Span
		m.AllocIndent = a.Indent
	}
	m.Generates = sites.generates
	m.Overrides = sites.overrides

	gen, ovr := len(m.Generates) > 0, len(m.Overrides) > 0
	switch {
	case m.Alloc != nil && gen && ovr:
		m.Shape = SetupFull
	case m.Alloc != nil && gen:
		m.Shape = SetupNoOverride
	case m.Alloc != nil:
		m.Shape = SetupAllocOnly
	case gen || ovr:
		m.Shape = SetupPartial
	default:
		m.Shape = SetupNone
	}
	return m
}

// 🏗️ SetupStage rewrites @BeforeEach hooks. Allocation becomes context creation,
// generation becomes project creation on the context and the working directory
// override is removed. With defaultProject set, legacy hook bodies are replaced by a
// context creation plus a default project instead.
type SetupStage struct {
	cfg            *config.Config
	defaultProject bool
}

func (s *SetupStage) Name() string {
	if s.defaultProject {
		return "setup-default"
	}
	return "setup"
}

func (s *SetupStage) Apply(ctx context.Context, f *File) (int, error) {
	logger := zerolog.Ctx(ctx)
	t := source.Scan(f.Content)
	lines := source.Lines(f.Content)
	buf := text.NewBuffer(f.Content)

	hooks := FindHooks(t, "BeforeEach")
	count := 0
	for _, h := range hooks {
		m := ClassifySetup(t, lines, h, s.cfg.Names)
		logger.Debug().Str("hook", h.Func).Stringer("shape", m.Shape).Msg("classified setup hook")
		if !m.Shape.Legacy() {
			continue
		}
		if s.defaultProject {
			count += s.replaceBody(buf, lines, m, f.Name)
			continue
		}
		count += s.rewrite(buf, t, lines, m, f.Name)
	}

	loose := s.rewriteLoose(buf, t, lines, hooks, f.Name)
	if loose > 0 {
		logger.Debug().Int("rewrites", loose).Msg("rewrote legacy statements outside setup hooks")
	}
	count += loose
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

func (s *SetupStage) create(name string) string {
	n := s.cfg.Names
	return n.Context + " = " + n.ContextType + ".create(" + kotlinString(s.cfg.NamePrefix+name) + ")"
}

func (s *SetupStage) rewrite(buf *text.Buffer, t *source.Text, lines []source.Line, m SetupMatch, name string) int {
	src := t.String()
	openLine, closeLine := m.Hook.lineRange(lines)
	count := 0

	if m.Alloc != nil {
		buf.Replace(lines[m.Alloc.From].Start, lines[m.Alloc.To].End, m.AllocIndent+s.create(name))
		count++
	}

	rewritten := map[int]bool{}
	for _, g := range m.Generates {
		replaceLine(buf, lines, g.Line, g.Indent+s.cfg.Names.Context+".createProject("+g.Config+")")
		rewritten[g.Line] = true
		count++
	}

	del := map[int]bool{}
	for _, o := range m.Overrides {
		for i := o.From; i <= o.To; i++ {
			del[i] = true
		}
		count++
	}

	for _, d := range m.Decls {
		if referenced(t, lines, d.Var, openLine+1, closeLine, d.Line, rewritten) {
			continue
		}
		del[d.Line] = true
		count++
	}

	if len(del) > 0 {
		deleteLines(buf, src, lines, del, closeLine)
	}
	return count
}

// 🧹 rewriteLoose applies the allocation, generation and override rewrites to every
// line outside the @BeforeEach hooks: test bodies that build their own project, and
// setup code in functions the hook matcher does not recognise. A local generator
// variable is removed once no code in its function uses it.
func (s *SetupStage) rewriteLoose(buf *text.Buffer, t *source.Text, lines []source.Line, hooks []Hook, name string) int {
	spans := make([]Span, len(hooks))
	for i, h := range hooks {
		spans[i].From, spans[i].To = h.lineRange(lines)
	}
	inHook := func(i int) bool {
		for _, sp := range spans {
			if i >= sp.From && i <= sp.To {
				return true
			}
		}
		return false
	}

	p := newSetupPatterns(s.cfg.Names)
	vars, decls := p.generators(t, lines)
	sites := p.scan(t, lines, 0, len(lines), vars, inHook, false)

	count := 0
	for _, a := range sites.allocs {
		buf.Replace(lines[a.From].Start, lines[a.To].End, a.Indent+s.create(name))
		count++
	}

	rewritten := map[int]bool{}
	for _, g := range sites.generates {
		replaceLine(buf, lines, g.Line, g.Indent+s.cfg.Names.Context+".createProject("+g.Config+")")
		rewritten[g.Line] = true
		count++
	}

	del := map[int]bool{}
	for _, o := range sites.overrides {
		for i := o.From; i <= o.To; i++ {
			del[i] = true
		}
		count++
	}

	for _, d := range decls {
		if inHook(d.Line) {
			continue
		}
		to, ok := functionScope(t, lines, d.Line)
		if !ok || !generatesWith(sites.generates, d.Var, d.Line, to) {
			continue
		}
		if referenced(t, lines, d.Var, d.Line+1, to, d.Line, rewritten) {
			continue
		}
		del[d.Line] = true
		count++
	}

	if len(del) > 0 {
		deleteLines(buf, t.String(), lines, del, -1)
	}
	return count
}

var funKeyword = regexp.MustCompile(`\bfun\b`)

// functionScope returns the line of the closing brace of the block enclosing line i,
// provided that block is a function body
func functionScope(t *source.Text, lines []source.Line, i int) (int, bool) {
	src := t.String()
	open, depth := -1, 0
	for off := lines[i].Start - 1; off >= 0 && open < 0; off-- {
		if !t.IsCode(off) {
			continue
		}
		switch src[off] {
		case '}':
			depth++
		case '{':
			if depth == 0 {
				open = off
			} else {
				depth--
			}
		}
	}
	if open < 0 {
		return 0, false
	}

	// 🏷️ the header runs back to the previous statement or block boundary
	from := open
	for from > 0 && !(t.IsCode(from-1) && strings.IndexByte("{};", src[from-1]) >= 0) {
		from--
	}
	head := []byte(src[from:open])
	for k := range head {
		if !t.IsCode(from + k) {
			head[k] = ' '
		}
	}
	if !funKeyword.Match(head) {
		return 0, false
	}

	end, ok := t.Closing(open)
	if !ok {
		return 0, false
	}
	return source.LineIndex(lines, end), true
}

// generatesWith reports whether a generation site on lines (from, to) calls v
func generatesWith(sites []GenerateSite, v string, from, to int) bool {
	for _, g := range sites {
		if g.Var == v && g.Line > from && g.Line < to {
			return true
		}
	}
	return false
}

// referenced reports whether name appears in code on lines [from, to), skipping line
// skip and the lines in ignore
func referenced(t *source.Text, lines []source.Line, name string, from, to, skip int, ignore map[int]bool) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	for i := from; i < to; i++ {
		if i == skip || ignore[i] {
			continue
		}
		l := lines[i]
		for _, loc := range re.FindAllStringIndex(l.Text, -1) {
			if t.IsCode(l.Start + loc[0]) {
				return true
			}
		}
	}
	return false
}

func (s *SetupStage) replaceBody(buf *text.Buffer, lines []source.Line, m SetupMatch, name string) int {
	openLine, closeLine := m.Hook.lineRange(lines)
	if closeLine <= openLine+1 {
		return 0
	}

	in := m.Hook.Indent + "    "
	for i := openLine + 1; i < closeLine; i++ {
		if !lines[i].Blank() {
			in = source.Indent(lines[i].Text)
			break
		}
	}

	dp := s.cfg.DefaultProject
	var sb strings.Builder
	sb.WriteString(in + "// Create a test project context\n")
	sb.WriteString(in + s.create(name) + "\n")
	sb.WriteString("\n")
	sb.WriteString(in + "// Generate a minimal project using context\n")
	sb.WriteString(in + s.cfg.Names.Context + ".createDefaultProject(\n")
	sb.WriteString(in + "    id = " + kotlinString(dp.ID) + ",\n")
	sb.WriteString(in + "    name = " + kotlinString(dp.Name) + ",\n")
	sb.WriteString(in + "    minecraftVersions = " + kotlinList(dp.MinecraftVersions) + ",\n")
	sb.WriteString(in + "    loaders = " + kotlinList(dp.Loaders) + "\n")
	sb.WriteString(in + ")")

	buf.Replace(lines[openLine+1].Start, lines[closeLine-1].End, sb.String())
	return 1
}

var kotlinEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "\n", `\n`)

func kotlinString(s string) string {
	return `"` + kotlinEscaper.Replace(s) + `"`
}

func kotlinList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = kotlinString(it)
	}
	return "listOf(" + strings.Join(quoted, ", ") + ")"
}
