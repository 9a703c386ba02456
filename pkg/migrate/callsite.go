package migrate

import (
	"context"
	"strings"

	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/text"
)

// 🔁 CallSiteStage replaces every remaining occurrence of the legacy directory handle
// with the context's project directory, then applies the configured replacements whose
// glob matches the file. The substitution is blind: comments and strings included.
type CallSiteStage struct {
	cfg      *config.Config
	replacer text.TextReplacer
}

func (s *CallSiteStage) Name() string { return "callsite" }

func (s *CallSiteStage) rules(path string) []text.ReplacementRule {
	n := s.cfg.Names
	rules := []text.ReplacementRule{{FromText: n.LegacyDir, ToText: n.Context + ".projectDir"}}
	return append(rules, text.FilterRules(path, s.cfg.Replacements)...)
}

func (s *CallSiteStage) Apply(ctx context.Context, f *File) (int, error) {
	return replace(ctx, s.replacer, f, s.rules(f.Path))
}

// 💉 InjectStage sets the project directory on freshly constructed commands right
// before they parse: `X().parse(` becomes `X().apply { projectDir = ... }.parse(`.
// Only commands in the configured list are touched.
type InjectStage struct {
	cfg      *config.Config
	replacer text.TextReplacer
}

func (s *InjectStage) Name() string { return "inject" }

func (s *InjectStage) Apply(ctx context.Context, f *File) (int, error) {
	rules := make([]text.ReplacementRule, 0, len(s.cfg.Commands))
	for _, c := range s.cfg.Commands {
		rules = append(rules, text.ReplacementRule{
			FromText: c + "().parse(",
			ToText:   c + "().apply { projectDir = " + s.cfg.Names.Context + ".projectDir }.parse(",
		})
	}
	return replace(ctx, s.replacer, f, rules)
}

func replace(ctx context.Context, r text.TextReplacer, f *File, rules []text.ReplacementRule) (int, error) {
	if r == nil {
		r = text.NewSimpleTextReplacer()
	}
	res, err := r.ReplaceText(ctx, strings.NewReader(f.Content), rules)
	if err != nil {
		return 0, err
	}
	if res.WasModified {
		f.Content = string(res.ModifiedContent)
	}
	return res.ReplacementCount, nil
}
