package text

import (
	"context"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// SimpleTextReplacer implements TextReplacer using basic string replacement
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		if rule.FromText == "" {
			continue
		}

		count := strings.Count(currentContent, rule.FromText)
		if count == 0 {
			continue
		}

		zerolog.Ctx(ctx).Trace().
			Str("from", rule.FromText).
			Int("count", count).
			Msg("applying replacement rule")

		currentContent = strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
		result.WasModified = true
		result.ReplacementCount += count
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}

// 🔍 FilterRules returns the rules whose FileFilterGlob matches path. The glob is tried
// against the full slash path and then against the base name, so "*.kt" matches
// "src/test/FooTest.kt".
func FilterRules(path string, rules []ReplacementRule) []ReplacementRule {
	var out []ReplacementRule
	slashed := strings.ReplaceAll(path, "\\", "/")
	base := slashed[strings.LastIndex(slashed, "/")+1:]
	for _, rule := range rules {
		if rule.FileFilterGlob == "" {
			out = append(out, rule)
			continue
		}
		if ok, _ := doublestar.Match(rule.FileFilterGlob, slashed); ok {
			out = append(out, rule)
			continue
		}
		if ok, _ := doublestar.Match(rule.FileFilterGlob, base); ok {
			out = append(out, rule)
		}
	}
	return out
}
