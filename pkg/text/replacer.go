package text

import (
	"context"
	"io"
)

// ReplacementRule defines a single literal text replacement
type ReplacementRule struct {
	// FromText is the text to replace
	FromText string `json:"from_text" yaml:"from_text"`

	// ToText is the replacement text
	ToText string `json:"to_text" yaml:"to_text"`

	// FileFilterGlob limits the rule to files whose path matches the doublestar glob.
	// Empty means every file.
	FileFilterGlob string `json:"file_filter_glob,omitempty" yaml:"file_filter_glob,omitempty"`
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content in order
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
