package status

import (
	"fmt"
)

// FileFormatter defines how file operations and status should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a one-line confirmation for a file
	FormatFileOperation(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo) string {
	target := info.Path
	if info.Output != "" && info.Output != info.Path {
		target = info.Path + " -> " + info.Output
	}
	switch info.Status {
	case StatusCreated:
		return fmt.Sprintf("✨ Created %s (%s)", target, rewrites(info.Rewrites))
	case StatusModified:
		return fmt.Sprintf("📝 Migrated %s (%s)", target, rewrites(info.Rewrites))
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", target)
	default:
		return fmt.Sprintf("👍 Unchanged %s", target)
	}
}

func rewrites(n int) string {
	if n == 1 {
		return "1 rewrite"
	}
	return fmt.Sprintf("%d rewrites", n)
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
