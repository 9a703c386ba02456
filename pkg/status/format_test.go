package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the default file formatter implementation
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name        string
		info        FileInfo
		want        string
		description string
	}{
		{
			name:        "created_output",
			info:        FileInfo{Path: "FooTest.kt", Output: "out/FooTest.kt", Status: StatusCreated, Rewrites: 1},
			want:        "✨ Created FooTest.kt -> out/FooTest.kt (1 rewrite)",
			description: "should show both paths for a separate output",
		},
		{
			name:        "migrated_in_place",
			info:        FileInfo{Path: "FooTest.kt", Output: "FooTest.kt", Status: StatusModified, Rewrites: 6},
			want:        "📝 Migrated FooTest.kt (6 rewrites)",
			description: "should show one path when written in place",
		},
		{
			name:        "unchanged_file",
			info:        FileInfo{Path: "stable.kt", Status: StatusUnchanged},
			want:        "👍 Unchanged stable.kt",
			description: "should show unchanged symbol for untouched files",
		},
		{
			name:        "failed_file",
			info:        FileInfo{Path: "broken.kt", Status: StatusFailed},
			want:        "❌ Failed broken.kt",
			description: "should show error symbol for failed files",
		},
		{
			name:        "unknown_status",
			info:        FileInfo{Path: "x.kt"},
			want:        "👍 Unchanged x.kt",
			description: "should fall back to unchanged",
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatFileOperation(tt.info)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{name: "zero_progress", current: 0, total: 10, expected: "⏳ Progress: 0/10 (0%)"},
		{name: "half_progress", current: 5, total: 10, expected: "⏳ Progress: 5/10 (50%)"},
		{name: "complete", current: 10, total: 10, expected: "✅ Progress: 10/10 (100%)"},
		{name: "zero_total", current: 0, total: 0, expected: "✅ Progress: 0/0 (0%)"},
		{name: "zero_total_with_current", current: 5, total: 0, expected: "✅ Progress: 5/0 (100%)"},
	}

	formatter := NewDefaultFileFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.FormatProgress(tt.current, tt.total))
		})
	}
}

// 🧪 TestErrorFormatting tests error message formatting
func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFileFormatter()
	assert.Equal(t, "❌ Error: assert.AnError general error for testing", formatter.FormatError(assert.AnError))
	assert.Empty(t, formatter.FormatError(nil))
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "created", StatusCreated.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
