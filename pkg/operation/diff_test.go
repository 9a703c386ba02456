package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	before := "a\nb\nc\n"
	after := "a\nB\nc\n"

	diff, err := UnifiedDiff("x/Foo.kt", before, after)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/x/Foo.kt\n")
	assert.Contains(t, diff, "+++ b/x/Foo.kt\n")
	assert.Contains(t, diff, "\n-b\n")
	assert.Contains(t, diff, "\n+B\n")
	assert.Contains(t, diff, " a\n", "context lines are kept")

	diff, err = UnifiedDiff("x/Foo.kt", before, before)
	require.NoError(t, err)
	assert.Empty(t, diff, "equal inputs have no diff")
}

func TestUnifiedDiff_NewFile(t *testing.T) {
	diff, err := UnifiedDiff("Foo.kt", "", "class Foo\n")
	require.NoError(t, err)
	assert.Contains(t, diff, "+class Foo\n")
}
