package operation

import (
	"github.com/pmezard/go-difflib/difflib"
)

// 🔀 UnifiedDiff renders the change from before to after as a unified diff.
// Equal inputs give an empty string.
func UnifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
