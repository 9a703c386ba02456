package migrate

import (
	"path/filepath"
	"strings"
)

// DeriveName computes the short test name used in generated context names. The
// extension and the first matching suffix are stripped once, then the rest is lower
// cased: "MyTestE2ETest.kt" becomes "mytest".
func DeriveName(path string, suffixes []string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	name := base
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(name, s) {
			name = strings.TrimSuffix(name, s)
			break
		}
	}
	if name == "" {
		name = base
	}
	return strings.ToLower(name)
}
