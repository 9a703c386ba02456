package operation

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌟 Expand resolves doublestar patterns into in-place targets. Relative patterns match
// under baseDir and yield paths relative to it, absolute patterns yield absolute paths.
// Every pattern must match at least one file; duplicates across patterns are dropped.
func Expand(ctx context.Context, baseDir string, patterns []string) ([]Target, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}
		matches, err := glob(baseDir, pattern)
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("base_dir", baseDir).Int("matches", len(matches)).Msg("expanded pattern")

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}

	sort.Strings(paths)
	targets := make([]Target, len(paths))
	for i, p := range paths {
		targets[i] = Target{Input: p}
	}
	return targets, nil
}

func glob(baseDir, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), path.Clean(filepath.ToSlash(pattern)), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches, nil
}
