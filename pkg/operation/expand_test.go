package operation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{
		"src/test/kotlin/a/AlphaE2ETest.kt",
		"src/test/kotlin/b/BetaE2ETest.kt",
		"src/test/kotlin/b/Helper.kt",
		"src/main/kotlin/Main.kt",
	} {
		env.write(t, name, plainSource)
	}
	path := func(name string) string { return filepath.Join(env.dir, filepath.FromSlash(name)) }

	tests := []struct {
		name        string
		baseDir     string
		patterns    []string
		want        []string
		errContains string
	}{
		{
			name:     "doublestar",
			patterns: []string{path("src/**/*E2ETest.kt")},
			want:     []string{path("src/test/kotlin/a/AlphaE2ETest.kt"), path("src/test/kotlin/b/BetaE2ETest.kt")},
		},
		{
			name:     "plain_path",
			patterns: []string{path("src/main/kotlin/Main.kt")},
			want:     []string{path("src/main/kotlin/Main.kt")},
		},
		{
			name:     "overlapping_patterns_dedupe",
			patterns: []string{path("src/test/kotlin/b/*.kt"), path("src/**/BetaE2ETest.kt")},
			want:     []string{path("src/test/kotlin/b/BetaE2ETest.kt"), path("src/test/kotlin/b/Helper.kt")},
		},
		{
			name:     "relative_to_base_dir",
			baseDir:  env.dir,
			patterns: []string{"src/**/*E2ETest.kt", "./src/main/kotlin/Main.kt"},
			want: []string{
				filepath.FromSlash("src/main/kotlin/Main.kt"),
				filepath.FromSlash("src/test/kotlin/a/AlphaE2ETest.kt"),
				filepath.FromSlash("src/test/kotlin/b/BetaE2ETest.kt"),
			},
		},
		{
			name:     "relative_to_nested_base_dir",
			baseDir:  path("src/test"),
			patterns: []string{"kotlin/b/*.kt"},
			want:     []string{filepath.FromSlash("kotlin/b/BetaE2ETest.kt"), filepath.FromSlash("kotlin/b/Helper.kt")},
		},
		{
			name:        "relative_no_match_under_base_dir",
			baseDir:     path("src/main"),
			patterns:    []string{"src/**/*.kt"},
			errContains: "no files match",
		},
		{
			name:        "directories_are_skipped",
			patterns:    []string{path("src/test/kotlin/*")},
			errContains: "no files match",
		},
		{
			name:        "no_match",
			patterns:    []string{path("src/**/*.java")},
			errContains: "no files match",
		},
		{
			name:        "bad_pattern",
			patterns:    []string{path("src/[x")},
			errContains: "invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := tt.baseDir
			if base == "" {
				base = "."
			}
			targets, err := Expand(env.ctx, base, tt.patterns)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)

			var got []string
			for _, target := range targets {
				assert.Empty(t, target.Output, "expanded targets migrate in place")
				got = append(got, target.Input)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
