package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/ctxmigrate/pkg/config"
)

func TestImportStage(t *testing.T) {
	const ctxImport = "import dev.dropper.util.TestProjectContext"

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "before_generator_import",
			src: kt(
				"import dev.dropper.config.ModConfig",
				"import dev.dropper.generator.ProjectGenerator",
				"",
				"val x = testProjectDir",
			),
			want: kt(
				"import dev.dropper.config.ModConfig",
				ctxImport,
				"import dev.dropper.generator.ProjectGenerator",
				"",
				"val x = testProjectDir",
			),
		},
		{
			name: "after_first_anchor",
			src: kt(
				"import dev.dropper.config.ModConfig",
				"import org.junit.jupiter.api.AfterEach",
				"",
				"val x = testProjectDir",
			),
			want: kt(
				"import dev.dropper.config.ModConfig",
				ctxImport,
				"import org.junit.jupiter.api.AfterEach",
				"",
				"val x = testProjectDir",
			),
		},
		{
			name: "after_second_anchor",
			src: kt(
				"import org.junit.jupiter.api.AfterEach",
				"import org.junit.jupiter.api.Test",
				"",
				"val x = testProjectDir",
			),
			want: kt(
				"import org.junit.jupiter.api.AfterEach",
				ctxImport,
				"import org.junit.jupiter.api.Test",
				"",
				"val x = testProjectDir",
			),
		},
		{
			name: "anchor_at_end_of_file",
			src:  "val x = testProjectDir\nimport org.junit.jupiter.api.AfterEach",
			want: "val x = testProjectDir\nimport org.junit.jupiter.api.AfterEach\n" + ctxImport,
		},
		{
			name: "already_imported",
			src: kt(
				ctxImport,
				"import dev.dropper.generator.ProjectGenerator",
				"val x = testProjectDir",
			),
		},
		{
			name: "no_anchor",
			src: kt(
				"import org.junit.jupiter.api.Test",
				"val x = testProjectDir",
			),
		},
		{
			name: "no_legacy_identifier",
			src: kt(
				"import dev.dropper.generator.ProjectGenerator",
				"// testProjectDir only in a comment",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.want
			if want == "" {
				want = tt.src
			}

			got, _ := runStage(t, &ImportStage{cfg: config.Default()}, "A.kt", tt.src)
			assert.Equal(t, want, got)

			again, n := runStage(t, &ImportStage{cfg: config.Default()}, "A.kt", got)
			assert.Equal(t, got, again, "second run should not change the output")
			assert.Zero(t, n)
		})
	}
}
