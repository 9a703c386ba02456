package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/ctxmigrate/pkg/config"
)

func TestWrapStage(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		want     string
		rewrites int
	}{
		{
			name: "construct_and_parse",
			src: kt(
				"    fun x() {",
				"        val command = CreateItemCommand()",
				"        command.parse(args)",
				"        assertTrue(ok)",
				"    }",
			),
			want: kt(
				"    fun x() {",
				"        context.withProjectDir {",
				"            val command = CreateItemCommand()",
				"            command.parse(args)",
				"        }",
				"",
				"        assertTrue(ok)",
				"    }",
			),
			rewrites: 1,
		},
		{
			name: "blank_line_already_follows",
			src: kt(
				"    val cmd = ListAllCommand()",
				"    cmd.parse(arrayOf(\"--json\"))",
				"",
				"    done()",
			),
			want: kt(
				"    context.withProjectDir {",
				"        val cmd = ListAllCommand()",
				"        cmd.parse(arrayOf(\"--json\"))",
				"    }",
				"",
				"    done()",
			),
			rewrites: 1,
		},
		{
			name: "multi_line_parse",
			src: kt(
				"    val command = SyncCommand()",
				"    command.parse(",
				"        arrayOf(",
				"            \"--from\", \")\"",
				"",
				"        )",
				"    )",
				"    next()",
			),
			want: kt(
				"    context.withProjectDir {",
				"        val command = SyncCommand()",
				"        command.parse(",
				"            arrayOf(",
				"                \"--from\", \")\"",
				"",
				"            )",
				"        )",
				"    }",
				"",
				"    next()",
			),
			rewrites: 1,
		},
		{
			name: "already_scoped_deeply",
			src: kt(
				"    context.withProjectDir {",
				"        if (x) {",
				"            run {",
				"                val command = CreateItemCommand()",
				"                command.parse(args)",
				"            }",
				"        }",
				"    }",
			),
			rewrites: 0,
		},
		{
			name: "parse_not_on_next_line",
			src: kt(
				"    val command = CreateItemCommand()",
				"    println()",
				"    command.parse(args)",
			),
			rewrites: 0,
		},
		{
			name: "different_variable",
			src: kt(
				"    val command = CreateItemCommand()",
				"    other.parse(args)",
			),
			rewrites: 0,
		},
		{
			name: "call_chained_after_parse",
			src: kt(
				"    val command = CreateItemCommand()",
				"    command.parse(args).also { log(it) }",
			),
			rewrites: 0,
		},
		{
			name: "two_sites_after_scope_closes",
			src: kt(
				"    context.withProjectDir {",
				"        val a = CreateItemCommand()",
				"        a.parse(args)",
				"    }",
				"    val b = ListItemsCommand()",
				"    b.parse(args)",
			),
			want: kt(
				"    context.withProjectDir {",
				"        val a = CreateItemCommand()",
				"        a.parse(args)",
				"    }",
				"    context.withProjectDir {",
				"        val b = ListItemsCommand()",
				"        b.parse(args)",
				"    }",
			),
			rewrites: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.want
			if want == "" {
				want = tt.src
			}

			got, n := runStage(t, &WrapStage{cfg: config.Default()}, "A.kt", tt.src)
			assert.Equal(t, want, got)
			assert.Equal(t, tt.rewrites, n)

			again, n := runStage(t, &WrapStage{cfg: config.Default()}, "A.kt", got)
			assert.Equal(t, got, again, "second run should not change the output")
			assert.Zero(t, n)
		})
	}
}
