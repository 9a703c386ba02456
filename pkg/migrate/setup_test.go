package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/source"
)

// hookFile wraps body lines in a class with one annotated hook
func hookFile(annotation string, body ...string) string {
	lines := []string{
		"class MyTestE2ETest {",
		"    private val generator = ProjectGenerator()",
		"",
		"    @" + annotation,
		"    fun hook() {",
	}
	lines = append(lines, body...)
	lines = append(lines, "    }", "}")
	return kt(lines...)
}

func TestClassifySetup(t *testing.T) {
	tests := []struct {
		name string
		body []string
		want SetupShape
	}{
		{
			name: "full",
			body: []string{
				`        testProjectDir = File("build/x")`,
				"        testProjectDir.mkdirs()",
				"        ProjectGenerator().generate(testProjectDir, config)",
				`        System.setProperty("user.dir", testProjectDir.absolutePath)`,
			},
			want: SetupFull,
		},
		{
			name: "no_override",
			body: []string{
				`        testProjectDir = File("build/x")`,
				"        generator.generate(testProjectDir, config)",
			},
			want: SetupNoOverride,
		},
		{
			name: "alloc_only",
			body: []string{
				`        testProjectDir = File("build/x")`,
				`        System.setProperty("user.dir", testProjectDir.canonicalPath)`,
			},
			want: SetupAllocOnly,
		},
		{
			name: "partial",
			body: []string{
				`        System.setProperty("user.dir", testProjectDir.path)`,
			},
			want: SetupPartial,
		},
		{
			name: "migrated",
			body: []string{
				`        context = TestProjectContext.create("test-x")`,
				`        System.setProperty("user.dir", testProjectDir.path)`,
			},
			want: SetupMigrated,
		},
		{
			name: "unknown_generator_variable",
			body: []string{
				"        other.generate(testProjectDir, config)",
			},
			want: SetupNone,
		},
		{
			name: "commented_out",
			body: []string{
				`        // testProjectDir = File("build/x")`,
				"        /* ProjectGenerator().generate(testProjectDir, config) */",
			},
			want: SetupNone,
		},
		{
			name: "none",
			body: []string{"        println()"},
			want: SetupNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := hookFile("BeforeEach", tt.body...)
			tx := source.Scan(src)
			hooks := FindHooks(tx, "BeforeEach")
			require.Len(t, hooks, 1)

			m := ClassifySetup(tx, source.Lines(src), hooks[0], config.Default().Names)
			assert.Equal(t, tt.want, m.Shape, "shape should be %s, got %s", tt.want, m.Shape)
		})
	}
}

func TestSetupStage(t *testing.T) {
	tests := []struct {
		name     string
		body     []string
		want     []string
		rewrites int
	}{
		{
			name: "allocation_generation_override",
			body: []string{
				`        testProjectDir = File("build/test-x/123/mod")`,
				"        testProjectDir.mkdirs()",
				"        ProjectGenerator().generate(testProjectDir, config)",
				`        System.setProperty("user.dir", testProjectDir.absolutePath)`,
			},
			want: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				"        context.createProject(config)",
			},
			rewrites: 3,
		},
		{
			name: "override_with_comment_and_class_generator",
			body: []string{
				`        testProjectDir = File("x")`,
				"        generator.generate(testProjectDir, cfg)",
				"",
				"        // Point user.dir at the project",
				`        System.setProperty("user.dir", testProjectDir.path)`,
			},
			want: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				"        context.createProject(cfg)",
			},
			rewrites: 3,
		},
		{
			name: "direct_generation_with_result",
			body: []string{
				`        testProjectDir = File("x")`,
				`        val result = ProjectGenerator().generate(testProjectDir, ModConfig(id = "x")) // generated`,
			},
			want: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				`        context.createProject(ModConfig(id = "x"))`,
			},
			rewrites: 2,
		},
		{
			name: "multi_line_allocation",
			body: []string{
				"        testProjectDir = File(",
				`            "build/x"`,
				"        )",
				"",
				"        testProjectDir.mkdirs()",
				"        helper()",
			},
			want: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				"        helper()",
			},
			rewrites: 1,
		},
		{
			name: "local_generator_still_used",
			body: []string{
				`        testProjectDir = File("x")`,
				"        val gen = ProjectGenerator()",
				"        gen.generate(testProjectDir, cfg)",
				"        gen.validate()",
			},
			want: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				"        val gen = ProjectGenerator()",
				"        context.createProject(cfg)",
				"        gen.validate()",
			},
			rewrites: 2,
		},
		{
			name: "local_generator_removed",
			body: []string{
				`        testProjectDir = File("x")`,
				"",
				"        val gen = ProjectGenerator()",
				"        gen.generate(testProjectDir, cfg)",
			},
			want: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				"",
				"        context.createProject(cfg)",
			},
			rewrites: 3,
		},
		{
			name: "already_migrated",
			body: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				"        context.createProject(config)",
			},
			want: []string{
				`        context = TestProjectContext.create("test-mytest")`,
				"        context.createProject(config)",
			},
			rewrites: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := &SetupStage{cfg: config.Default()}
			got, n := runStage(t, stage, "MyTestE2ETest.kt", hookFile("BeforeEach", tt.body...))
			assert.Equal(t, hookFile("BeforeEach", tt.want...), got)
			assert.Equal(t, tt.rewrites, n, "rewrite count")

			again, n := runStage(t, stage, "MyTestE2ETest.kt", got)
			assert.Equal(t, got, again, "second run should not change the output")
			assert.Zero(t, n)
		})
	}
}

func TestSetupStage_DefaultProject(t *testing.T) {
	stage := &SetupStage{cfg: config.Default(), defaultProject: true}
	assert.Equal(t, "setup-default", stage.Name())

	src := hookFile("BeforeEach",
		`        testProjectDir = File("build/x")`,
		"        testProjectDir.mkdirs()",
		"        createAssets(testProjectDir)",
	)
	got, n := runStage(t, stage, "CreateItemTest.kt", src)
	require.Equal(t, 1, n)

	want := hookFile("BeforeEach",
		"        // Create a test project context",
		`        context = TestProjectContext.create("test-createitem")`,
		"",
		"        // Generate a minimal project using context",
		"        context.createDefaultProject(",
		`            id = "testmod",`,
		`            name = "Test Mod",`,
		`            minecraftVersions = listOf("1.20.1"),`,
		`            loaders = listOf("fabric", "forge")`,
		"        )",
	)
	assert.Equal(t, want, got)

	again, n := runStage(t, stage, "CreateItemTest.kt", got)
	assert.Equal(t, got, again)
	assert.Zero(t, n)
}

func TestSetupStage_OutsideSetupHooks(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		want     string
		rewrites int
	}{
		{
			name: "generation_in_test_body",
			src: kt(
				"class BuildCommandTest {",
				"    @Test",
				"    fun `it's built`() {",
				"        val config = ModConfig(id = \"x\")",
				"",
				"        val generator = ProjectGenerator()",
				"        generator.generate(testProjectDir, config)",
				`        System.setProperty("user.dir", testProjectDir.absolutePath)`,
				"",
				`        CreateItemCommand().parse(arrayOf("a"))`,
				"    }",
				"}",
			),
			want: kt(
				"class BuildCommandTest {",
				"    @Test",
				"    fun `it's built`() {",
				"        val config = ModConfig(id = \"x\")",
				"",
				"        context.createProject(config)",
				"",
				`        CreateItemCommand().parse(arrayOf("a"))`,
				"    }",
				"}",
			),
			rewrites: 3,
		},
		{
			name: "generator_used_again_is_kept",
			src: kt(
				"class BuildCommandTest {",
				"    @Test",
				"    fun build() {",
				"        val generator = ProjectGenerator()",
				"        generator.generate(testProjectDir, config)",
				"        generator.generate(otherDir, config)",
				"    }",
				"}",
			),
			want: kt(
				"class BuildCommandTest {",
				"    @Test",
				"    fun build() {",
				"        val generator = ProjectGenerator()",
				"        context.createProject(config)",
				"        generator.generate(otherDir, config)",
				"    }",
				"}",
			),
			rewrites: 1,
		},
		{
			name: "class_generator_is_kept",
			src: kt(
				"class BuildCommandTest {",
				"    private val generator = ProjectGenerator()",
				"",
				"    @Test",
				"    fun build() {",
				"        generator.generate(testProjectDir, config)",
				"    }",
				"}",
			),
			want: kt(
				"class BuildCommandTest {",
				"    private val generator = ProjectGenerator()",
				"",
				"    @Test",
				"    fun build() {",
				"        context.createProject(config)",
				"    }",
				"}",
			),
			rewrites: 1,
		},
		{
			name: "allocation_in_unrecognised_function",
			src: kt(
				"class BuildCommandTest {",
				"    @BeforeAll",
				"    fun prepare(info: TestInfo) {",
				`        testProjectDir = File("build/test-x/${System.currentTimeMillis()}/mod")`,
				"        testProjectDir.mkdirs()",
				"    }",
				"}",
			),
			want: kt(
				"class BuildCommandTest {",
				"    @BeforeAll",
				"    fun prepare(info: TestInfo) {",
				`        context = TestProjectContext.create("test-buildcommand")`,
				"    }",
				"}",
			),
			rewrites: 1,
		},
		{
			name: "nothing_legacy",
			src: kt(
				"class BuildCommandTest {",
				"    @Test",
				"    fun build() {",
				"        context.createProject(config)",
				"    }",
				"}",
			),
			want: kt(
				"class BuildCommandTest {",
				"    @Test",
				"    fun build() {",
				"        context.createProject(config)",
				"    }",
				"}",
			),
			rewrites: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := &SetupStage{cfg: config.Default()}
			got, n := runStage(t, stage, "BuildCommandTest.kt", tt.src)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rewrites, n, "rewrite count")

			again, n := runStage(t, stage, "BuildCommandTest.kt", got)
			assert.Equal(t, got, again, "second run should not change the output")
			assert.Zero(t, n)
		})
	}
}

func TestSetupStage_HookWithParameters(t *testing.T) {
	src := kt(
		"class PackageCommandAdvancedE2ETest {",
		"    @BeforeEach",
		"    fun setup(testInfo: TestInfo) {",
		`        val testName = testInfo.displayName`,
		`        testProjectDir = File("build/test-package-advanced/${System.currentTimeMillis()}/$testName")`,
		"        testProjectDir.mkdirs()",
		"",
		"        val generator = ProjectGenerator()",
		"        generator.generate(testProjectDir, config)",
		"",
		`        System.setProperty("user.dir", testProjectDir.absolutePath)`,
		"    }",
		"}",
	)
	want := kt(
		"class PackageCommandAdvancedE2ETest {",
		"    @BeforeEach",
		"    fun setup(testInfo: TestInfo) {",
		`        val testName = testInfo.displayName`,
		`        context = TestProjectContext.create("test-packagecommandadvanced")`,
		"",
		"        context.createProject(config)",
		"    }",
		"}",
	)

	got, n := runStage(t, &SetupStage{cfg: config.Default()}, "PackageCommandAdvancedE2ETest.kt", src)
	assert.Equal(t, want, got)
	assert.Equal(t, 4, n, "allocation, generation, override and generator declaration")
}

func TestKotlinString(t *testing.T) {
	assert.Equal(t, `"a\"b\$c\\d"`, kotlinString(`a"b$c\d`))
	assert.Equal(t, `listOf("x", "y")`, kotlinList([]string{"x", "y"}))
}
