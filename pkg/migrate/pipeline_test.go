package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/ctxmigrate/pkg/config"
)

func TestPipeline_Golden(t *testing.T) {
	input, err := os.ReadFile(filepath.Join("testdata", "ValidateCommandE2ETest.kt"))
	require.NoError(t, err, "reading input")

	for _, profile := range []string{ProfileGeneric, ProfileSync, ProfileBasic} {
		t.Run(profile, func(t *testing.T) {
			want, err := os.ReadFile(filepath.Join("testdata", "ValidateCommandE2ETest."+profile+".golden"))
			require.NoError(t, err, "reading golden file")

			p, err := Profile(profile, config.Default())
			require.NoError(t, err)

			f := &File{Path: "src/test/kotlin/ValidateCommandE2ETest.kt", Content: string(input)}
			res, err := p.Apply(testContext(t), f)
			require.NoError(t, err, "pipeline should apply")

			assert.Equal(t, string(want), f.Content)
			assert.Equal(t, f.Content, res.Content)
			assert.True(t, res.Modified())
			assert.Equal(t, "validatecommand", f.Name)
			assert.Positive(t, res.Rewrites())
			require.Len(t, res.Stages, len(p.Stages()))

			// running the profile over its own output is a no-op
			again := &File{Path: f.Path, Content: f.Content}
			res, err = p.Apply(testContext(t), again)
			require.NoError(t, err)
			assert.False(t, res.Modified(), "second run should not change the output")
			assert.Zero(t, res.Rewrites())
		})
	}
}

func TestPipeline_GenericGolden(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		short string
	}{
		{
			name:  "generation_in_test_bodies",
			file:  "BuildCommandTest",
			short: "buildcommand",
		},
		{
			name:  "setup_hook_with_parameters",
			file:  "PackageCommandAdvancedE2ETest",
			short: "packagecommandadvanced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := os.ReadFile(filepath.Join("testdata", tt.file+".kt"))
			require.NoError(t, err, "reading input")
			want, err := os.ReadFile(filepath.Join("testdata", tt.file+".generic.golden"))
			require.NoError(t, err, "reading golden file")

			p := Generic(config.Default())
			f := &File{Path: "src/test/kotlin/" + tt.file + ".kt", Content: string(input)}
			res, err := p.Apply(testContext(t), f)
			require.NoError(t, err, "pipeline should apply")

			assert.Equal(t, string(want), f.Content)
			assert.Equal(t, tt.short, f.Name)
			assert.NotContains(t, f.Content, `System.setProperty("user.dir"`, "no working directory override should survive")
			assert.NotContains(t, f.Content, "context.projectDir = ", "the project directory is never assigned")
			assert.NotContains(t, f.Content, ".generate(", "every generation goes through the context")
			assert.True(t, res.Modified())

			again := &File{Path: f.Path, Content: f.Content}
			res, err = p.Apply(testContext(t), again)
			require.NoError(t, err)
			assert.False(t, res.Modified(), "second run should not change the output")
		})
	}
}

func TestPipeline_SetupScenario(t *testing.T) {
	src := kt(
		"class MyTestE2ETest {",
		"    @BeforeEach",
		"    fun setup() {",
		`        testProjectDir = File("build/test-x/123/mod")`,
		"        testProjectDir.mkdirs()",
		"        ProjectGenerator().generate(testProjectDir, config)",
		`        System.setProperty("user.dir", testProjectDir.absolutePath)`,
		"    }",
		"}",
	)
	want := kt(
		"class MyTestE2ETest {",
		"    @BeforeEach",
		"    fun setup() {",
		`        context = TestProjectContext.create("test-mytest")`,
		"        context.createProject(config)",
		"    }",
		"}",
	)

	f := &File{Path: "MyTestE2ETest.kt", Content: src}
	res, err := Generic(config.Default()).Apply(testContext(t), f)
	require.NoError(t, err)
	assert.Equal(t, want, f.Content)

	byStage := map[string]int{}
	for _, s := range res.Stages {
		byStage[s.Stage] = s.Rewrites
	}
	assert.Equal(t, 3, byStage["setup"])
	assert.Zero(t, byStage["callsite"], "no legacy handle should survive setup")
}

func TestPipeline_NonInterference(t *testing.T) {
	src := kt(
		"import org.junit.jupiter.api.AfterEach",
		"",
		"class PlainTest {",
		"    private lateinit var projectRoot: File",
		"",
		"    @AfterEach",
		"    fun cleanup() {",
		"        projectRoot.deleteRecursively()",
		"    }",
		"}",
	)

	for _, build := range []func(*config.Config) *Pipeline{Generic, Sync, Wrap} {
		p := build(config.Default())
		t.Run(p.Name(), func(t *testing.T) {
			f := &File{Path: "PlainTest.kt", Content: src}
			res, err := p.Apply(testContext(t), f)
			require.NoError(t, err)
			assert.Equal(t, src, f.Content)
			assert.False(t, res.Modified())
		})
	}
}

func TestPipeline_CustomNames(t *testing.T) {
	cfg := config.Default()
	cfg.Names.LegacyDir = "workDir"
	cfg.Names.Context = "fixture"
	cfg.NamePrefix = "it-"

	src := kt(
		"class SyncTest {",
		"    private lateinit var workDir: File",
		"",
		"    @BeforeEach",
		"    fun setup() {",
		`        workDir = File("build/x")`,
		"    }",
		"",
		"    @AfterEach",
		"    fun cleanup() {",
		"        workDir.deleteRecursively()",
		"    }",
		"}",
	)
	want := kt(
		"class SyncTest {",
		"    private lateinit var fixture: TestProjectContext",
		"",
		"    @BeforeEach",
		"    fun setup() {",
		`        fixture = TestProjectContext.create("it-sync")`,
		"    }",
		"",
		"    @AfterEach",
		"    fun cleanup() {",
		"        fixture.cleanup()",
		"    }",
		"}",
	)

	f := &File{Path: "SyncTest.kt", Content: src}
	_, err := Generic(cfg).Apply(testContext(t), f)
	require.NoError(t, err)
	assert.Equal(t, want, f.Content)
}

func TestProfile(t *testing.T) {
	assert.Equal(t, []string{"basic", "generic", "inject", "sync", "wrap"}, Profiles())

	tests := []struct {
		profile string
		stages  []string
	}{
		{ProfileGeneric, []string{"imports", "fields", "setup", "cleanup", "userdir", "callsite"}},
		{ProfileBasic, []string{"imports", "fields", "setup-default", "cleanup", "userdir", "callsite", "inject"}},
		{ProfileSync, []string{"imports", "fields", "setup", "cleanup", "userdir", "callsite", "wrap"}},
		{ProfileWrap, []string{"wrap"}},
		{ProfileInject, []string{"inject"}},
	}
	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			p, err := Profile(tt.profile, config.Default())
			require.NoError(t, err)
			assert.Equal(t, tt.profile, p.Name())
			assert.Equal(t, tt.stages, p.Stages())
		})
	}

	_, err := Profile("nope", config.Default())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown profile"), "error should name the problem")
}
