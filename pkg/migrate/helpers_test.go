package migrate

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/walteh/ctxmigrate/pkg/config"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.TraceLevel)
	return logger.WithContext(context.Background())
}

// kt joins lines into a newline terminated source
func kt(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// runStage applies one stage to src and returns the output and rewrite count
func runStage(t *testing.T, s Stage, path, src string) (string, int) {
	t.Helper()
	f := &File{Path: path, Name: DeriveName(path, config.Default().NameSuffixes), Content: src}
	n, err := s.Apply(testContext(t), f)
	require.NoError(t, err, "stage %s should apply", s.Name())
	return f.Content, n
}
