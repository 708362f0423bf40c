// File: cmd/main_test.go
package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/macrokey/internal/config"
	"github.com/xkilldash9x/macrokey/internal/observability"
)

// TestMain silences the global logger. Initialization happens once per
// process, so later calls from the root command keep this quiet logger.
func TestMain(m *testing.M) {
	observability.ResetForTest()
	observability.InitializeLogger(config.LoggerConfig{Level: "fatal", Format: "console", ServiceName: "test"})
	os.Exit(m.Run())
}

// executeCommand runs a fresh command tree and returns everything written to
// stdout.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	root.SetIn(stdin)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a YAML config file into a temp dir.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := t.TempDir() + "/macrokey.yaml"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newDefaultTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	return cfg
}
