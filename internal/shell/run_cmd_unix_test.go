//go:build linux || darwin

package shell_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/internal/shell"
	"github.com/delegat/stackdeploy/options"
	"github.com/delegat/stackdeploy/test/helpers/logger"
)

func TestRunCommandWithOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	runOpts := shell.RunOptionsFromOpts(options.NewDeployOptionsForTest(t.TempDir()))
	runOpts.Writer = &stdout
	runOpts.Env = map[string]string{"GREETING": "hello"}

	output, err := shell.RunCommandWithOutput(t.Context(), logger.CreateLogger(), runOpts, "/bin/sh", "-c", `echo "$GREETING"`)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", output.Stdout.String())
	assert.Equal(t, "hello\n", stdout.String())
}

func TestRunCommandReportsExitStatus(t *testing.T) {
	t.Parallel()

	runOpts := shell.RunOptionsFromOpts(options.NewDeployOptionsForTest(t.TempDir()))

	err := shell.RunCommand(t.Context(), logger.CreateLogger(), runOpts, "/bin/sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)

	var processErr shell.ProcessExecutionError
	require.True(t, errors.As(err, &processErr))
	assert.Equal(t, 3, processErr.ExitStatus())
	assert.Equal(t, "broken\n", processErr.Stderr)
}
