// Package shell runs external commands, such as the sam CLI, on behalf of a deployment.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
	"github.com/delegat/stackdeploy/pkg/log"
)

// SignalForwardingDelay is the time given to a command to exit after it was interrupted, before it is killed.
const SignalForwardingDelay = time.Second * 15

// RunOptions contains the configuration needed to run shell commands.
type RunOptions struct {
	Writer     io.Writer
	ErrWriter  io.Writer
	Env        map[string]string
	WorkingDir string
}

// RunOptionsFromOpts constructs a RunOptions from DeployOptions.
func RunOptionsFromOpts(opts *options.DeployOptions) *RunOptions {
	return &RunOptions{
		Writer:     opts.Writer,
		ErrWriter:  opts.ErrWriter,
		Env:        opts.Env,
		WorkingDir: opts.WorkingDir,
	}
}

// CmdOutput holds the captured output of a command.
type CmdOutput struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// ProcessExecutionError occurs when a command could not be started or exited with a non-zero status.
type ProcessExecutionError struct {
	Err        error
	Command    string
	Args       []string
	WorkingDir string
	Stderr     string
}

func (err ProcessExecutionError) Error() string {
	return fmt.Sprintf("Failed to execute %q in %s\n\n%v", strings.Join(append([]string{err.Command}, err.Args...), " "), err.WorkingDir, err.Err)
}

func (err ProcessExecutionError) Unwrap() error {
	return err.Err
}

// ExitStatus returns the exit code of the command, or -1 if it did not exit normally.
func (err ProcessExecutionError) ExitStatus() int {
	var exitErr *exec.ExitError
	if errors.As(err.Err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

// RunCommand runs the given shell command.
func RunCommand(ctx context.Context, l log.Logger, runOpts *RunOptions, command string, args ...string) error {
	_, err := RunCommandWithOutput(ctx, l, runOpts, command, args...)

	return err
}

// RunCommandWithOutput runs the specified shell command with the specified arguments in the working directory of
// runOpts. Output is streamed to the writers of runOpts and captured. When ctx is canceled the command receives an
// interrupt and is killed if it is still running after SignalForwardingDelay.
func RunCommandWithOutput(ctx context.Context, l log.Logger, runOpts *RunOptions, command string, args ...string) (*CmdOutput, error) {
	output := &CmdOutput{}

	l.Debugf("Running command: %s %s", command, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = runOpts.WorkingDir
	cmd.Env = toEnvVarsList(runOpts.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = io.MultiWriter(writerOrDiscard(runOpts.Writer), &output.Stdout)
	cmd.Stderr = io.MultiWriter(writerOrDiscard(runOpts.ErrWriter), &output.Stderr)
	cmd.Cancel = func() error {
		l.Debugf("Interrupt signal is forwarded to %s", command)
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = SignalForwardingDelay

	if err := cmd.Run(); err != nil {
		return output, errors.New(ProcessExecutionError{
			Err:        err,
			Command:    command,
			Args:       args,
			WorkingDir: cmd.Dir,
			Stderr:     output.Stderr.String(),
		})
	}

	return output, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

func toEnvVarsList(envVarsAsMap map[string]string) []string {
	envVarsAsList := make([]string, 0, len(envVarsAsMap))
	for key, value := range envVarsAsMap {
		envVarsAsList = append(envVarsAsList, fmt.Sprintf("%s=%s", key, value))
	}

	sort.Strings(envVarsAsList)

	return envVarsAsList
}
