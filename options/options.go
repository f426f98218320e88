// Package options holds the settings of a single stackdeploy run. A DeployOptions value is built once by the CLI
// and passed explicitly to every component; nothing reads ambient global state.
package options

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/pkg/log"
)

const (
	// DefaultManifestPath is the per-repository deployment manifest.
	DefaultManifestPath = "config-deploy.toml"

	// DefaultAccountsPath is the per-repository accounts registry.
	DefaultAccountsPath = "config-accounts.toml"

	// DefaultGlobalConfigPath is the organization-wide parameter store, checked out next to the repository.
	DefaultGlobalConfigPath = "../Delegat-Install/config-soar.toml"

	// DefaultSAMPath just takes sam from the path
	DefaultSAMPath = "sam"

	// DefaultAssumeRoleDuration is the lifetime of the credentials issued for a single remote call.
	DefaultAssumeRoleDuration = 15 * time.Minute

	DefaultPollInterval     = 5 * time.Second
	DefaultTerminalCooldown = 5 * time.Second
	DefaultThrottleBackoff  = 10 * time.Second
	DefaultConflictBackoff  = 30 * time.Second

	defaultLogLevel = log.InfoLevel
)

// DeployOptions represents options that configure the behavior of a deployment run.
type DeployOptions struct {
	// Logger is the root logger; components derive job scoped loggers from it.
	Logger log.Logger

	// Writer and ErrWriter receive the output of external processes (sam).
	Writer    io.Writer
	ErrWriter io.Writer

	// Environment variables passed to external processes.
	Env map[string]string

	// Directory the relative paths of the manifest are resolved against.
	WorkingDir string

	ManifestPath     string
	AccountsPath     string
	GlobalConfigPath string

	LogLevel log.Level

	// Location of the sam binary.
	SAMPath string

	// Name used for the role session of every STS AssumeRole exchange. A unique name is generated when empty.
	AssumeRoleSessionName string
	AssumeRoleDuration    time.Duration

	// Convergence polling.
	PollInterval     time.Duration
	TerminalCooldown time.Duration
	ThrottleBackoff  time.Duration
	ConflictBackoff  time.Duration
	// MaxWait bounds a single convergence wait. Zero waits indefinitely.
	MaxWait time.Duration

	// SkipPackaged skips the packaged application (sam) phase.
	SkipPackaged bool
}

// NewDeployOptions creates a new DeployOptions object with reasonable defaults for real usage.
func NewDeployOptions() *DeployOptions {
	return NewDeployOptionsWithWriters(os.Stdout, os.Stderr)
}

// NewDeployOptionsWithWriters creates a new DeployOptions object writing process output to the given writers.
func NewDeployOptionsWithWriters(stdout, stderr io.Writer) *DeployOptions {
	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}

	return &DeployOptions{
		Logger:             log.New(log.WithOutput(stderr), log.WithLevel(defaultLogLevel)),
		Writer:             stdout,
		ErrWriter:          stderr,
		Env:                envMap(os.Environ()),
		WorkingDir:         workingDir,
		ManifestPath:       DefaultManifestPath,
		AccountsPath:       DefaultAccountsPath,
		GlobalConfigPath:   DefaultGlobalConfigPath,
		LogLevel:           defaultLogLevel,
		SAMPath:            DefaultSAMPath,
		AssumeRoleDuration: DefaultAssumeRoleDuration,
		PollInterval:       DefaultPollInterval,
		TerminalCooldown:   DefaultTerminalCooldown,
		ThrottleBackoff:    DefaultThrottleBackoff,
		ConflictBackoff:    DefaultConflictBackoff,
	}
}

// NewDeployOptionsForTest creates a new DeployOptions object with reasonable defaults for test usage: no waiting,
// discarded output, and paths relative to workingDir.
func NewDeployOptionsForTest(workingDir string) *DeployOptions {
	opts := NewDeployOptionsWithWriters(io.Discard, io.Discard)
	opts.WorkingDir = workingDir
	opts.Env = map[string]string{}
	opts.Logger = log.New(log.WithOutput(io.Discard), log.WithLevel(log.DebugLevel))
	opts.LogLevel = log.DebugLevel
	opts.PollInterval = 0
	opts.TerminalCooldown = 0
	opts.ThrottleBackoff = 0
	opts.ConflictBackoff = 0

	return opts
}

// ResolvePath expands `~` and makes a relative path absolute against the working directory.
func (opts *DeployOptions) ResolvePath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.New(err)
	}

	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}

	return filepath.Join(opts.WorkingDir, expanded), nil
}

// GetDefaultAssumeRoleSessionName gets the default role session name for calls into the given account.
func GetDefaultAssumeRoleSessionName(accountID string) string {
	return fmt.Sprintf("stackdeploy-%s-%d", accountID, time.Now().UTC().UnixNano())
}

func envMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, kv := range environ {
		if key, val, ok := strings.Cut(kv, "="); ok {
			env[key] = val
		}
	}

	return env
}
