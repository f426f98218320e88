// Package common holds what the deploy and resolve commands share: installer arguments and plan loading.
package common

import (
	"github.com/urfave/cli/v2"

	"github.com/delegat/stackdeploy/config"
	"github.com/delegat/stackdeploy/internal/deploy"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
)

// InstallerArgsUsage documents the positional arguments passed by the organization installer.
const InstallerArgsUsage = "[<accounts-file> <config-file>]"

// ApplyInstallerArgs overrides the accounts registry and global parameter store paths when the command is called
// by the organization installer with both as positional arguments.
func ApplyInstallerArgs(args cli.Args, opts *options.DeployOptions) error {
	switch args.Len() {
	case 0:
		return nil
	case 2: //nolint:mnd
		opts.AccountsPath = args.Get(0)
		opts.GlobalConfigPath = args.Get(1)

		opts.Logger.Infof("Called from installer with accounts file %s and config file %s", opts.AccountsPath, opts.GlobalConfigPath)

		return nil
	default:
		return errors.NewErrorWithExitCode(errors.New(&InstallerArgsError{Args: args.Slice()}), ExitCodeConfig)
	}
}

// LoadPlan loads the configuration and validates every job. Any problem is a configuration error.
func LoadPlan(opts *options.DeployOptions) (*config.Config, *deploy.Plan, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, nil, errors.NewErrorWithExitCode(err, ExitCodeConfig)
	}

	plan, err := deploy.Prepare(cfg)
	if err != nil {
		return nil, nil, errors.NewErrorWithExitCode(err, ExitCodeConfig)
	}

	opts.Logger.Debugf("Validated %d jobs of %s", plan.JobCount(), cfg.Manifest.RepoName)

	return cfg, plan, nil
}
