// Package flags provides the flags shared by every stackdeploy command.
package flags

import (
	"github.com/urfave/cli/v2"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
	"github.com/delegat/stackdeploy/pkg/log"
)

const (
	LogLevelFlagName     = "log-level"
	WorkingDirFlagName   = "working-dir"
	ManifestFlagName     = "manifest"
	AccountsFlagName     = "accounts"
	GlobalConfigFlagName = "global-config"
)

// NewGlobalFlags returns the flags accepted before any command.
func NewGlobalFlags(opts *options.DeployOptions) []cli.Flag {
	envPrefix := Prefix{EnvPrefix}

	return []cli.Flag{
		&cli.StringFlag{
			Name:    LogLevelFlagName,
			EnvVars: envPrefix.EnvVars(LogLevelFlagName),
			Value:   opts.LogLevel.String(),
			Usage:   "Sets the logging level. Supported levels: " + log.AllLevels.String() + ".",
			Action: func(_ *cli.Context, val string) error {
				if err := opts.Logger.SetLevel(val); err != nil {
					return errors.New(err)
				}

				opts.LogLevel = opts.Logger.Level()

				return nil
			},
		},
		&cli.StringFlag{
			Name:        WorkingDirFlagName,
			EnvVars:     envPrefix.EnvVars(WorkingDirFlagName),
			Value:       opts.WorkingDir,
			Destination: &opts.WorkingDir,
			Usage:       "The directory the paths of the manifest are relative to.",
		},
		&cli.StringFlag{
			Name:        ManifestFlagName,
			EnvVars:     envPrefix.EnvVars(ManifestFlagName),
			Value:       opts.ManifestPath,
			Destination: &opts.ManifestPath,
			Usage:       "Path to the deployment manifest of the repository.",
		},
		&cli.StringFlag{
			Name:        AccountsFlagName,
			EnvVars:     envPrefix.EnvVars(AccountsFlagName),
			Value:       opts.AccountsPath,
			Destination: &opts.AccountsPath,
			Usage:       "Path to the accounts registry.",
		},
		&cli.StringFlag{
			Name:        GlobalConfigFlagName,
			EnvVars:     envPrefix.EnvVars(GlobalConfigFlagName),
			Value:       opts.GlobalConfigPath,
			Destination: &opts.GlobalConfigPath,
			Usage:       "Path to the organization-wide parameter store.",
		},
	}
}
