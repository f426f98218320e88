// Package resolve provides the `stackdeploy resolve` command, which validates the manifest and prints what a deploy
// would do without calling AWS.
package resolve

import (
	"github.com/urfave/cli/v2"

	"github.com/delegat/stackdeploy/cli/commands/common"
	"github.com/delegat/stackdeploy/cli/flags"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
)

const (
	CommandName = "resolve"

	FormatFlagName = "format"

	FormatText = "text"
	FormatJSON = "json"
)

// Options are the settings of the resolve command.
type Options struct {
	*options.DeployOptions

	Format string
}

func NewOptions(opts *options.DeployOptions) *Options {
	return &Options{DeployOptions: opts, Format: FormatText}
}

func NewFlags(opts *Options) []cli.Flag {
	envPrefix := flags.Prefix{flags.EnvPrefix}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        FormatFlagName,
			EnvVars:     envPrefix.EnvVars(FormatFlagName),
			Value:       opts.Format,
			Destination: &opts.Format,
			Usage:       "Output format of the plan. Valid values: text, json.",
		},
	}
}

func NewCommand(opts *options.DeployOptions) *cli.Command {
	cmdOpts := NewOptions(opts)

	return &cli.Command{
		Name:      CommandName,
		Usage:     "Validate the manifest and print the resolved deployment plan.",
		ArgsUsage: common.InstallerArgsUsage,
		Flags:     NewFlags(cmdOpts),
		Before: func(_ *cli.Context) error {
			if cmdOpts.Format != FormatText && cmdOpts.Format != FormatJSON {
				return errors.NewErrorWithExitCode(errors.Errorf("invalid format: %s", cmdOpts.Format), common.ExitCodeConfig)
			}

			return nil
		},
		Action: func(ctx *cli.Context) error {
			if err := common.ApplyInstallerArgs(ctx.Args(), opts); err != nil {
				return err
			}

			return Run(ctx.Context, cmdOpts)
		},
	}
}
