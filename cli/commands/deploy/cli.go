// Package deploy provides the `stackdeploy deploy` command, which deploys every phase of the repository manifest.
package deploy

import (
	"github.com/urfave/cli/v2"

	"github.com/delegat/stackdeploy/cli/commands/common"
	"github.com/delegat/stackdeploy/cli/flags"
	"github.com/delegat/stackdeploy/options"
)

const (
	CommandName = "deploy"

	SAMPathFlagName               = "sam-path"
	SkipSAMFlagName               = "skip-sam"
	PollIntervalFlagName          = "poll-interval"
	TerminalCooldownFlagName      = "terminal-cooldown"
	ThrottleBackoffFlagName       = "throttle-backoff"
	ConflictBackoffFlagName       = "conflict-backoff"
	MaxWaitFlagName               = "max-wait"
	AssumeRoleDurationFlagName    = "assume-role-duration"
	AssumeRoleSessionNameFlagName = "assume-role-session-name"
)

func NewFlags(opts *options.DeployOptions) []cli.Flag {
	envPrefix := flags.Prefix{flags.EnvPrefix}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        SAMPathFlagName,
			EnvVars:     envPrefix.EnvVars(SAMPathFlagName),
			Value:       opts.SAMPath,
			Destination: &opts.SAMPath,
			Usage:       "Path to the sam binary.",
		},
		&cli.BoolFlag{
			Name:        SkipSAMFlagName,
			EnvVars:     envPrefix.EnvVars(SkipSAMFlagName),
			Destination: &opts.SkipPackaged,
			Usage:       "Skip the packaged application phase and only deploy the CloudFormation jobs.",
		},
		&cli.DurationFlag{
			Name:        PollIntervalFlagName,
			EnvVars:     envPrefix.EnvVars(PollIntervalFlagName),
			Value:       opts.PollInterval,
			Destination: &opts.PollInterval,
			Usage:       "Interval between two status reads of a resource in progress.",
		},
		&cli.DurationFlag{
			Name:        TerminalCooldownFlagName,
			EnvVars:     envPrefix.EnvVars(TerminalCooldownFlagName),
			Value:       opts.TerminalCooldown,
			Destination: &opts.TerminalCooldown,
			Usage:       "Pause after a resource reaches a terminal status.",
		},
		&cli.DurationFlag{
			Name:        ThrottleBackoffFlagName,
			EnvVars:     envPrefix.EnvVars(ThrottleBackoffFlagName),
			Value:       opts.ThrottleBackoff,
			Destination: &opts.ThrottleBackoff,
			Usage:       "Pause after a throttled status read.",
		},
		&cli.DurationFlag{
			Name:        ConflictBackoffFlagName,
			EnvVars:     envPrefix.EnvVars(ConflictBackoffFlagName),
			Value:       opts.ConflictBackoff,
			Destination: &opts.ConflictBackoff,
			Usage:       "Pause after a status read rejected because another operation is in progress.",
		},
		&cli.DurationFlag{
			Name:        MaxWaitFlagName,
			EnvVars:     envPrefix.EnvVars(MaxWaitFlagName),
			Destination: &opts.MaxWait,
			Usage:       "Maximum time to wait for a single resource to converge. Zero waits indefinitely.",
		},
		&cli.DurationFlag{
			Name:        AssumeRoleDurationFlagName,
			EnvVars:     envPrefix.EnvVars(AssumeRoleDurationFlagName),
			Value:       opts.AssumeRoleDuration,
			Destination: &opts.AssumeRoleDuration,
			Usage:       "Lifetime of the credentials issued for a single remote call.",
		},
		&cli.StringFlag{
			Name:        AssumeRoleSessionNameFlagName,
			EnvVars:     envPrefix.EnvVars(AssumeRoleSessionNameFlagName),
			Destination: &opts.AssumeRoleSessionName,
			Usage:       "Role session name of every assumed role. Defaults to a name unique to each call.",
		},
	}
}

func NewCommand(opts *options.DeployOptions) *cli.Command {
	return &cli.Command{
		Name:      CommandName,
		Usage:     "Deploy the CloudFormation stacks, stack sets and packaged application of the repository.",
		ArgsUsage: common.InstallerArgsUsage,
		Flags:     NewFlags(opts),
		Action: func(ctx *cli.Context) error {
			if err := common.ApplyInstallerArgs(ctx.Args(), opts); err != nil {
				return err
			}

			return Run(ctx.Context, opts)
		},
	}
}
