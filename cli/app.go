// Package cli builds the stackdeploy command line application.
package cli

import (
	"github.com/gruntwork-io/go-commons/version"
	"github.com/urfave/cli/v2"

	"github.com/delegat/stackdeploy/cli/commands"
	"github.com/delegat/stackdeploy/cli/commands/deploy"
	"github.com/delegat/stackdeploy/cli/flags"
	"github.com/delegat/stackdeploy/options"
)

const AppName = "stackdeploy"

// NewApp creates the stackdeploy CLI App.
func NewApp(opts *options.DeployOptions) *cli.App {
	app := cli.NewApp()
	app.Name = AppName
	app.Usage = "Deploys the CloudFormation stacks, organization-wide stack sets and SAM application of a repository\nacross the accounts of an AWS organization."
	app.UsageText = "stackdeploy [global options] [command] [command options] [<accounts-file> <config-file>]"
	app.Version = version.GetVersion()
	app.Writer = opts.Writer
	app.ErrWriter = opts.ErrWriter
	app.Flags = flags.NewGlobalFlags(opts)
	app.Commands = commands.NewCommands(opts)
	app.DefaultCommand = deploy.CommandName
	app.Before = func(ctx *cli.Context) error {
		return commands.InitialSetup(ctx, opts)
	}
	// Exit codes are decided by main.
	app.ExitErrHandler = func(*cli.Context, error) {}

	return app
}
