// Package commands assembles the stackdeploy commands.
package commands

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/delegat/stackdeploy/cli/commands/deploy"
	"github.com/delegat/stackdeploy/cli/commands/resolve"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
)

// NewCommands returns every command of the app.
func NewCommands(opts *options.DeployOptions) []*cli.Command {
	return []*cli.Command{
		deploy.NewCommand(opts),
		resolve.NewCommand(opts),
	}
}

// InitialSetup finalizes opts once the flags are parsed.
func InitialSetup(ctx *cli.Context, opts *options.DeployOptions) error {
	opts.Writer = ctx.App.Writer
	opts.ErrWriter = ctx.App.ErrWriter

	if opts.WorkingDir == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return errors.New(err)
		}

		opts.WorkingDir = currentDir
	}

	path, err := filepath.Abs(opts.WorkingDir)
	if err != nil {
		return errors.New(err)
	}

	opts.WorkingDir = path

	opts.Logger.Debugf("stackdeploy version %s, working directory %s", ctx.App.Version, opts.WorkingDir)

	return nil
}
