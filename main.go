package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/delegat/stackdeploy/cli"
	"github.com/delegat/stackdeploy/cli/commands/common"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
	"github.com/delegat/stackdeploy/pkg/log"
)

// The main entrypoint for stackdeploy
func main() {
	opts := options.NewDeployOptions()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	defer errors.Recover(checkForErrorsAndExit(opts.Logger, cancel))

	app := cli.NewApp(opts)
	err := app.RunContext(ctx, os.Args)

	checkForErrorsAndExit(opts.Logger, cancel)(err)
}

// If there is an error, display it in the console and exit with a non-zero exit code. Otherwise, exit 0.
func checkForErrorsAndExit(logger log.Logger, cancel context.CancelFunc) func(error) {
	return func(err error) {
		cancel()

		if err == nil {
			os.Exit(0)
		}

		if errors.IsContextCanceled(err) {
			logger.Error("Interrupted, the resource being deployed keeps converging on its own")
			os.Exit(common.ExitCodeInterrupted)
		}

		logger.Error(err.Error())

		if errStack := errors.ErrorStack(err); errStack != "" {
			logger.Trace(errStack)
		}

		os.Exit(errors.ExitCode(err))
	}
}
