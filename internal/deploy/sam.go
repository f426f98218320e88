package deploy

import (
	"context"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/delegat/stackdeploy/config"
	"github.com/delegat/stackdeploy/internal/cfn"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/internal/params"
	"github.com/delegat/stackdeploy/internal/shell"
	"github.com/delegat/stackdeploy/options"
	"github.com/delegat/stackdeploy/pkg/log"
)

// PackagedApp is the resolved packaged application (sam) phase.
type PackagedApp struct {
	StackName    string
	Capabilities []string
	S3Prefix     string
	Regions      []string
	// Profile is the shared config profile of the management account, the account sam deploys into.
	Profile    string
	Overrides  []string
	BuildArgs  []string
	DeployArgs []string
}

// BuildCommand returns the arguments of `sam build`.
func (app *PackagedApp) BuildCommand() []string {
	return append([]string{"build"}, app.BuildArgs...)
}

// DeployCommand returns the arguments of `sam deploy` for region.
func (app *PackagedApp) DeployCommand(region string) []string {
	args := []string{
		"deploy",
		"--stack-name", app.StackName,
		"--capabilities",
	}

	args = append(args, app.Capabilities...)
	args = append(args,
		"--resolve-s3",
		"--region", region,
		"--profile", app.Profile,
	)

	if len(app.Overrides) > 0 {
		args = append(args, "--parameter-overrides")
		args = append(args, app.Overrides...)
	}

	args = append(args,
		"--s3-prefix", app.S3Prefix,
		"--tags", cfn.ImmutableTagKey+`="`+cfn.ImmutableTagValue+`"`,
		"--no-confirm-changeset",
		"--no-disable-rollback",
		"--no-fail-on-empty-changeset",
	)

	return append(args, app.DeployArgs...)
}

func preparePackagedApp(resolver *params.Resolver, base *params.Set, repo *config.RepoParameters, admin config.Account, sam *config.SAMConfig) (*PackagedApp, error) {
	errs := &errors.MultiError{}

	app := &PackagedApp{
		StackName:    sam.StackName,
		Capabilities: sam.SAMCapabilities(),
		S3Prefix:     sam.Prefix(),
		Profile:      admin.Profile,
	}

	regions, err := resolver.Regions(base, sam.Regions)
	errs = errs.Append(err)
	app.Regions = regions

	layers := []map[string]any{repo.Scalars}
	if sam.ParameterSection != "" {
		layers = append(layers, repo.Section(sam.ParameterSection))
	}

	overrides, err := resolver.Resolve(base, layers...)
	if err != nil {
		errs = errs.Append(err)
	} else {
		app.Overrides = overrides.Overrides()
	}

	if app.BuildArgs, err = shellwords.Parse(sam.ExtraArgs); err != nil {
		errs = errs.Append(errors.Errorf("invalid extra-args %q: %w", sam.ExtraArgs, err))
	}

	if app.DeployArgs, err = shellwords.Parse(sam.DeployArgs); err != nil {
		errs = errs.Append(errors.Errorf("invalid deploy-args %q: %w", sam.DeployArgs, err))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return app, nil
}

// CommandRunner runs external commands.
type CommandRunner interface {
	RunCommand(ctx context.Context, command string, args ...string) error
}

// ShellRunner runs commands as child processes.
type ShellRunner struct {
	logger  log.Logger
	runOpts *shell.RunOptions
}

// NewShellRunner returns a runner executing commands in the working directory of opts.
func NewShellRunner(l log.Logger, opts *options.DeployOptions) *ShellRunner {
	return &ShellRunner{logger: l, runOpts: shell.RunOptionsFromOpts(opts)}
}

// RunCommand runs command and fails if it exits with a non-zero status.
func (runner *ShellRunner) RunCommand(ctx context.Context, command string, args ...string) error {
	runner.logger.Infof("Executing '%s %s'", command, strings.Join(args, " "))

	return shell.RunCommand(ctx, runner.logger, runner.runOpts, command, args...)
}
