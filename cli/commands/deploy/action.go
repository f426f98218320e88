package deploy

import (
	"context"

	"github.com/delegat/stackdeploy/cli/commands/common"
	"github.com/delegat/stackdeploy/internal/awshelper"
	"github.com/delegat/stackdeploy/internal/cfn"
	deployment "github.com/delegat/stackdeploy/internal/deploy"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
	"github.com/delegat/stackdeploy/pkg/log"
)

// Run validates the whole manifest, then deploys it phase by phase.
func Run(ctx context.Context, opts *options.DeployOptions) error {
	cfg, plan, err := common.LoadPlan(opts)
	if err != nil {
		return err
	}

	l := opts.Logger.WithField(log.FieldKeyRepo, cfg.Manifest.RepoName)

	baseCfg, err := awshelper.NewConfigBuilder().
		WithSessionConfig(&awshelper.SessionConfig{
			Region:  cfg.Globals.MainRegion,
			Profile: plan.Admin.Profile,
		}).
		WithEnv(opts.Env).
		Build(ctx, l)
	if err != nil {
		return errors.NewErrorWithExitCode(err, common.ExitCodeRemote)
	}

	session := awshelper.NewSession(l, baseCfg, sessionOptions(opts)...)

	checkCallerAccount(ctx, l, session, plan.Admin.ID)

	var (
		provider = cfn.NewSessionClientProvider(session)
		poller   = cfn.NewPoller(l, cfn.PollOptions{
			Interval:      opts.PollInterval,
			Cooldown:      opts.TerminalCooldown,
			ThrottleDelay: opts.ThrottleBackoff,
			ConflictDelay: opts.ConflictBackoff,
			MaxWait:       opts.MaxWait,
		})
		sequencer = deployment.NewSequencer(l,
			cfn.NewDispatcher(l, provider, poller),
			deployment.NewShellRunner(l, opts),
			deployment.WithSAMPath(opts.SAMPath),
			deployment.WithSkipPackaged(opts.SkipPackaged),
		)
	)

	l.Infof("Deploying %d jobs to %s", plan.JobCount(), cfg.Manifest.PartOf)

	report, err := sequencer.Run(ctx, plan)
	report.Log(l)

	if err != nil {
		if errors.IsContextCanceled(err) {
			return errors.NewErrorWithExitCode(err, common.ExitCodeInterrupted)
		}

		return errors.NewErrorWithExitCode(err, common.ExitCodeRemote)
	}

	if unhealthy := report.Unhealthy(); len(unhealthy) > 0 {
		l.Warnf("%d resources did not converge to a healthy status", len(unhealthy))
	}

	return nil
}

func sessionOptions(opts *options.DeployOptions) []awshelper.SessionOption {
	sessionName := options.GetDefaultAssumeRoleSessionName

	if name := opts.AssumeRoleSessionName; name != "" {
		sessionName = func(string) string { return name }
	}

	return []awshelper.SessionOption{
		awshelper.WithDuration(opts.AssumeRoleDuration),
		awshelper.WithSessionName(sessionName),
	}
}

// checkCallerAccount warns when the base credentials do not belong to the management account. Role assumption may
// still succeed from elsewhere, so it is not an error.
func checkCallerAccount(ctx context.Context, l log.Logger, session *awshelper.Session, adminID string) {
	account, err := session.CallerAccount(ctx)
	if err != nil {
		l.WithError(err).Warnf("Unable to verify the caller account")
		return
	}

	if account != adminID {
		l.Warnf("Running with credentials of account %s, expected the management account %s", account, adminID)
		return
	}

	l.Debugf("Running with credentials of the management account %s", account)
}
