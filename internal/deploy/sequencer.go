package deploy

import (
	"context"
	"time"

	"github.com/delegat/stackdeploy/internal/cfn"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/pkg/log"
)

// StackDeployer converges stacks and stack sets. It is satisfied by *cfn.Dispatcher.
type StackDeployer interface {
	DeployStack(ctx context.Context, in cfn.StackInput) (cfn.Result, error)
	DeployStackSet(ctx context.Context, in cfn.StackSetInput) (cfn.Result, error)
}

// Resource kinds reported by JobResult.
const (
	ResourceStack    = "stack"
	ResourceStackSet = "stack set"
	ResourceMirror   = "mirror stack"
	ResourcePackaged = "packaged application"
)

// JobResult is what one deployment of a job did.
type JobResult struct {
	Phase    string
	Job      string
	Resource string
	Target   cfn.RemoteTarget
	// Outcome is unset for the packaged application, whose changes are not observable.
	Outcome     cfn.Outcome
	Convergence *cfn.Convergence
}

// Unhealthy returns true if the resource converged to something other than success.
func (result JobResult) Unhealthy() bool {
	return result.Convergence != nil && !result.Convergence.State.Healthy()
}

// Report lists the results of a run in execution order.
type Report struct {
	Results  []JobResult
	Duration time.Duration
}

// Unhealthy returns the results that converged to something other than success.
func (report *Report) Unhealthy() []JobResult {
	var unhealthy []JobResult

	for _, result := range report.Results {
		if result.Unhealthy() {
			unhealthy = append(unhealthy, result)
		}
	}

	return unhealthy
}

// Changed returns the number of resources that were created or updated.
func (report *Report) Changed() int {
	changed := 0

	for _, result := range report.Results {
		if result.Outcome.Changed() {
			changed++
		}
	}

	return changed
}

// Log writes a summary of the report.
func (report *Report) Log(l log.Logger) {
	for _, result := range report.Results {
		entry := l.WithFields(log.Fields{
			log.FieldKeyPhase:  result.Phase,
			log.FieldKeyJob:    result.Job,
			log.FieldKeyTarget: result.Target.String(),
		})

		switch {
		case result.Resource == ResourcePackaged:
			entry.Infof("%s deployed", result.Resource)
		case result.Unhealthy():
			entry.Warnf("%s %s, finished in %s", result.Resource, result.Outcome, result.Convergence.Status)
		default:
			entry.Infof("%s %s", result.Resource, result.Outcome)
		}
	}

	l.Infof("%d resources deployed, %d changed, in %s", len(report.Results), report.Changed(), report.Duration.Round(time.Second))
}

// Sequencer runs a plan one job at a time, in declaration order.
type Sequencer struct {
	deployer     StackDeployer
	runner       CommandRunner
	logger       log.Logger
	samPath      string
	skipPackaged bool
	now          func() time.Time
}

// SequencerOption customizes a Sequencer.
type SequencerOption func(*Sequencer)

// WithSAMPath sets the sam executable.
func WithSAMPath(path string) SequencerOption {
	return func(sequencer *Sequencer) {
		sequencer.samPath = path
	}
}

// WithSkipPackaged skips the packaged application phase.
func WithSkipPackaged(skip bool) SequencerOption {
	return func(sequencer *Sequencer) {
		sequencer.skipPackaged = skip
	}
}

// NewSequencer returns a sequencer deploying provider jobs through deployer and the packaged application through
// runner.
func NewSequencer(l log.Logger, deployer StackDeployer, runner CommandRunner, opts ...SequencerOption) *Sequencer {
	sequencer := &Sequencer{
		deployer: deployer,
		runner:   runner,
		logger:   l,
		samPath:  "sam",
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(sequencer)
	}

	return sequencer
}

// Run deploys every phase of plan. It stops at the first error and returns the results gathered so far.
func (sequencer *Sequencer) Run(ctx context.Context, plan *Plan) (*Report, error) {
	start := sequencer.now()
	report := &Report{}

	defer func() {
		report.Duration = sequencer.now().Sub(start)
	}()

	for _, phase := range plan.Phases {
		l := sequencer.logger.WithField(log.FieldKeyPhase, phase.Name)

		if phase.Packaged != nil {
			if sequencer.skipPackaged {
				l.Infof("Skipping packaged application %s", phase.Packaged.StackName)
				continue
			}

			if err := sequencer.runPackaged(ctx, l, plan, phase, report); err != nil {
				return report, err
			}

			continue
		}

		for _, job := range phase.Jobs {
			if err := sequencer.runJob(ctx, l.WithField(log.FieldKeyJob, job.Name), plan, phase.Name, job, report); err != nil {
				return report, errors.New(JobError{Phase: phase.Name, Job: job.Name, Err: err})
			}
		}
	}

	return report, nil
}

func (sequencer *Sequencer) runJob(ctx context.Context, l log.Logger, plan *Plan, phase string, job PlannedJob, report *Report) error {
	if job.Target.Kind == StackSet {
		owner := cfn.RemoteTarget{AccountID: job.Target.AccountID, Region: job.Target.Regions[0], RoleName: plan.RoleName}

		l.Infof("Deploying stack set to %s in %v", job.Target.OrganizationalUnitID, job.Target.Regions)

		result, err := sequencer.deployer.DeployStackSet(ctx, cfn.StackSetInput{
			Name:                 job.Name,
			TemplateBody:         job.TemplateBody,
			Parameters:           job.Parameters.Strings(),
			Capabilities:         job.Capabilities,
			Owner:                owner,
			OrganizationalUnitID: job.Target.OrganizationalUnitID,
			Regions:              job.Target.Regions,
		})
		if err != nil {
			return err
		}

		report.Results = append(report.Results, JobResult{
			Phase: phase, Job: job.Name, Resource: ResourceStackSet, Target: owner,
			Outcome: result.Outcome, Convergence: result.Convergence,
		})

		// Service managed stack sets never deploy into the management account itself.
		for _, region := range job.Target.Regions {
			if err := sequencer.deployStack(ctx, l, phase, ResourceMirror, job, owner.InRegion(region), report); err != nil {
				return err
			}
		}

		return nil
	}

	for _, region := range job.Target.Regions {
		target := cfn.RemoteTarget{AccountID: job.Target.AccountID, Region: region, RoleName: plan.RoleName}

		if err := sequencer.deployStack(ctx, l, phase, ResourceStack, job, target, report); err != nil {
			return err
		}
	}

	return nil
}

func (sequencer *Sequencer) deployStack(ctx context.Context, l log.Logger, phase, resource string, job PlannedJob, target cfn.RemoteTarget, report *Report) error {
	l.Infof("Deploying %s to %s", resource, target)

	result, err := sequencer.deployer.DeployStack(ctx, cfn.StackInput{
		Name:         job.Name,
		TemplateBody: job.TemplateBody,
		Parameters:   job.Parameters.Strings(),
		Capabilities: job.Capabilities,
		Target:       target,
	})
	if err != nil {
		return err
	}

	report.Results = append(report.Results, JobResult{
		Phase: phase, Job: job.Name, Resource: resource, Target: target,
		Outcome: result.Outcome, Convergence: result.Convergence,
	})

	return nil
}

func (sequencer *Sequencer) runPackaged(ctx context.Context, l log.Logger, plan *Plan, phase Phase, report *Report) error {
	app := phase.Packaged
	l = l.WithField(log.FieldKeyJob, app.StackName)

	if err := sequencer.runner.RunCommand(ctx, sequencer.samPath, app.BuildCommand()...); err != nil {
		return errors.New(JobError{Phase: phase.Name, Job: app.StackName, Err: err})
	}

	for _, region := range app.Regions {
		l.Infof("Deploying packaged application to %s", region)

		if err := sequencer.runner.RunCommand(ctx, sequencer.samPath, app.DeployCommand(region)...); err != nil {
			return errors.New(JobError{Phase: phase.Name, Job: app.StackName, Err: err})
		}

		report.Results = append(report.Results, JobResult{
			Phase:    phase.Name,
			Job:      app.StackName,
			Resource: ResourcePackaged,
			Target:   cfn.RemoteTarget{AccountID: plan.Admin.ID, Region: region},
		})
	}

	return nil
}
