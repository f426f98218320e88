// Package deploy sequences the jobs of a deployment manifest: every job is validated up front, then the phases run
// one after the other, each job converging before the next one starts.
package deploy

import (
	"path/filepath"

	"github.com/delegat/stackdeploy/config"
	"github.com/delegat/stackdeploy/internal/cfn"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/internal/params"
)

// PlannedJob is a provider job with everything resolved: nothing about it is looked up again at run time.
type PlannedJob struct {
	Name         string
	TemplatePath string
	TemplateBody string
	Parameters   *params.Set
	Capabilities []string
	Target       Target
}

// Phase is one step of a deployment: a list of provider jobs or the packaged application.
type Phase struct {
	Name     string
	Jobs     []PlannedJob
	Packaged *PackagedApp
}

// Plan is the validated, fully resolved deployment.
type Plan struct {
	Phases []Phase
	// RoleName is the cross-account role assumed in every target account.
	RoleName string
	Admin    config.Account
}

// JobCount returns the number of provider jobs of the plan.
func (plan *Plan) JobCount() int {
	count := 0

	for _, phase := range plan.Phases {
		count += len(phase.Jobs)
	}

	return count
}

// Prepare resolves and validates every job of every phase. It reads templates but performs no remote call. All
// problems are reported together; a plan is returned only if there are none.
func Prepare(cfg *config.Config) (*Plan, error) {
	var (
		resolver = params.NewResolver(params.Regions{
			Main:   cfg.Globals.MainRegion,
			Others: cfg.Globals.OtherRegions,
		}, cfg.Accounts)
		classifier = NewClassifier(cfg.Accounts.Admin().ID, cfg.Globals.RootOU)
		baseDir    = filepath.Dir(cfg.Manifest.Path)
		errs       = &errors.MultiError{}
	)

	base, err := resolver.Resolve(nil, cfg.Globals.Scalars, cfg.Repo.Scalars)
	if err != nil {
		return nil, errs.Append(JobError{Phase: "parameters", Job: cfg.Repo.Name, Err: err})
	}

	plan := &Plan{
		RoleName: cfg.Globals.CrossAccountRole,
		Admin:    cfg.Accounts.Admin(),
	}

	preparePhase := func(name string, jobs []config.Job) {
		if len(jobs) == 0 {
			return
		}

		phase := Phase{Name: name}

		for _, job := range jobs {
			planned, jobErrs := prepareJob(resolver, classifier, base, cfg.Repo, baseDir, job)
			for _, err := range jobErrs {
				errs = errs.Append(JobError{Phase: name, Job: job.Name, Err: err})
			}

			phase.Jobs = append(phase.Jobs, planned)
		}

		plan.Phases = append(plan.Phases, phase)
	}

	preparePhase(config.KeyPreStage, cfg.Manifest.PreStage)

	if cfg.Manifest.SAM != nil {
		app, err := preparePackagedApp(resolver, base, cfg.Repo, plan.Admin, cfg.Manifest.SAM)
		if err != nil {
			errs = errs.Append(JobError{Phase: config.KeySAM, Job: cfg.Manifest.SAM.StackName, Err: err})
		}

		plan.Phases = append(plan.Phases, Phase{Name: config.KeySAM, Packaged: app})
	}

	preparePhase(config.KeyJobs, cfg.Manifest.Jobs)
	preparePhase(config.KeyPostStage, cfg.Manifest.PostStage)

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return plan, nil
}

func prepareJob(resolver *params.Resolver, classifier *Classifier, base *params.Set, repo *config.RepoParameters, baseDir string, job config.Job) (PlannedJob, []error) {
	var errs []error

	planned := PlannedJob{
		Name:         job.Name,
		TemplatePath: job.Template,
		Capabilities: job.StackCapabilities(),
	}

	if !filepath.IsAbs(planned.TemplatePath) {
		planned.TemplatePath = filepath.Join(baseDir, planned.TemplatePath)
	}

	body, err := cfn.ReadTemplate(planned.TemplatePath)
	if err != nil {
		errs = append(errs, err)
	}

	planned.TemplateBody = body

	section, err := resolver.Resolve(base, repo.Section(job.Section()))
	if err != nil {
		errs = append(errs, err)
	}

	planned.Parameters = section

	account, err := resolver.Account(base, job.Account)
	if err != nil {
		errs = append(errs, err)
	}

	regions, err := resolver.Regions(base, job.Regions)
	if err != nil {
		errs = append(errs, err)
	}

	if account != "" && len(regions) > 0 {
		if planned.Target, err = classifier.Classify(account, regions); err != nil {
			errs = append(errs, err)
		}
	}

	return planned, errs
}
