package deploy_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/config"
	"github.com/delegat/stackdeploy/internal/cfn"
	"github.com/delegat/stackdeploy/internal/deploy"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/internal/params"
	"github.com/delegat/stackdeploy/options"
	"github.com/delegat/stackdeploy/test/helpers/logger"
)

const (
	testGlobals = `
cross-account-role = "deployer"
root-ou = "r-abcd"
main-region = "eu-west-1"
other-regions = ["eu-west-2", "eu-central-1"]
LogArchiveAccountId = "{log-archive-account}"

[SOAR-detect-log-buckets]
Env = "prod"

[SOAR-detect-log-buckets.guardrails]
BucketArn = "arn:aws:s3:::{LogArchiveAccountId}-logs"
Regions = "ALL_REGIONS"

[SOAR-detect-log-buckets.alarms]
Topic = "alarms-{Env}"
`

	testAccounts = `
[id]
admin-account = "999999999999"
log-archive-account = "111111111111"
workload = "222222222222"

[profile]
admin-account = "org-admin"
`

	testManifest = `
part-of = "SOAR"
repo-name = "SOAR-detect-log-buckets"

[SAM]
stack-name = "soar-detect-log-buckets"
capabilities = "CAPABILITY_IAM"
regions = ["eu-west-1", "eu-west-2"]
extra-args = "--use-container"

[[pre-SAM-CloudFormation]]
name = "guardrails"
template = "cfn/guardrails.yaml"
account = "ALL"
regions = "ALL_REGIONS"

[[post-SAM-CloudFormation]]
name = "alarms"
template = "cfn/alarms.yaml"
account = "workload"
regions = "{main-region}"
`

	testTemplate = "Resources: {}\n"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func loadConfig(t *testing.T, overrides map[string]string) *config.Config {
	t.Helper()

	dir := t.TempDir()

	files := map[string]string{
		options.DefaultManifestPath: testManifest,
		options.DefaultAccountsPath: testAccounts,
		"config-soar.toml":          testGlobals,
		"cfn/guardrails.yaml":       testTemplate,
		"cfn/alarms.yaml":           testTemplate,
	}

	for name, content := range overrides {
		files[name] = content
	}

	writeFiles(t, dir, files)

	opts := options.NewDeployOptionsForTest(dir)
	opts.GlobalConfigPath = "config-soar.toml"

	cfg, err := config.Load(opts)
	require.NoError(t, err)

	return cfg
}

type stackCall struct {
	name   string
	target cfn.RemoteTarget
	params map[string]string
}

type fakeDeployer struct {
	stacks    []stackCall
	stackSets []cfn.StackSetInput
	failOn    string
	outcome   cfn.Outcome
}

func (fake *fakeDeployer) DeployStack(_ context.Context, in cfn.StackInput) (cfn.Result, error) {
	if in.Name == fake.failOn {
		return cfn.Result{}, errors.New("boom")
	}

	fake.stacks = append(fake.stacks, stackCall{name: in.Name, target: in.Target, params: in.Parameters})

	return cfn.Result{Outcome: fake.result()}, nil
}

func (fake *fakeDeployer) DeployStackSet(_ context.Context, in cfn.StackSetInput) (cfn.Result, error) {
	if in.Name == fake.failOn {
		return cfn.Result{}, errors.New("boom")
	}

	fake.stackSets = append(fake.stackSets, in)

	return cfn.Result{Outcome: fake.result()}, nil
}

func (fake *fakeDeployer) result() cfn.Outcome {
	if fake.outcome != 0 {
		return fake.outcome
	}

	return cfn.Created
}

type fakeRunner struct {
	commands []string
}

func (fake *fakeRunner) RunCommand(_ context.Context, command string, args ...string) error {
	fake.commands = append(fake.commands, command+" "+strings.Join(args, " "))
	return nil
}

func TestPreparePlan(t *testing.T) {
	t.Parallel()

	plan, err := deploy.Prepare(loadConfig(t, nil))
	require.NoError(t, err)

	require.Len(t, plan.Phases, 3)
	assert.Equal(t, config.KeyPreStage, plan.Phases[0].Name)
	assert.Equal(t, config.KeySAM, plan.Phases[1].Name)
	assert.Equal(t, config.KeyPostStage, plan.Phases[2].Name)
	assert.Equal(t, 2, plan.JobCount())
	assert.Equal(t, "deployer", plan.RoleName)

	guardrails := plan.Phases[0].Jobs[0]
	assert.Equal(t, deploy.StackSet, guardrails.Target.Kind)
	assert.Equal(t, "999999999999", guardrails.Target.AccountID)
	assert.Equal(t, "r-abcd", guardrails.Target.OrganizationalUnitID)
	assert.Equal(t, []string{"eu-west-1", "eu-west-2", "eu-central-1"}, guardrails.Target.Regions)
	assert.Equal(t, testTemplate, guardrails.TemplateBody)
	assert.Equal(t, []string{config.DefaultCapability}, guardrails.Capabilities)
	assert.Equal(t, map[string]string{
		"BucketArn": "arn:aws:s3:::111111111111-logs",
		"Regions":   "eu-west-1,eu-west-2,eu-central-1",
	}, guardrails.Parameters.Strings())

	alarms := plan.Phases[2].Jobs[0]
	assert.Equal(t, deploy.SingleStack, alarms.Target.Kind)
	assert.Equal(t, "222222222222", alarms.Target.AccountID)
	assert.Equal(t, []string{"eu-west-1"}, alarms.Target.Regions)
	assert.Equal(t, map[string]string{"Topic": "alarms-prod"}, alarms.Parameters.Strings())

	app := plan.Phases[1].Packaged
	require.NotNil(t, app)
	assert.Equal(t, []string{"eu-west-1", "eu-west-2"}, app.Regions)
	assert.Equal(t, "org-admin", app.Profile)
	assert.Equal(t, []string{`Env="prod"`}, app.Overrides)
	assert.Equal(t, []string{"build", "--use-container"}, app.BuildCommand())
}

func TestPrepareReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := loadConfig(t, map[string]string{
		"cfn/guardrails.yaml": strings.Repeat("#", cfn.MaxTemplateBodySize+1),
	})

	cfg.Repo.Sections["alarms"]["Unknown"] = "{UnknownName}"

	plan, err := deploy.Prepare(cfg)
	require.Error(t, err)
	assert.Nil(t, plan)

	var sizeErr cfn.TemplateTooLargeError
	require.ErrorAs(t, err, &sizeErr)

	var unresolved params.UnresolvedParameterError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"UnknownName"}, unresolved.Names)

	var multi *errors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Len())
}

func TestRunMirrorsStackSetsInAdminAccount(t *testing.T) {
	t.Parallel()

	plan, err := deploy.Prepare(loadConfig(t, nil))
	require.NoError(t, err)

	deployer := &fakeDeployer{}
	runner := &fakeRunner{}

	report, err := deploy.NewSequencer(logger.CreateLogger(), deployer, runner).Run(t.Context(), plan)
	require.NoError(t, err)

	require.Len(t, deployer.stackSets, 1)
	assert.Equal(t, "999999999999", deployer.stackSets[0].Owner.AccountID)
	assert.Equal(t, "eu-west-1", deployer.stackSets[0].Owner.Region)
	assert.Equal(t, []string{"eu-west-1", "eu-west-2", "eu-central-1"}, deployer.stackSets[0].Regions)

	var mirrored []string

	for _, call := range deployer.stacks {
		if call.name == "guardrails" {
			assert.Equal(t, "999999999999", call.target.AccountID)
			assert.Equal(t, "deployer", call.target.RoleName)
			mirrored = append(mirrored, call.target.Region)
		}
	}

	assert.Equal(t, []string{"eu-west-1", "eu-west-2", "eu-central-1"}, mirrored)

	// pre jobs, then sam, then post jobs
	require.Len(t, deployer.stacks, 4)
	assert.Equal(t, "alarms", deployer.stacks[3].name)
	assert.Equal(t, "222222222222", deployer.stacks[3].target.AccountID)

	require.Len(t, runner.commands, 3)
	assert.Equal(t, "sam build --use-container", runner.commands[0])
	assert.True(t, strings.HasPrefix(runner.commands[1], "sam deploy --stack-name soar-detect-log-buckets --capabilities CAPABILITY_IAM --resolve-s3 --region eu-west-1 --profile org-admin"))
	assert.Contains(t, runner.commands[1], `--tags infra:immutable="true"`)
	assert.Contains(t, runner.commands[2], "--region eu-west-2")

	assert.Len(t, report.Results, 1+3+2+1)
	assert.Equal(t, 5, report.Changed())
	assert.Empty(t, report.Unhealthy())
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	plan, err := deploy.Prepare(loadConfig(t, nil))
	require.NoError(t, err)

	deployer := &fakeDeployer{outcome: cfn.NoChange}

	report, err := deploy.NewSequencer(logger.CreateLogger(), deployer, &fakeRunner{}, deploy.WithSkipPackaged(true)).Run(t.Context(), plan)
	require.NoError(t, err)
	assert.Zero(t, report.Changed())
}

func TestRunStopsAtFirstError(t *testing.T) {
	t.Parallel()

	plan, err := deploy.Prepare(loadConfig(t, nil))
	require.NoError(t, err)

	deployer := &fakeDeployer{failOn: "guardrails"}
	runner := &fakeRunner{}

	_, err = deploy.NewSequencer(logger.CreateLogger(), deployer, runner).Run(t.Context(), plan)
	require.Error(t, err)

	var jobErr deploy.JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, "guardrails", jobErr.Job)
	assert.Equal(t, config.KeyPreStage, jobErr.Phase)

	assert.Empty(t, deployer.stacks)
	assert.Empty(t, runner.commands)
}

func TestRunSkipsPackagedPhase(t *testing.T) {
	t.Parallel()

	plan, err := deploy.Prepare(loadConfig(t, nil))
	require.NoError(t, err)

	runner := &fakeRunner{}

	_, err = deploy.NewSequencer(logger.CreateLogger(), &fakeDeployer{}, runner,
		deploy.WithSkipPackaged(true),
		deploy.WithSAMPath("/opt/sam"),
	).Run(t.Context(), plan)
	require.NoError(t, err)
	assert.Empty(t, runner.commands)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	classifier := deploy.NewClassifier("999999999999", "r-abcd")

	target, err := classifier.Classify("ALL", []string{"eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, deploy.Target{Kind: deploy.StackSet, AccountID: "999999999999", OrganizationalUnitID: "r-abcd", Regions: []string{"eu-west-1"}}, target)

	target, err = classifier.Classify("222222222222", []string{"eu-west-1", "eu-west-2"})
	require.NoError(t, err)
	assert.Equal(t, deploy.Target{Kind: deploy.SingleStack, AccountID: "222222222222", Regions: []string{"eu-west-1", "eu-west-2"}}, target)

	_, err = classifier.Classify("222222222222", nil)
	require.Error(t, err)
}
