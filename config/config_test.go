package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/config"
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
)

const fixtureSOARRepo = "../test/fixture-soar-repo"

func parseTOML(t *testing.T, content string) map[string]any {
	t.Helper()

	raw := map[string]any{}
	_, err := toml.Decode(content, &raw)
	require.NoError(t, err)

	return raw
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	opts := options.NewDeployOptionsForTest(fixtureSOARRepo)
	opts.GlobalConfigPath = "config-soar.toml"

	cfg, err := config.Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "SOAR", cfg.Manifest.PartOf)
	assert.Equal(t, "SOAR-detect-log-buckets", cfg.Repo.Name)
	assert.Equal(t, "stackdeploy-deployer", cfg.Globals.CrossAccountRole)
	assert.Equal(t, []string{"eu-west-2", "eu-central-1"}, cfg.Globals.OtherRegions)
	assert.Equal(t, config.Account{Name: config.AdminAccount, ID: "999999999999", Profile: "org-admin"}, cfg.Accounts.Admin())
	assert.Equal(t, map[string]any{"Env": "prod"}, cfg.Repo.Scalars)
	assert.Equal(t, map[string]any{"Topic": "soar-alarms-{Env}"}, cfg.Repo.Section("log-buckets-alarms"))
	assert.Empty(t, cfg.Repo.Section("undeclared"))
}

func TestLoadReportsEveryFile(t *testing.T) {
	t.Parallel()

	opts := options.NewDeployOptionsForTest(t.TempDir())

	_, err := config.Load(opts)
	require.Error(t, err)

	var multi *errors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 3, multi.Len())

	var readErr config.ReadFileError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	manifest, err := config.LoadManifest(filepath.Join(fixtureSOARRepo, options.DefaultManifestPath))
	require.NoError(t, err)

	require.NotNil(t, manifest.SAM)
	assert.Equal(t, []string{"CAPABILITY_IAM"}, manifest.SAM.SAMCapabilities())
	assert.Equal(t, "soar-detect-log-buckets", manifest.SAM.Prefix())
	assert.Equal(t, "ALL_REGIONS", manifest.SAM.Regions)

	require.Len(t, manifest.PreStage, 1)
	assert.Equal(t, "ALL", manifest.PreStage[0].Account)
	assert.Equal(t, []string{config.DefaultCapability}, manifest.PreStage[0].StackCapabilities())
	assert.Equal(t, "log-buckets-prereqs", manifest.PreStage[0].Section())

	require.Len(t, manifest.PostStage, 1)
	assert.Equal(t, []any{"eu-west-1", "eu-central-1"}, manifest.PostStage[0].Regions)
	assert.Empty(t, manifest.Jobs)
}

func TestLoadManifestUnknownKeys(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
part-of = "SOAR"
repo-name = "repo"
colour = "red"

[[CloudFormation]]
name = "job"
tempalte = "cfn/job.yaml"
account = "ALL"
regions = "eu-west-1"
`)

	_, err := config.LoadManifest(path)
	require.Error(t, err)

	var unknown config.UnknownKeysError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"CloudFormation[0].tempalte", "colour"}, unknown.Keys)
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()

	job := func(name string) config.Job {
		return config.Job{Name: name, Template: "cfn/" + name + ".yaml", Account: "ALL", Regions: "eu-west-1"}
	}

	testCases := []struct {
		name     string
		manifest config.Manifest
		expected []error
	}{
		{
			"valid",
			config.Manifest{PartOf: "SOAR", RepoName: "repo", Jobs: []config.Job{job("a"), job("b")}},
			nil,
		},
		{
			"missing identity",
			config.Manifest{Jobs: []config.Job{job("a")}},
			[]error{
				config.MissingKeyError{Key: config.KeyPartOf},
				config.MissingKeyError{Key: config.KeyRepoName},
			},
		},
		{
			"both forms",
			config.Manifest{
				PartOf: "SOAR", RepoName: "repo",
				SAM:  &config.SAMConfig{StackName: "app", Regions: "eu-west-1"},
				Jobs: []config.Job{job("a")},
			},
			[]error{config.ConflictingFormsError{}},
		},
		{
			"duplicate job",
			config.Manifest{PartOf: "SOAR", RepoName: "repo", PreStage: []config.Job{job("a"), job("a")}},
			[]error{config.DuplicateJobError{Phase: config.KeyPreStage, Name: "a"}},
		},
		{
			"incomplete job",
			config.Manifest{PartOf: "SOAR", RepoName: "repo", PostStage: []config.Job{{Name: "a", Regions: []any{}}}},
			[]error{
				config.MissingKeyError{Key: config.KeyPostStage + "[a].template"},
				config.MissingKeyError{Key: config.KeyPostStage + "[a].account"},
				config.InvalidValueError{Key: config.KeyPostStage + "[a].regions", Reason: "empty region list"},
			},
		},
		{
			"incomplete packaged application",
			config.Manifest{PartOf: "SOAR", RepoName: "repo", SAM: &config.SAMConfig{Regions: 12}},
			[]error{
				config.MissingKeyError{Key: config.KeySAM + ".stack-name"},
				config.InvalidValueError{Key: config.KeySAM + ".regions", Reason: "expected a string or a list of strings, got int"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.manifest.Validate()
			if tc.expected == nil {
				require.NoError(t, err)
				return
			}

			var multi *errors.MultiError
			require.ErrorAs(t, err, &multi)
			assert.Equal(t, tc.expected, multi.WrappedErrors())
		})
	}
}

func TestNewAccounts(t *testing.T) {
	t.Parallel()

	accounts, err := config.NewAccounts("accounts.toml", parseTOML(t, `
[id]
admin-account = "999999999999"
security = 12345678901

[profile]
admin-account = "org-admin"
`))
	require.NoError(t, err)

	id, ok := accounts.AccountID("security")
	assert.True(t, ok)
	assert.Equal(t, "012345678901", id)

	_, ok = accounts.Lookup("unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{config.AdminAccount, "security"}, accounts.Names())
}

func TestNewAccountsErrors(t *testing.T) {
	t.Parallel()

	_, err := config.NewAccounts("accounts.toml", parseTOML(t, `
region = "eu-west-1"

[id]
security = "1234"
`))
	require.Error(t, err)

	var multi *errors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 4, multi.Len())

	var unknown config.UnknownKeysError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"region"}, unknown.Keys)

	var invalid config.InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "id.security", invalid.Key)
}

func TestNewGlobals(t *testing.T) {
	t.Parallel()

	globals, err := config.NewGlobals("globals.toml", parseTOML(t, `
cross-account-role = "deployer"
root-ou = "r-abcd"
main-region = "eu-west-1"
other-regions = "eu-west-2"
LogArchiveAccountId = "{log-archive-account}"

[repo]
Env = "prod"

[repo.job]
Bucket = "logs"
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"eu-west-2"}, globals.OtherRegions)
	assert.Equal(t, "{log-archive-account}", globals.Scalars["LogArchiveAccountId"])
	assert.Equal(t, "deployer", globals.Scalars[config.KeyCrossAccountRole])

	repo, err := globals.Repo("repo")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Env": "prod"}, repo.Scalars)
	assert.Equal(t, map[string]any{"Bucket": "logs"}, repo.Section("job"))

	_, err = globals.Repo("other")

	var notFound config.RepoNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "other", notFound.Repo)
}

func TestNewGlobalsErrors(t *testing.T) {
	t.Parallel()

	_, err := config.NewGlobals("globals.toml", parseTOML(t, `
root-ou = ""
main-region = 3
other-regions = ["eu-west-2", 4]
`))
	require.Error(t, err)

	var multi *errors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, []error{
		config.InvalidValueError{File: "globals.toml", Key: config.KeyMainRegion, Reason: "expected a string, got int64"},
		config.InvalidValueError{File: "globals.toml", Key: config.KeyOtherRegions, Reason: "4 is not a non-empty string"},
		config.InvalidValueError{File: "globals.toml", Key: config.KeyRootOU, Reason: "must not be empty"},
		config.MissingKeyError{File: "globals.toml", Key: config.KeyCrossAccountRole},
	}, multi.WrappedErrors())
}
