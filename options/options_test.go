package options_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/options"
)

func TestResolvePath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	opts := options.NewDeployOptionsForTest("/repo")

	testCases := []struct {
		path     string
		expected string
	}{
		{options.DefaultManifestPath, "/repo/config-deploy.toml"},
		{options.DefaultGlobalConfigPath, "/Delegat-Install/config-soar.toml"},
		{"/etc/stackdeploy/../accounts.toml", "/etc/accounts.toml"},
		{"~/accounts.toml", filepath.Join(home, "accounts.toml")},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			actual, err := opts.ResolvePath(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestNewDeployOptionsForTest(t *testing.T) {
	t.Parallel()

	opts := options.NewDeployOptionsForTest("/repo")

	assert.Zero(t, opts.PollInterval)
	assert.Zero(t, opts.MaxWait)
	assert.Equal(t, options.DefaultAssumeRoleDuration, opts.AssumeRoleDuration)
	assert.Equal(t, options.DefaultSAMPath, opts.SAMPath)
	assert.Empty(t, opts.Env)
}
