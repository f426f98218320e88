package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/internal/params"
)

type registry map[string]string

func (reg registry) AccountID(name string) (string, bool) {
	id, ok := reg[name]
	return id, ok
}

func newTestResolver() *params.Resolver {
	return params.NewResolver(
		params.Regions{Main: "eu-west-1", Others: []string{"eu-west-2", "eu-central-1"}},
		registry{
			"admin-account":       "999999999999",
			"log-archive-account": "111111111111",
		},
	)
}

func TestResolveLiteralsAndPlaceholders(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	globals := map[string]any{
		"main-region":         "eu-west-1",
		"LogArchiveAccountId": "{log-archive-account}",
		"Retention":           int64(365),
		"Enabled":             true,
	}
	repo := map[string]any{
		"Retention": int64(30),
	}

	base, err := resolver.Resolve(nil, globals, repo)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"main-region":         "eu-west-1",
		"LogArchiveAccountId": "111111111111",
		"Retention":           "30",
		"Enabled":             "true",
	}, base.Strings())

	section, err := resolver.Resolve(base, map[string]any{
		"BucketArn": "arn:aws:s3:::{LogArchiveAccountId}-logs",
		"Region":    "{main-region}",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"BucketArn": "arn:aws:s3:::111111111111-logs",
		"Region":    "eu-west-1",
	}, section.Strings())
}

func TestResolveIsSinglePass(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	set, err := resolver.Resolve(nil, map[string]any{
		"Inner": "{{Outer}}",
		"Outer": "Inner",
	})
	require.NoError(t, err)

	val, ok := set.Get("Inner")
	require.True(t, ok)
	assert.Equal(t, "{Inner}", val.String())
}

func TestResolveExpandsAllRegions(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	set, err := resolver.Resolve(nil, map[string]any{
		"Regions": params.AllRegionsToken,
		"Joined":  "{Regions}",
	})
	require.NoError(t, err)

	regions, ok := set.Get("Regions")
	require.True(t, ok)
	assert.True(t, regions.IsList())
	assert.Equal(t, []string{"eu-west-1", "eu-west-2", "eu-central-1"}, regions.Items())

	joined, ok := set.Get("Joined")
	require.True(t, ok)
	assert.Equal(t, "eu-west-1,eu-west-2,eu-central-1", joined.String())
}

func TestResolveUsesScope(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	scope, err := resolver.Resolve(nil, map[string]any{"Env": "prod", "Name": "scope"})
	require.NoError(t, err)

	set, err := resolver.Resolve(scope, map[string]any{
		"Name":  "section",
		"Stack": "{Env}-{Name}",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Name": "section", "Stack": "prod-section"}, set.Strings())
}

func TestResolveReportsEveryUnresolvedName(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	_, err := resolver.Resolve(nil, map[string]any{
		"A": "{missing-one}",
		"B": "{missing-two}-{missing-one}",
		"C": "fine",
	})
	require.Error(t, err)

	var unresolved params.UnresolvedParameterError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"missing-one", "missing-two"}, unresolved.Names)
}

func TestResolveRejectsTables(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	_, err := resolver.Resolve(nil, map[string]any{"Nested": map[string]any{"a": "b"}})
	require.Error(t, err)

	var invalid params.InvalidValueError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "Nested", invalid.Name)
}

func TestAccount(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	scope, err := resolver.Resolve(nil, map[string]any{
		"SecurityAccountId": "333333333333",
		"BadAccount":        "not-an-id",
	})
	require.NoError(t, err)

	testCases := []struct {
		selector string
		expected string
		err      bool
	}{
		{selector: "ALL", expected: "ALL"},
		{selector: "444444444444", expected: "444444444444"},
		{selector: "{SecurityAccountId}", expected: "333333333333"},
		{selector: "{log-archive-account}", expected: "111111111111"},
		{selector: "admin-account", expected: "999999999999"},
		{selector: "{BadAccount}", err: true},
		{selector: "unknown-account", err: true},
		{selector: "{unknown}", err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.selector, func(t *testing.T) {
			t.Parallel()

			actual, err := resolver.Account(scope, tc.selector)
			if tc.err {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestRegions(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver()

	scope, err := resolver.Resolve(nil, map[string]any{
		"main-region": "eu-west-1",
		"Pair":        []any{"ap-south-1", "sa-east-1"},
	})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		declared any
		expected []string
		err      bool
	}{
		{name: "all regions", declared: "ALL_REGIONS", expected: []string{"eu-west-1", "eu-west-2", "eu-central-1"}},
		{name: "literal", declared: "us-west-2", expected: []string{"us-west-2"}},
		{name: "placeholder", declared: "{main-region}", expected: []string{"eu-west-1"}},
		{name: "list placeholder", declared: "{Pair}", expected: []string{"ap-south-1", "sa-east-1"}},
		{name: "list", declared: []any{"{main-region}", "us-west-2"}, expected: []string{"eu-west-1", "us-west-2"}},
		{name: "no dedup", declared: []any{"eu-west-1", "ALL_REGIONS"}, expected: []string{"eu-west-1", "eu-west-1", "eu-west-2", "eu-central-1"}},
		{name: "unknown", declared: "{nowhere}", err: true},
		{name: "empty", declared: []any{}, err: true},
		{name: "wrong type", declared: int64(3), err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			actual, err := resolver.Regions(scope, tc.declared)
			if tc.err {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestOverrides(t *testing.T) {
	t.Parallel()

	set := params.NewSet(map[string]params.Value{
		"Zone":    params.Scalar("a"),
		"Regions": params.List("eu-west-1", "eu-west-2"),
	})

	assert.Equal(t, []string{`Regions="eu-west-1,eu-west-2"`, `Zone="a"`}, set.Overrides())
}
