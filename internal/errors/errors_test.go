package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/internal/errors"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err      error
		expected int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{errors.NewErrorWithExitCode(errors.New("bad config"), 2), 2},
		{fmt.Errorf("wrapped: %w", errors.NewErrorWithExitCode(errors.New("bad config"), 2)), 2},
		{(&errors.MultiError{}).Append(errors.NewErrorWithExitCode(errors.New("bad config"), 2)), 2},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("testCase-%d", i), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, errors.ExitCode(tc.err))
		})
	}

	assert.NoError(t, errors.NewErrorWithExitCode(nil, 2))
}

func TestNewKeepsStackTrace(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	require.True(t, errors.ContainsStackTrace(err))
	assert.Same(t, err, errors.New(err))
	assert.Contains(t, errors.ErrorStack(err), "errors_test.go")
	assert.Empty(t, errors.ErrorStack(fmt.Errorf("plain")))
}

func TestMultiError(t *testing.T) {
	t.Parallel()

	errs := &errors.MultiError{}
	require.NoError(t, errs.ErrorOrNil())

	errs = errs.Append(nil, errors.New("first"), nil, errors.Errorf("second: %w", context.Canceled))
	require.Error(t, errs.ErrorOrNil())
	assert.Equal(t, 2, errs.Len())
	assert.True(t, errors.IsContextCanceled(errs))
	assert.Equal(t, "2 errors occurred:\n\n* first\n\n* second: context canceled\n", errs.Error())
}
