package log_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/pkg/log"
)

func TestSetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithLevel(log.InfoLevel))

	logger.Debugf("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, logger.SetLevel("debug"))
	assert.Equal(t, log.DebugLevel, logger.Level())

	logger.Debugf("shown")
	assert.Contains(t, buf.String(), "shown")

	require.Error(t, logger.SetLevel("verbose"))
	assert.Equal(t, log.DebugLevel, logger.Level())
}

func TestWithErrorOnlyAffectsDerivedLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithLevel(log.InfoLevel))

	logger.WithError(errors.New("access denied")).Warnf("Unable to verify the caller account")
	assert.Contains(t, buf.String(), `error="access denied"`)
	assert.Contains(t, buf.String(), "Unable to verify the caller account")

	buf.Reset()

	logger.WithField(log.FieldKeyJob, "vpc").Infof("Deploying")
	assert.NotContains(t, buf.String(), "access denied")
	assert.Contains(t, buf.String(), "job=vpc")
}
